package compiler

import (
	"unicode"
)

// Lexer holds all mutable state for a single scanning pass over src.
// Tokens are produced on demand by Next; once the end marker or an error has
// been returned, every further call returns the same result.
type Lexer struct {
	src     []rune
	pos     int // index of the next rune to consume
	line    int // current 1-based source line
	dialect *Dialect

	done bool
	last Token
	err  error
}

// NewLexer returns a lexer over src. A nil dialect selects DefaultDialect.
func NewLexer(src string, dialect *Dialect) *Lexer {
	if dialect == nil {
		dialect = DefaultDialect()
	}
	return &Lexer{src: []rune(src), pos: 0, line: 1, dialect: dialect}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
	}
	return r
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && unicode.IsSpace(l.peek()) {
		l.advance()
	}
}

// skipLineComment discards everything from the current position to end-of-line.
// The opening "//" must already have been consumed.
func (l *Lexer) skipLineComment() {
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
}

// skipBlockComment discards everything up to and including the closing "*/".
// The opening "/*" must already have been consumed.
func (l *Lexer) skipBlockComment() error {
	startLine := l.line
	for !l.atEnd() {
		if l.peek() == '*' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/' {
			l.advance() // *
			l.advance() // /
			return nil
		}
		l.advance()
	}
	return &LexError{Kind: ErrUnterminatedComment, Line: startLine}
}

// scanWord collects an identifier, keyword or boolean literal.
// The first letter must still be at l.peek().
func (l *Lexer) scanWord() Token {
	line := l.line
	start := l.pos
	for !l.atEnd() && (isLetter(l.peek()) || isDigit(l.peek())) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	return Token{Type: l.dialect.Lookup(lexeme), Lexeme: lexeme, Line: line}
}

// scanNumber collects digits with at most one decimal point.
// The first digit must still be at l.peek().
func (l *Lexer) scanNumber() Token {
	line := l.line
	start := l.pos
	tt := INTEGER
	for !l.atEnd() {
		r := l.peek()
		if isDigit(r) {
			l.advance()
			continue
		}
		if r == '.' && tt == INTEGER {
			tt = DECIMAL
			l.advance()
			continue
		}
		break
	}
	return Token{Type: tt, Lexeme: string(l.src[start:l.pos]), Line: line}
}

// scanString collects a string literal "...". The lexeme keeps both quotes and
// the body verbatim; there are no escape sequences.
func (l *Lexer) scanString() (Token, error) {
	line := l.line
	start := l.pos
	l.advance() // consume opening "

	for !l.atEnd() && l.peek() != '"' {
		l.advance()
	}
	if l.atEnd() {
		return Token{}, &LexError{Kind: ErrUnterminatedString, Line: line}
	}
	l.advance() // consume closing "

	return Token{Type: STRING, Lexeme: string(l.src[start:l.pos]), Line: line}, nil
}

// nextToken skips whitespace/comments and returns the next Token.
func (l *Lexer) nextToken() (Token, error) {
	// Skip whitespace and both comment styles in a loop so that
	// a comment followed immediately by more whitespace is handled.
	for {
		l.skipWhitespace()
		if l.atEnd() {
			return Token{Type: EOF, Lexeme: "", Line: l.line}, nil
		}
		if l.peek() == '/' && l.peek2() == '/' {
			l.advance()
			l.advance()
			l.skipLineComment()
			continue
		}
		if l.peek() == '/' && l.peek2() == '*' {
			l.advance()
			l.advance()
			if err := l.skipBlockComment(); err != nil {
				return Token{}, err
			}
			continue
		}
		break
	}

	ch := l.peek()
	line := l.line

	if isLetter(ch) {
		return l.scanWord(), nil
	}
	if isDigit(ch) {
		return l.scanNumber(), nil
	}
	if ch == '"' {
		return l.scanString()
	}

	l.advance() // consume the character before the switch
	switch ch {
	case '{':
		return Token{LBRACE, "{", line}, nil
	case '}':
		return Token{RBRACE, "}", line}, nil
	case '(':
		return Token{LPAREN, "(", line}, nil
	case ')':
		return Token{RPAREN, ")", line}, nil
	case ';':
		return Token{SEMICOLON, ";", line}, nil
	case '+':
		return Token{PLUS, "+", line}, nil
	case '-':
		return Token{MINUS, "-", line}, nil
	case '*':
		return Token{STAR, "*", line}, nil
	case '/':
		return Token{SLASH, "/", line}, nil
	case '=':
		if l.match('=') { // lookahead: distinguish = vs ==
			return Token{EQUALS, "==", line}, nil
		}
		return Token{ASSIGN, "=", line}, nil
	case '!':
		if l.match('=') {
			return Token{NOT_EQ, "!=", line}, nil
		}
		// a lone '!' has no meaning in the language
		return Token{}, &LexError{Kind: ErrUnexpectedCharacter, Char: ch, Line: line}
	case '<':
		if l.match('=') {
			return Token{LESS_EQ, "<=", line}, nil
		}
		return Token{LESS, "<", line}, nil
	case '>':
		if l.match('=') {
			return Token{GREATER_EQ, ">=", line}, nil
		}
		return Token{GREATER, ">", line}, nil
	default:
		return Token{}, &LexError{Kind: ErrUnexpectedCharacter, Char: ch, Line: line}
	}
}

// match consumes the next rune if it equals want.
func (l *Lexer) match(want rune) bool {
	if l.atEnd() || l.peek() != want {
		return false
	}
	l.advance()
	return true
}

// Next returns the next token. After the EOF token or an error, the same
// token or error is returned again.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	if l.done {
		return l.last, nil
	}
	tok, err := l.nextToken()
	if err != nil {
		l.err = err
		return Token{}, err
	}
	if tok.Type == EOF {
		l.done = true
		l.last = tok
	}
	return tok, nil
}

// All drains the lexer and returns every token including the final EOF token.
func (l *Lexer) All() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Type == EOF {
			return tokens, nil
		}
	}
}

// Lex tokenises src with the default dialect and returns all tokens including
// the final EOF token. It returns a non-nil error on the first illegal
// character, unterminated string or unterminated comment.
func Lex(src string) ([]Token, error) {
	return NewLexer(src, nil).All()
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
