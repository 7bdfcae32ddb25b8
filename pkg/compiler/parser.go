package compiler

import (
	"errors"
	"strings"

	"github.com/rs/zerolog"
)

// Parser consumes the flat token slice produced by the Lexer. It does not
// build a tree: every construct is checked against the symbol table and
// translated to three-address code as soon as it has been recognised.
//
// Grammar:
//
//	program        = statement* EOF
//	statement      = declaration | assignment | ifStmt | whileStmt | doWhileStmt
//	               | forStmt | returnStmt | block
//	declaration    = ["const"] type IDENTIFIER ["=" expression] ";"
//	assignment     = IDENTIFIER "=" expression ";"
//	block          = "{" statement* "}"
//	ifStmt         = "if" "(" expression ")" statement ["else" statement]
//	whileStmt      = "while" "(" expression ")" statement
//	doWhileStmt    = "do" statement "while" "(" expression ")" ";"
//	forStmt        = "for" "(" (declaration | assignment) expression ";" increment ")" statement
//	increment      = IDENTIFIER "=" expression | IDENTIFIER ("+" | "-") NUMBER
//	returnStmt     = "return" expression ";"
//	expression     = relational
//	relational     = additive (("<"|">"|"=="|"!="|"<="|">=") additive)*
//	additive       = multiplicative (("+" | "-") multiplicative)*
//	multiplicative = factor (("*" | "/") factor)*
//	factor         = NUMBER | IDENTIFIER | STRING | BOOLEAN | "(" expression ")"
//
// if and while compute their condition but emit no branch around their
// bodies; do-while is the only construct that produces a label and a jump.
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string

	syms *SymbolTable
	gen  *TACGenerator

	dialect *Dialect
	log     zerolog.Logger
	depth   int // block nesting, only used to tag symbols
}

func NewParser(tokens []Token, rawSource string, syms *SymbolTable, gen *TACGenerator) *Parser {
	return &Parser{
		tokens:      tokens,
		sourceLines: strings.Split(rawSource, "\n"),
		syms:        syms,
		gen:         gen,
		dialect:     DefaultDialect(),
		log:         zerolog.Nop(),
	}
}

// Parse runs a fresh parser over tokens and returns the resulting symbol
// table and instruction stream.
func Parse(tokens []Token, rawSource string) (*SymbolTable, *TACGenerator, error) {
	syms := NewSymbolTable()
	gen := NewTACGenerator()
	if err := NewParser(tokens, rawSource, syms, gen).ParseProgram(); err != nil {
		return nil, nil, err
	}
	return syms, gen, nil
}

// ParseProgram parses statements until the end marker. It stops at the first
// error.
func (p *Parser) ParseProgram() error {
	for p.peek().Type != EOF {
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	return nil
}

// syntaxError builds an ExpectedTokenButFound error located at tok.
func (p *Parser) syntaxError(tok Token, expected string) error {
	err := &SyntaxError{Expected: expected, Found: tok.found(), Line: tok.Line}
	lineIdx := tok.Line - 1 // Lines are 1-based
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		err.Snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}
	return err
}

func (p *Parser) semanticError(tok Token, kind error, name string) error {
	return &SemanticError{Kind: kind, Name: name, Line: tok.Line}
}

// describe names tt the way the active dialect spells it.
func (p *Parser) describe(tt TokenType) string {
	if word, ok := p.dialect.Spelling(tt); ok && tt != BOOLEAN {
		return word
	}
	return tt.Describe()
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// match consumes the current token if it has type tt.
func (p *Parser) match(tt TokenType) bool {
	if p.peek().Type != tt {
		return false
	}
	p.advance()
	return true
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, p.syntaxError(tok, p.describe(tt))
	}
	return p.advance(), nil
}

func (p *Parser) scope() string {
	if p.depth > 0 {
		return ScopeLocal
	}
	return ScopeGlobal
}

func (p *Parser) parseStatement() error {
	tok := p.peek()
	switch {
	case tok.Type.IsTypeKeyword() || tok.Type == CONST:
		return p.parseDeclaration()
	case tok.Type == IDENTIFIER:
		return p.parseAssignment()
	case tok.Type == IF:
		return p.parseIf()
	case tok.Type == WHILE:
		return p.parseWhile()
	case tok.Type == DO:
		return p.parseDoWhile()
	case tok.Type == FOR:
		return p.parseFor()
	case tok.Type == RETURN:
		return p.parseReturn()
	case tok.Type == LBRACE:
		return p.parseBlock()
	default:
		return p.syntaxError(tok, "statement")
	}
}

func (p *Parser) parseBlock() error {
	if _, err := p.expect(LBRACE); err != nil {
		return err
	}
	p.depth++
	for p.peek().Type != RBRACE && p.peek().Type != EOF {
		if err := p.parseStatement(); err != nil {
			return err
		}
	}
	p.depth--
	_, err := p.expect(RBRACE)
	return err
}

func (p *Parser) parseDeclaration() error {
	isConst := p.match(CONST)

	typeTok := p.peek()
	typ, ok := dataTypes[typeTok.Type]
	if !ok {
		return p.syntaxError(typeTok, "type")
	}
	p.advance()

	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return err
	}

	if err := p.syms.Add(nameTok.Lexeme, typ, p.scope(), isConst); err != nil {
		var semErr *SemanticError
		if errors.As(err, &semErr) {
			semErr.Line = nameTok.Line
		}
		return err
	}

	if p.match(ASSIGN) {
		value, err := p.parseExpression()
		if err != nil {
			return err
		}
		p.store(nameTok.Lexeme, value)
	}

	_, err = p.expect(SEMICOLON)
	return err
}

func (p *Parser) parseAssignment() error {
	nameTok := p.advance()
	if err := p.assign(nameTok); err != nil {
		return err
	}
	_, err := p.expect(SEMICOLON)
	return err
}

// assign handles `= expression` after the already consumed target nameTok.
func (p *Parser) assign(nameTok Token) error {
	sym, err := p.target(nameTok)
	if err != nil {
		return err
	}

	if _, err := p.expect(ASSIGN); err != nil {
		return err
	}

	value, err := p.parseExpression()
	if err != nil {
		return err
	}

	if !compatible(sym.Type, value) {
		return &SemanticError{Kind: ErrTypeMismatch, Name: sym.Name, Type: sym.Type, Value: value, Line: nameTok.Line}
	}

	p.store(sym.Name, value)
	return nil
}

// target resolves the variable on the left of an assignment.
func (p *Parser) target(nameTok Token) (Symbol, error) {
	if !p.syms.Has(nameTok.Lexeme) {
		return Symbol{}, p.semanticError(nameTok, ErrUndeclaredVariable, nameTok.Lexeme)
	}
	sym, err := p.syms.Get(nameTok.Lexeme)
	if err != nil {
		return Symbol{}, err
	}
	if sym.IsConst {
		return Symbol{}, p.semanticError(nameTok, ErrConstAssignment, sym.Name)
	}
	return sym, nil
}

// store writes value into dest. A temporary computed by the instruction just
// emitted is stored by renaming that instruction's result.
func (p *Parser) store(dest, value string) {
	if p.gen.retarget(value, dest) {
		return
	}
	p.gen.EmitAssign(dest, value)
}

// parseCondition parses "(" expression ")" and returns the condition value.
func (p *Parser) parseCondition() (string, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return "", err
	}
	cond, err := p.parseExpression()
	if err != nil {
		return "", err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return "", err
	}
	return cond, nil
}

func (p *Parser) parseIf() error {
	ifTok := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return err
	}
	p.log.Debug().Int("line", ifTok.Line).Str("condition", cond).Msg("if condition computed, no branch emitted")

	if err := p.parseStatement(); err != nil {
		return err
	}
	if p.match(ELSE) {
		return p.parseStatement()
	}
	return nil
}

func (p *Parser) parseWhile() error {
	whileTok := p.advance()
	cond, err := p.parseCondition()
	if err != nil {
		return err
	}
	p.log.Debug().Int("line", whileTok.Line).Str("condition", cond).Msg("while condition computed, no branch emitted")
	return p.parseStatement()
}

func (p *Parser) parseDoWhile() error {
	p.advance() // do

	start := p.gen.NewLabel("L")
	p.gen.EmitLabel(start)
	p.log.Debug().Str("label", start).Msg("do-while loop start")

	if err := p.parseStatement(); err != nil {
		return err
	}
	if _, err := p.expect(WHILE); err != nil {
		return err
	}
	cond, err := p.parseCondition()
	if err != nil {
		return err
	}
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}

	p.gen.EmitCondBranch(cond, start)
	return nil
}

func (p *Parser) parseFor() error {
	p.advance() // for
	if _, err := p.expect(LPAREN); err != nil {
		return err
	}

	// init: both forms consume their own ';'
	switch tok := p.peek(); {
	case tok.Type.IsTypeKeyword() || tok.Type == CONST:
		if err := p.parseDeclaration(); err != nil {
			return err
		}
	case tok.Type == IDENTIFIER:
		if err := p.parseAssignment(); err != nil {
			return err
		}
	default:
		return p.syntaxError(tok, "loop initializer")
	}

	cond, err := p.parseExpression()
	if err != nil {
		return err
	}
	p.log.Debug().Str("condition", cond).Msg("for condition computed, no branch emitted")
	if _, err := p.expect(SEMICOLON); err != nil {
		return err
	}

	if err := p.parseIncrement(); err != nil {
		return err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return err
	}
	return p.parseStatement()
}

// parseIncrement handles `ident = expression` and `ident (+|-) NUMBER`.
func (p *Parser) parseIncrement() error {
	nameTok, err := p.expect(IDENTIFIER)
	if err != nil {
		return err
	}

	switch p.peek().Type {
	case ASSIGN:
		return p.assign(nameTok)
	case PLUS, MINUS:
		sym, err := p.target(nameTok)
		if err != nil {
			return err
		}
		opTok := p.advance()
		amount := p.peek()
		if amount.Type != INTEGER && amount.Type != DECIMAL {
			return p.syntaxError(amount, INTEGER.Describe())
		}
		p.advance()

		temp := p.gen.NewTemp()
		p.gen.EmitBinary(opTok.Lexeme, sym.Name, amount.Lexeme, temp)
		p.gen.EmitAssign(sym.Name, temp)
		return nil
	default:
		return p.syntaxError(p.peek(), "increment expression")
	}
}

func (p *Parser) parseReturn() error {
	p.advance() // return
	value, err := p.parseExpression()
	if err != nil {
		return err
	}
	p.gen.EmitAssign(ReturnValue, value)
	_, err = p.expect(SEMICOLON)
	return err
}

// parseExpression is the entry point for expression parsing. It returns the
// text of the computed value: a literal, an identifier or a temporary.
func (p *Parser) parseExpression() (string, error) {
	return p.parseRelational()
}

// parseRelational handles > < == != >= <=
func (p *Parser) parseRelational() (string, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return "", err
	}
	for p.peek().Type.IsRelational() {
		opTok := p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return "", err
		}
		if left, err = p.binary(opTok, left, right); err != nil {
			return "", err
		}
	}
	return left, nil
}

// parseAdditive handles + and -
func (p *Parser) parseAdditive() (string, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return "", err
	}
	for p.peek().Type == PLUS || p.peek().Type == MINUS {
		opTok := p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return "", err
		}
		if left, err = p.binary(opTok, left, right); err != nil {
			return "", err
		}
	}
	return left, nil
}

// parseMultiplicative handles * and /
func (p *Parser) parseMultiplicative() (string, error) {
	left, err := p.parseFactor()
	if err != nil {
		return "", err
	}
	for p.peek().Type == STAR || p.peek().Type == SLASH {
		opTok := p.advance()
		right, err := p.parseFactor()
		if err != nil {
			return "", err
		}
		if left, err = p.binary(opTok, left, right); err != nil {
			return "", err
		}
	}
	return left, nil
}

func (p *Parser) parseFactor() (string, error) {
	tok := p.peek()
	switch tok.Type {
	case INTEGER, DECIMAL, STRING:
		p.advance()
		return tok.Lexeme, nil
	case BOOLEAN:
		p.advance()
		return p.dialect.Canonical(tok.Lexeme), nil
	case IDENTIFIER:
		p.advance()
		if !p.syms.Has(tok.Lexeme) {
			return "", p.semanticError(tok, ErrUndeclaredVariable, tok.Lexeme)
		}
		return tok.Lexeme, nil
	case LPAREN:
		p.advance()
		value, err := p.parseExpression()
		if err != nil {
			return "", err
		}
		if _, err := p.expect(RPAREN); err != nil {
			return "", err
		}
		return value, nil
	default:
		return "", p.syntaxError(tok, "expression")
	}
}

// binary folds "left op right" when both sides are numeric literals and
// otherwise emits a BinaryOp into a fresh temporary.
func (p *Parser) binary(opTok Token, left, right string) (string, error) {
	if foldable(left, right) {
		value, err := fold(opTok.Type, left, right)
		if err != nil {
			var semErr *SemanticError
			if errors.As(err, &semErr) {
				semErr.Line = opTok.Line
			}
			return "", err
		}
		p.log.Debug().
			Int("line", opTok.Line).
			Str("expr", left+" "+opTok.Lexeme+" "+right).
			Str("value", value).
			Msg("folded constant")
		return value, nil
	}

	temp := p.gen.NewTemp()
	p.gen.EmitBinary(opTok.Lexeme, left, right, temp)
	return temp, nil
}
