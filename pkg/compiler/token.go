package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENTIFIER // variable name
	INTEGER    // 42
	DECIMAL    // 4.2
	STRING     // "..." (lexeme keeps the quotes)
	BOOLEAN    // true | false

	// Declaration keywords
	INT    // "int"
	FLOAT  // "float"
	STR    // "string"
	BOOL   // "bool"
	CHAR   // "char"
	DOUBLE // "double"
	CONST  // "const"

	// Control keywords
	IF     // "if"
	ELSE   // "else"
	FOR    // "for"
	WHILE  // "while"
	DO     // "do"
	RETURN // "return"

	// Paired delimiters
	LBRACE // {
	RBRACE // }
	LPAREN // (
	RPAREN // )

	SEMICOLON // ;

	// Arithmetic operators
	PLUS  // +
	MINUS // -
	STAR  // *
	SLASH // /

	// Assignment / comparison (order matters: ASSIGN before EQUALS)
	ASSIGN     // =
	EQUALS     // ==
	NOT_EQ     // !=
	LESS       // <
	GREATER    // >
	LESS_EQ    // <=
	GREATER_EQ // >=
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	INTEGER:    "INTEGER",
	DECIMAL:    "DECIMAL",
	STRING:     "STRING",
	BOOLEAN:    "BOOLEAN",
	INT:        "INT",
	FLOAT:      "FLOAT",
	STR:        "STR",
	BOOL:       "BOOL",
	CHAR:       "CHAR",
	DOUBLE:     "DOUBLE",
	CONST:      "CONST",
	IF:         "IF",
	ELSE:       "ELSE",
	FOR:        "FOR",
	WHILE:      "WHILE",
	DO:         "DO",
	RETURN:     "RETURN",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	SEMICOLON:  "SEMICOLON",
	PLUS:       "PLUS",
	MINUS:      "MINUS",
	STAR:       "STAR",
	SLASH:      "SLASH",
	ASSIGN:     "ASSIGN",
	EQUALS:     "EQUALS",
	NOT_EQ:     "NOT_EQ",
	LESS:       "LESS",
	GREATER:    "GREATER",
	LESS_EQ:    "LESS_EQ",
	GREATER_EQ: "GREATER_EQ",
}

// tokenDescriptions is what syntax errors print for an expected token.
var tokenDescriptions = [...]string{
	EOF:        "end of file",
	IDENTIFIER: "identifier",
	INTEGER:    "number",
	DECIMAL:    "number",
	STRING:     "string literal",
	BOOLEAN:    "boolean literal",
	INT:        "int",
	FLOAT:      "float",
	STR:        "string",
	BOOL:       "bool",
	CHAR:       "char",
	DOUBLE:     "double",
	CONST:      "const",
	IF:         "if",
	ELSE:       "else",
	FOR:        "for",
	WHILE:      "while",
	DO:         "do",
	RETURN:     "return",
	LBRACE:     "{",
	RBRACE:     "}",
	LPAREN:     "(",
	RPAREN:     ")",
	SEMICOLON:  ";",
	PLUS:       "+",
	MINUS:      "-",
	STAR:       "*",
	SLASH:      "/",
	ASSIGN:     "=",
	EQUALS:     "==",
	NOT_EQ:     "!=",
	LESS:       "<",
	GREATER:    ">",
	LESS_EQ:    "<=",
	GREATER_EQ: ">=",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Describe returns the human-facing spelling of tt, e.g. ";" or "identifier".
func (tt TokenType) Describe() string {
	if int(tt) >= 0 && int(tt) < len(tokenDescriptions) {
		return tokenDescriptions[tt]
	}
	return tt.String()
}

// IsTypeKeyword reports whether tt starts a declaration type.
func (tt TokenType) IsTypeKeyword() bool {
	switch tt {
	case INT, FLOAT, STR, BOOL, CHAR, DOUBLE:
		return true
	}
	return false
}

// IsRelational reports whether tt is one of > < == != >= <=.
func (tt TokenType) IsRelational() bool {
	switch tt {
	case EQUALS, NOT_EQ, LESS, GREATER, LESS_EQ, GREATER_EQ:
		return true
	}
	return false
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Line   int    // 1-based source line
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}

// found is how a syntax error names the token it stopped on.
func (t Token) found() string {
	if t.Type == EOF {
		return EOF.Describe()
	}
	return t.Lexeme
}
