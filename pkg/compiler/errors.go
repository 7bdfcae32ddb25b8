package compiler

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the pipeline wraps exactly one of them,
// so callers can branch with errors.Is.
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrUnterminatedString  = errors.New("unterminated string literal")
	ErrUnterminatedComment = errors.New("unterminated block comment")

	ErrSyntax = errors.New("syntax error")

	ErrDuplicateSymbol    = errors.New("duplicate symbol")
	ErrUndeclaredSymbol   = errors.New("undeclared symbol")
	ErrUndeclaredVariable = errors.New("undeclared variable")
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrConstAssignment    = errors.New("assignment to constant")
	ErrDivisionByZero     = errors.New("division by zero in constant expression")
	ErrNumberOutOfRange   = errors.New("numeric literal out of range")
)

// LexError reports the first character the lexer could not turn into a token.
type LexError struct {
	Kind error // ErrUnexpectedCharacter, ErrUnterminatedString or ErrUnterminatedComment
	Char rune  // offending character, 0 for unterminated constructs
	Line int
}

func (e *LexError) Error() string {
	if e.Kind == ErrUnexpectedCharacter {
		return fmt.Sprintf("line %d: %s %q", e.Line, e.Kind, e.Char)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Kind)
}

func (e *LexError) Unwrap() error { return e.Kind }

// SyntaxError is an ExpectedTokenButFound failure.
type SyntaxError struct {
	Expected string
	Found    string
	Line     int
	Snippet  string // trimmed source line, empty when unavailable
}

func (e *SyntaxError) Error() string {
	msg := fmt.Sprintf("line %d: expected %s but found %q", e.Line, e.Expected, e.Found)
	if e.Snippet != "" {
		msg += "\n  |> " + e.Snippet
	}
	return msg
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// SemanticError reports a declaration or type rule violation.
type SemanticError struct {
	Kind  error
	Name  string   // symbol involved, if any
	Type  DataType // declared type for ErrTypeMismatch
	Value string   // offending value text for ErrTypeMismatch and ErrNumberOutOfRange
	Line  int
}

func (e *SemanticError) Error() string {
	var msg string
	switch e.Kind {
	case ErrTypeMismatch:
		msg = fmt.Sprintf("%s: cannot assign %s to %s of type %s", e.Kind, e.Value, e.Name, e.Type)
	case ErrDivisionByZero:
		msg = e.Kind.Error()
	case ErrNumberOutOfRange:
		msg = fmt.Sprintf("%s: %s", e.Kind, e.Value)
	default:
		msg = fmt.Sprintf("%s %q", e.Kind, e.Name)
	}
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *SemanticError) Unwrap() error { return e.Kind }
