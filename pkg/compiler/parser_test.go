package compiler

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// compileTAC compiles src with the default dialect and returns its TAC lines.
func compileTAC(t *testing.T, src string, opts ...Option) []string {
	t.Helper()
	res, err := Compile(src, opts...)
	require.NoError(t, err)
	return res.TAC()
}

func TestParseAssignments(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected []string
	}{
		{"Empty program", "", []string{}},
		{"Declaration only", "int a; float b;", []string{}},
		{"Literal assignment", "int a; a = 5;", []string{"a = 5"}},
		{"Self increment", "int a; a = 5; a = a + 1;", []string{"a = 5", "a = a + 1"}},
		{"Initializer", "int a = 5;", []string{"a = 5"}},
		{"Initializer is not type checked", `int a = "hello";`, []string{`a = "hello"`}},
		{"Initializer from expression", "int a; a = 1; int b = a * 2;", []string{"a = 1", "b = a * 2"}},
		{"String", `string s; s = "hi there";`, []string{`s = "hi there"`}},
		{"Bool", "bool f; f = true;", []string{"f = true"}},
		{"Bool comparison is not folded", "bool f; f = true == false;", []string{"f = true == false"}},
		{"Char", `char c; c = "x";`, []string{`c = "x"`}},
		{"Double", "double d; d = 3;", []string{"d = 3"}},
		{"Variable through a temporary", "int a; int b; a = 1; b = a + 0;", []string{"a = 1", "b = a + 0"}},
		{"Chain of temporaries", "int a; int b; a = 1; b = a * 2 + 3;", []string{"a = 1", "_t0 = a * 2", "b = _t0 + 3"}},
		{"Precedence", "int a; int b; a = 2; b = a + a * 3;", []string{"a = 2", "_t0 = a * 3", "b = a + _t0"}},
		{"Parentheses", "int a; int b; a = 2; b = (a + 1) * 3;", []string{"a = 2", "_t0 = a + 1", "b = _t0 * 3"}},
		{"Return literal", "return 0;", []string{"return_value = 0"}},
		{"Return expression", "int a; a = 1; return a + 1;", []string{"a = 1", "_t0 = a + 1", "return_value = _t0"}},
		{"Nested blocks", "int a; { { a = 1; } }", []string{"a = 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, compileTAC(t, tt.src))
		})
	}
}

func TestConstantFolding(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
	}{
		{"Precedence", "int x; x = 2 + 3 * 4;", "x = 14"},
		{"Parentheses", "int x; x = (1 + 2) * 3;", "x = 9"},
		{"Negative result", "int x; x = 10 - 20;", "x = -10"},
		{"Exact division", "int x; x = 8 / 2;", "x = 4"},
		{"Inexact division", "float x; x = 7 / 2;", "x = 3.5"},
		{"Decimal product", "float c; c = 5.2 * 3;", "c = 15.6"},
		{"Whole decimal keeps point", "float c; c = 2.5 * 2;", "c = 5.0"},
		{"Relational true", "int b; b = 10 > 3;", "b = 1"},
		{"Relational false", "int b; b = 3 >= 10;", "b = 0"},
		{"Relational on decimals", "float b; b = 2.5 > 1;", "b = 1.0"},
		{"Equality", "int b; b = 4 == 4;", "b = 1"},
		{"Left associative", "int x; x = 10 - 3 - 2;", "x = 5"},
		{"Folded operand feeds a comparison", "int b; b = 1 + 1 != 2;", "b = 0"},
		{"Beyond float precision", "int x; x = 9007199254740993 + 0;", "x = 9007199254740993"},
		{"Near int64 limit", "int x; x = 9223372036854775807 - 1;", "x = 9223372036854775806"},
		{"Past int64 limit", "int x; x = 9223372036854775807 + 1;", "x = 9223372036854775808"},
		{"Large product", "int x; x = 4294967296 * 4294967296;", "x = 18446744073709551616"},
		{"Wide literal", "int x; x = " + strings.Repeat("9", 400) + " + 1;", "x = 1" + strings.Repeat("0", 400)},
		{"Negative quotient", "int x; x = 0 - 8 / 2;", "x = -4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, []string{tt.expected}, compileTAC(t, tt.src))
		})
	}
}

func TestParseSymbols(t *testing.T) {
	res, err := Compile("int a; const float pi = 3.14; { string s; } for (int i = 0; i < 2; i + 1) { bool b; }")
	require.NoError(t, err)

	assert.Equal(t, []Symbol{
		{Name: "a", Type: TypeInt, Scope: ScopeGlobal},
		{Name: "b", Type: TypeBool, Scope: ScopeLocal},
		{Name: "i", Type: TypeInt, Scope: ScopeGlobal},
		{Name: "pi", Type: TypeFloat, Scope: ScopeGlobal, IsConst: true},
		{Name: "s", Type: TypeString, Scope: ScopeLocal},
	}, res.Symbols)
}

func TestSemanticErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		kind   error
		symbol string
		line   int
	}{
		{"Undeclared target", "x = 5;", ErrUndeclaredVariable, "x", 1},
		{"Undeclared operand", "int a;\na = b + 1;", ErrUndeclaredVariable, "b", 2},
		{"Undeclared in return", "return y;", ErrUndeclaredVariable, "y", 1},
		{"Duplicate", "int a;\nfloat a;", ErrDuplicateSymbol, "a", 2},
		{"Duplicate in block", "int a; { int a; }", ErrDuplicateSymbol, "a", 1},
		{"Bool into int", "int a; a = true;", ErrTypeMismatch, "a", 1},
		{"Decimal into int", "int a; a = 1.5;", ErrTypeMismatch, "a", 1},
		{"Inexact division into int", "int a; a = 7 / 2;", ErrTypeMismatch, "a", 1},
		{"String into float", `float f; f = "1.0";`, ErrTypeMismatch, "f", 1},
		{"Number into string", "string s; s = 5;", ErrTypeMismatch, "s", 1},
		{"Number into bool", "bool b; b = 1;", ErrTypeMismatch, "b", 1},
		{"Long char", `char c; c = "xy";`, ErrTypeMismatch, "c", 1},
		{"Float variable into int", "int a; float f; f = 1.5; a = f;", ErrTypeMismatch, "a", 1},
		{"Int variable into int", "int a; int b; b = 1; a = b;", ErrTypeMismatch, "a", 1},
		{"Int variable into float", "int a; float f; a = 1; f = a;", ErrTypeMismatch, "f", 1},
		{"Bool variable into bool", "bool a; bool b; b = true; a = b;", ErrTypeMismatch, "a", 1},
		{"String variable into int", "int a; string s; a = s;", ErrTypeMismatch, "a", 1},
		{"Const assignment", "const int k = 3;\nk = 4;", ErrConstAssignment, "k", 2},
		{"Division by zero", "int z;\nz = 1 / 0;", ErrDivisionByZero, "", 2},
		{"Decimal division by zero", "float z; z = 1.0 / 0.0;", ErrDivisionByZero, "", 1},
		{"Decimal out of range", "float f;\nf = " + strings.Repeat("9", 400) + ".5 * 2;", ErrNumberOutOfRange, "", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)

			var semErr *SemanticError
			require.True(t, errors.As(err, &semErr))
			assert.Equal(t, tt.symbol, semErr.Name)
			assert.Equal(t, tt.line, semErr.Line)
		})
	}
}

func TestTypeMismatchDetails(t *testing.T) {
	_, err := Compile("int a; a = true;")
	require.Error(t, err)

	var semErr *SemanticError
	require.True(t, errors.As(err, &semErr))
	assert.Equal(t, TypeInt, semErr.Type)
	assert.Equal(t, "true", semErr.Value)
	assert.Contains(t, err.Error(), "cannot assign true to a of type int")
}

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		expected string
		found    string
		line     int
		snippet  string
	}{
		{"Missing semicolon", "int a a = 5;", ";", "a", 1, "int a a = 5;"},
		{"Missing semicolon at end", "int a;\n  a = 5", ";", "end of file", 2, "a = 5"},
		{"Missing name", "int;", "identifier", ";", 1, "int;"},
		{"Const without type", "const x = 1;", "type", "x", 1, "const x = 1;"},
		{"Not a statement", "+ 1;", "statement", "+", 1, "+ 1;"},
		{"Stray else", "else", "statement", "else", 1, "else"},
		{"Missing expression", "int a; a = ;", "expression", ";", 1, "int a; a = ;"},
		{"Unclosed parenthesis", "int a; a = (1 + 2;", ")", ";", 1, "int a; a = (1 + 2;"},
		{"Missing assign", "int a; a 5;", "=", "5", 1, "int a; a 5;"},
		{"Unclosed block", "int a; {\na = 1;", "}", "end of file", 2, "a = 1;"},
		{"If without parenthesis", "int a; if a > 1 { }", "(", "a", 1, "int a; if a > 1 { }"},
		{"Do without while", "int a;\ndo { a = 1; }\nreturn a;", "while", "return", 3, "return a;"},
		{"Do-while without semicolon", "int a; do { } while (a > 0)", ";", "end of file", 1, "int a; do { } while (a > 0)"},
		{"Bad loop initializer", "for (; ; ) { }", "loop initializer", ";", 1, "for (; ; ) { }"},
		{"Increment by identifier", "int i; int k; for (i = 0; i < 3; i + k) { }", "number", "k", 1, "int i; int k; for (i = 0; i < 3; i + k) { }"},
		{"Bad increment", "int i; for (i = 0; i < 3; i * 2) { }", "increment expression", "*", 1, "int i; for (i = 0; i < 3; i * 2) { }"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)

			var synErr *SyntaxError
			require.True(t, errors.As(err, &synErr))
			assert.Equal(t, tt.expected, synErr.Expected)
			assert.Equal(t, tt.found, synErr.Found)
			assert.Equal(t, tt.line, synErr.Line)
			assert.Equal(t, tt.snippet, synErr.Snippet)
		})
	}
}

func TestSyntaxErrorMessage(t *testing.T) {
	_, err := Compile("int a a = 5;")
	require.Error(t, err)
	assert.Equal(t, "parse error: line 1: expected ; but found \"a\"\n  |> int a a = 5;", err.Error())
}

func TestParseDirect(t *testing.T) {
	src := "int a; a = 5; a = a + 1;"
	tokens, err := Lex(src)
	require.NoError(t, err)

	syms, gen, err := Parse(tokens, src)
	require.NoError(t, err)
	assert.True(t, syms.Has("a"))
	assert.Equal(t, []string{"a = 5", "a = a + 1"}, gen.Lines())

	// a token slice without the end marker is treated as terminated
	syms, gen, err = Parse(tokens[:len(tokens)-1], src)
	require.NoError(t, err)
	assert.Equal(t, 1, syms.Len())
	assert.Len(t, gen.Instructions(), 2)
}

func TestParseDialect(t *testing.T) {
	t.Run("Roman Urdu keywords", func(t *testing.T) {
		src := "int a; a = 1; agar (a > 0) { wapis a; }"
		assert.Equal(t,
			[]string{"a = 1", "_t0 = a > 0", "return_value = a"},
			compileTAC(t, src, WithDialect(RomanUrduDialect())))
	})

	t.Run("Replaced keyword is an identifier", func(t *testing.T) {
		src := "int if; if = 2; wapis if;"
		assert.Equal(t,
			[]string{"if = 2", "return_value = if"},
			compileTAC(t, src, WithDialect(RomanUrduDialect())))
	})

	t.Run("Boolean aliases are canonical in TAC", func(t *testing.T) {
		d, err := NewDialect(DialectConfig{Name: "hi", Keywords: map[string]string{"true": "sahi", "false": "galat"}})
		require.NoError(t, err)
		assert.Equal(t,
			[]string{"f = true", "f = true == false"},
			compileTAC(t, "bool f; f = sahi; f = sahi == galat;", WithDialect(d)))
	})

	t.Run("Errors use the dialect spelling", func(t *testing.T) {
		d, err := NewDialect(DialectConfig{Keywords: map[string]string{"while": "jabtak"}})
		require.NoError(t, err)

		_, err = Compile("int x; do { } x", WithDialect(d))
		var synErr *SyntaxError
		require.True(t, errors.As(err, &synErr))
		assert.Equal(t, "jabtak", synErr.Expected)
	})
}
