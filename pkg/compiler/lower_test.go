package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLower(t *testing.T) {
	tests := []struct {
		name     string
		instr    Instruction
		expected []string
	}{
		{"Assign", &Assign{Dest: "x", Value: "5"}, []string{"MOV x, 5"}},
		{"Add", &BinaryOp{Op: "+", Arg1: "a", Arg2: "1", Result: "a"}, []string{"MOV AX, a", "ADD AX, 1", "MOV a, AX"}},
		{"Sub", &BinaryOp{Op: "-", Arg1: "a", Arg2: "b", Result: "_t0"}, []string{"MOV AX, a", "SUB AX, b", "MOV _t0, AX"}},
		{"Mul", &BinaryOp{Op: "*", Arg1: "a", Arg2: "b", Result: "_t0"}, []string{"MOV AX, a", "MUL b", "MOV _t0, AX"}},
		{"Div", &BinaryOp{Op: "/", Arg1: "a", Arg2: "2", Result: "_t0"}, []string{"MOV AX, a", "DIV 2", "MOV _t0, AX"}},
		{"Greater", &BinaryOp{Op: ">", Arg1: "x", Arg2: "0", Result: "_t1"}, []string{"MOV AX, x", "CMP AX, 0", "SETG AX", "MOV _t1, AX"}},
		{"Less or equal", &BinaryOp{Op: "<=", Arg1: "x", Arg2: "y", Result: "_t1"}, []string{"MOV AX, x", "CMP AX, y", "SETLE AX", "MOV _t1, AX"}},
		{"Not equal", &BinaryOp{Op: "!=", Arg1: "x", Arg2: "y", Result: "_t1"}, []string{"MOV AX, x", "CMP AX, y", "SETNE AX", "MOV _t1, AX"}},
		{"Label", &Label{Name: "L0"}, []string{"L0:"}},
		{"Branch", &CondBranch{Condition: "_t1", Target: "L0"}, []string{"MOV AX, _t1", "CMP AX, 0", "JNE L0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Lower([]Instruction{tt.instr}))
		})
	}
}

func TestLowerDoWhile(t *testing.T) {
	res, err := Compile("int x; x = 3; do { x = x - 1; } while (x > 0);", WithLowering(true))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"MOV x, 3",
		"L0:",
		"MOV AX, x",
		"SUB AX, 1",
		"MOV x, AX",
		"MOV AX, x",
		"CMP AX, 0",
		"SETG AX",
		"MOV _t1, AX",
		"MOV AX, _t1",
		"CMP AX, 0",
		"JNE L0",
	}, res.Assembly)

	assert.Equal(t, "    MOV x, 3\nL0:\n    MOV AX, x\n", FormatAssembly(res.Assembly[:3]))
}

func TestLowerDisabledByDefault(t *testing.T) {
	res, err := Compile("int x; x = 3;")
	require.NoError(t, err)
	assert.Nil(t, res.Assembly)
}
