package compiler

import (
	"fmt"
	"strings"
)

// Accumulator is the single register of the lowered code.
const Accumulator = "AX"

// arithmetic maps TAC operators to their accumulator mnemonic. MUL and DIV take
// the accumulator implicitly.
var arithmetic = map[string]struct {
	mnemonic string
	explicit bool
}{
	"+": {"ADD", true},
	"-": {"SUB", true},
	"*": {"MUL", false},
	"/": {"DIV", false},
}

var setConditions = map[string]string{
	">":  "SETG",
	"<":  "SETL",
	"==": "SETE",
	"!=": "SETNE",
	">=": "SETGE",
	"<=": "SETLE",
}

// Lower translates instrs into one-register assembly text, one mnemonic per
// line. The output is for display only.
//
//	x = v          MOV x, v
//	r = a + b      MOV AX, a / ADD AX, b / MOV r, AX   (SUB for -)
//	r = a * b      MOV AX, a / MUL b / MOV r, AX       (DIV for /)
//	r = a > b      MOV AX, a / CMP AX, b / SETG AX / MOV r, AX
//	L0:            L0:
//	if c goto L0   MOV AX, c / CMP AX, 0 / JNE L0
func Lower(instrs []Instruction) []string {
	var out []string
	line := func(format string, args ...any) {
		out = append(out, fmt.Sprintf(format, args...))
	}

	for _, instr := range instrs {
		switch in := instr.(type) {
		case *Assign:
			line("MOV %s, %s", in.Dest, in.Value)
		case *BinaryOp:
			line("MOV %s, %s", Accumulator, in.Arg1)
			if op, ok := arithmetic[in.Op]; ok {
				if op.explicit {
					line("%s %s, %s", op.mnemonic, Accumulator, in.Arg2)
				} else {
					line("%s %s", op.mnemonic, in.Arg2)
				}
			} else {
				line("CMP %s, %s", Accumulator, in.Arg2)
				line("%s %s", setConditions[in.Op], Accumulator)
			}
			line("MOV %s, %s", in.Result, Accumulator)
		case *Label:
			line("%s:", in.Name)
		case *CondBranch:
			line("MOV %s, %s", Accumulator, in.Condition)
			line("CMP %s, 0", Accumulator)
			line("JNE %s", in.Target)
		}
	}
	return out
}

// FormatAssembly joins lowered lines, indenting everything but labels.
func FormatAssembly(lines []string) string {
	var sb strings.Builder
	for _, l := range lines {
		if !strings.HasSuffix(l, ":") {
			sb.WriteString("    ")
		}
		sb.WriteString(l)
		sb.WriteByte('\n')
	}
	return sb.String()
}
