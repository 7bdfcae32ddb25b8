package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// TempPrefix starts every compiler-generated temporary. Identifiers in
	// source text are alphanumeric, so no user name can carry it.
	TempPrefix = "_t"

	// ReturnValue is the destination written by a return statement.
	ReturnValue = "return_value"
)

// InstrKind tags the variant held by an Instruction.
type InstrKind int

const (
	KindBinaryOp InstrKind = iota
	KindAssign
	KindLabel
	KindCondBranch
)

var instrKindNames = [...]string{
	KindBinaryOp:   "binary",
	KindAssign:     "assign",
	KindLabel:      "label",
	KindCondBranch: "cond_branch",
}

func (k InstrKind) String() string {
	if int(k) >= 0 && int(k) < len(instrKindNames) {
		return instrKindNames[k]
	}
	return fmt.Sprintf("InstrKind(%d)", int(k))
}

// Instruction is one three-address instruction. The concrete types are
// *BinaryOp, *Assign, *Label and *CondBranch.
type Instruction interface {
	Kind() InstrKind
	String() string
}

// BinaryOp is "Result = Arg1 Op Arg2".
type BinaryOp struct {
	Op     string
	Arg1   string
	Arg2   string
	Result string
}

// Assign is "Dest = Value".
type Assign struct {
	Dest  string
	Value string
}

// Label marks a jump target.
type Label struct {
	Name string
}

// CondBranch is "if Condition goto Target".
type CondBranch struct {
	Condition string
	Target    string
}

func (*BinaryOp) Kind() InstrKind   { return KindBinaryOp }
func (*Assign) Kind() InstrKind     { return KindAssign }
func (*Label) Kind() InstrKind      { return KindLabel }
func (*CondBranch) Kind() InstrKind { return KindCondBranch }

func (i *BinaryOp) String() string {
	return i.Result + " = " + i.Arg1 + " " + i.Op + " " + i.Arg2
}

func (i *Assign) String() string {
	return i.Dest + " = " + i.Value
}

func (i *Label) String() string {
	return i.Name + ":"
}

func (i *CondBranch) String() string {
	return "if " + i.Condition + " goto " + i.Target
}

// TACGenerator accumulates the instruction list of one compilation. Temporary
// and label counters belong to the generator, so independent compilations
// never share names.
type TACGenerator struct {
	instrs    []Instruction
	nextTemp  int
	nextLabel int
}

func NewTACGenerator() *TACGenerator {
	return &TACGenerator{}
}

// NewTemp returns a fresh temporary name.
func (g *TACGenerator) NewTemp() string {
	name := TempPrefix + strconv.Itoa(g.nextTemp)
	g.nextTemp++
	return name
}

// NewLabel returns a fresh label name built from base.
func (g *TACGenerator) NewLabel(base string) string {
	name := base + strconv.Itoa(g.nextLabel)
	g.nextLabel++
	return name
}

func (g *TACGenerator) EmitBinary(op, arg1, arg2, result string) {
	g.instrs = append(g.instrs, &BinaryOp{Op: op, Arg1: arg1, Arg2: arg2, Result: result})
}

func (g *TACGenerator) EmitAssign(dest, value string) {
	g.instrs = append(g.instrs, &Assign{Dest: dest, Value: value})
}

func (g *TACGenerator) EmitLabel(name string) {
	g.instrs = append(g.instrs, &Label{Name: name})
}

func (g *TACGenerator) EmitCondBranch(condition, label string) {
	g.instrs = append(g.instrs, &CondBranch{Condition: condition, Target: label})
}

// retarget rewrites the result of the last instruction from temp to dest when
// that instruction is the BinaryOp that produced temp. It reports whether the
// rewrite happened.
func (g *TACGenerator) retarget(temp, dest string) bool {
	if len(g.instrs) == 0 || !IsTemp(temp) {
		return false
	}
	last, ok := g.instrs[len(g.instrs)-1].(*BinaryOp)
	if !ok || last.Result != temp {
		return false
	}
	last.Result = dest
	return true
}

// Instructions returns the instructions emitted so far, in order.
func (g *TACGenerator) Instructions() []Instruction {
	out := make([]Instruction, len(g.instrs))
	copy(out, g.instrs)
	return out
}

// Lines renders the instructions one per line.
func (g *TACGenerator) Lines() []string {
	return FormatTAC(g.instrs)
}

func (g *TACGenerator) String() string {
	var sb strings.Builder
	for _, line := range g.Lines() {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FormatTAC renders instrs as "dest = a op b", "dest = v", "L0:" and
// "if c goto L0" lines.
func FormatTAC(instrs []Instruction) []string {
	lines := make([]string, len(instrs))
	for i, instr := range instrs {
		lines[i] = instr.String()
	}
	return lines
}

// IsTemp reports whether name is a compiler-generated temporary.
func IsTemp(name string) bool {
	return strings.HasPrefix(name, TempPrefix)
}
