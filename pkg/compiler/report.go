package compiler

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// instructionRecord is the JSON shape of an Instruction.
type instructionRecord struct {
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	Op        string `json:"op,omitempty"`
	Arg1      string `json:"arg1,omitempty"`
	Arg2      string `json:"arg2,omitempty"`
	Result    string `json:"result,omitempty"`
	Dest      string `json:"dest,omitempty"`
	Value     string `json:"value,omitempty"`
	Label     string `json:"label,omitempty"`
	Condition string `json:"condition,omitempty"`
}

type tokenRecord struct {
	Type   string `json:"type"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
}

type resultRecord struct {
	Dialect      string              `json:"dialect"`
	Tokens       []tokenRecord       `json:"tokens,omitempty"`
	Symbols      []Symbol            `json:"symbols"`
	Instructions []instructionRecord `json:"instructions"`
	Assembly     []string            `json:"assembly,omitempty"`
}

func newInstructionRecord(instr Instruction) instructionRecord {
	rec := instructionRecord{Kind: instr.Kind().String(), Text: instr.String()}
	switch in := instr.(type) {
	case *BinaryOp:
		rec.Op, rec.Arg1, rec.Arg2, rec.Result = in.Op, in.Arg1, in.Arg2, in.Result
	case *Assign:
		rec.Dest, rec.Value = in.Dest, in.Value
	case *Label:
		rec.Label = in.Name
	case *CondBranch:
		rec.Condition, rec.Label = in.Condition, in.Target
	}
	return rec
}

func (r *Result) record(withTokens bool) resultRecord {
	rec := resultRecord{
		Dialect:      r.Dialect,
		Symbols:      r.Symbols,
		Instructions: make([]instructionRecord, len(r.Instructions)),
		Assembly:     r.Assembly,
	}
	if rec.Symbols == nil {
		rec.Symbols = []Symbol{}
	}
	for i, instr := range r.Instructions {
		rec.Instructions[i] = newInstructionRecord(instr)
	}
	if withTokens {
		for _, tok := range r.Tokens {
			rec.Tokens = append(rec.Tokens, tokenRecord{Type: tok.Type.String(), Lexeme: tok.Lexeme, Line: tok.Line})
		}
	}
	return rec
}

// MarshalJSON encodes symbols, instructions and assembly. Tokens are left out;
// use EncodeJSON to include them.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.record(false))
}

// EncodeJSON writes an indented JSON report of r to w.
func (r *Result) EncodeJSON(w io.Writer, withTokens bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.record(withTokens))
}

// WriteText writes the human-readable report: symbol table, three-address
// code and, when present, the lowered assembly.
func (r *Result) WriteText(w io.Writer) error {
	syms := NewSymbolTable()
	for _, sym := range r.Symbols {
		if err := syms.Add(sym.Name, sym.Type, sym.Scope, sym.IsConst); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(w, syms); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(w, "Three Address Code:"); err != nil {
		return err
	}
	for _, line := range r.TAC() {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}

	if r.Assembly != nil {
		if _, err := fmt.Fprintf(w, "Generated Assembly Code:\n%s", FormatAssembly(r.Assembly)); err != nil {
			return err
		}
	}
	return nil
}
