package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// DataType is a declared variable type.
type DataType string

const (
	TypeInt    DataType = "int"
	TypeFloat  DataType = "float"
	TypeString DataType = "string"
	TypeBool   DataType = "bool"
	TypeChar   DataType = "char"
	TypeDouble DataType = "double"
)

// dataTypes maps declaration keywords to their type.
var dataTypes = map[TokenType]DataType{
	INT:    TypeInt,
	FLOAT:  TypeFloat,
	STR:    TypeString,
	BOOL:   TypeBool,
	CHAR:   TypeChar,
	DOUBLE: TypeDouble,
}

// Scope tags recorded on symbols. They are informational only: lookups ignore
// them because the table is flat.
const (
	ScopeGlobal = "global"
	ScopeLocal  = "local"
)

type Symbol struct {
	Name    string   `json:"name"`
	Type    DataType `json:"type"`
	Scope   string   `json:"scope"`
	IsConst bool     `json:"const"`
}

// SymbolTable maps variable names to their declarations for one compilation.
//
// The table is flat: nested blocks do not open a new scope, so a name declared
// inside a block stays visible after it and cannot be declared again anywhere
// in the program.
type SymbolTable struct {
	symbols map[string]Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]Symbol)}
}

// Add registers name. It fails with ErrDuplicateSymbol if name is already known.
func (s *SymbolTable) Add(name string, typ DataType, scope string, isConst bool) error {
	if _, ok := s.symbols[name]; ok {
		return &SemanticError{Kind: ErrDuplicateSymbol, Name: name}
	}
	s.symbols[name] = Symbol{Name: name, Type: typ, Scope: scope, IsConst: isConst}
	return nil
}

func (s *SymbolTable) Has(name string) bool {
	_, ok := s.symbols[name]
	return ok
}

// Get returns the symbol declared as name, or ErrUndeclaredSymbol.
func (s *SymbolTable) Get(name string) (Symbol, error) {
	sym, ok := s.symbols[name]
	if !ok {
		return Symbol{}, &SemanticError{Kind: ErrUndeclaredSymbol, Name: name}
	}
	return sym, nil
}

func (s *SymbolTable) TypeOf(name string) (DataType, error) {
	sym, err := s.Get(name)
	if err != nil {
		return "", err
	}
	return sym.Type, nil
}

func (s *SymbolTable) Len() int {
	return len(s.symbols)
}

// Symbols returns a snapshot of the table sorted by name.
func (s *SymbolTable) Symbols() []Symbol {
	out := make([]Symbol, 0, len(s.symbols))
	for _, sym := range s.symbols {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	if len(s.symbols) == 0 {
		sb.WriteString("Symbols: (empty)\n")
		return sb.String()
	}
	sb.WriteString("Symbols:\n")
	fmt.Fprintf(&sb, "  %-20s  %-7s %-7s %s\n", "Name", "Type", "Scope", "Const")
	for _, sym := range s.Symbols() {
		isConst := "No"
		if sym.IsConst {
			isConst = "Yes"
		}
		fmt.Fprintf(&sb, "  %-20s  %-7s %-7s %s\n", sym.Name, sym.Type, sym.Scope, isConst)
	}
	return sb.String()
}
