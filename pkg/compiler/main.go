// Package compiler provides a single-pass front end for a small imperative
// language: a lexer, a flat symbol table, and a recursive-descent parser that
// checks declarations and types while it emits three-address code.
//
// Pipeline: source → Lex → Parse (+ SymbolTable, TACGenerator) → TAC → Lower
package compiler
