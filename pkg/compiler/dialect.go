package compiler

import (
	"fmt"
	"sort"

	"github.com/goccy/go-yaml"
)

// canonicalKeywords maps the default spelling of every keyword to its TokenType.
var canonicalKeywords = map[string]TokenType{
	"int":    INT,
	"float":  FLOAT,
	"string": STR,
	"bool":   BOOL,
	"char":   CHAR,
	"double": DOUBLE,
	"const":  CONST,
	"if":     IF,
	"else":   ELSE,
	"for":    FOR,
	"while":  WHILE,
	"do":     DO,
	"return": RETURN,
	"true":   BOOLEAN,
	"false":  BOOLEAN,
}

// Dialect is the keyword table of one language variant. Variants differ only
// in how keywords are spelled; grammar and semantics are shared.
type Dialect struct {
	Name     string
	keywords map[string]keyword
}

type keyword struct {
	tt        TokenType
	canonical string
}

// DialectConfig is the on-disk form of a Dialect.
//
//	name: roman-urdu
//	keywords:
//	  if: agar
//	  return: wapis
//
// Each entry replaces a canonical spelling; the canonical word then lexes as an
// ordinary identifier.
type DialectConfig struct {
	Name     string            `yaml:"name" json:"name"`
	Keywords map[string]string `yaml:"keywords" json:"keywords"`
}

// DefaultDialect returns the C-like spelling of the language.
func DefaultDialect() *Dialect {
	kw := make(map[string]keyword, len(canonicalKeywords))
	for word, tt := range canonicalKeywords {
		kw[word] = keyword{tt: tt, canonical: word}
	}
	return &Dialect{Name: "default", keywords: kw}
}

// RomanUrduDialect spells if as "agar" and return as "wapis".
func RomanUrduDialect() *Dialect {
	d, err := NewDialect(DialectConfig{
		Name:     "roman-urdu",
		Keywords: map[string]string{"if": "agar", "return": "wapis"},
	})
	if err != nil {
		panic(err)
	}
	return d
}

// NewDialect builds a dialect from cfg on top of the default spellings.
func NewDialect(cfg DialectConfig) (*Dialect, error) {
	d := DefaultDialect()
	if cfg.Name != "" {
		d.Name = cfg.Name
	}

	// sorted so that error messages do not depend on map order
	canon := make([]string, 0, len(cfg.Keywords))
	for word := range cfg.Keywords {
		canon = append(canon, word)
	}
	sort.Strings(canon)

	for _, word := range canon {
		if _, ok := canonicalKeywords[word]; !ok {
			return nil, fmt.Errorf("dialect %s: %q is not a keyword", d.Name, word)
		}
		delete(d.keywords, word)
	}
	for _, word := range canon {
		alias := cfg.Keywords[word]
		if !isIdentifierText(alias) {
			return nil, fmt.Errorf("dialect %s: invalid spelling %q for %q", d.Name, alias, word)
		}
		if _, taken := d.keywords[alias]; taken {
			return nil, fmt.Errorf("dialect %s: spelling %q is already a keyword", d.Name, alias)
		}
		d.keywords[alias] = keyword{tt: canonicalKeywords[word], canonical: word}
	}
	return d, nil
}

// LoadDialect parses a YAML dialect description.
func LoadDialect(data []byte) (*Dialect, error) {
	var cfg DialectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid dialect file: %w", err)
	}
	return NewDialect(cfg)
}

// Lookup returns the keyword type of word, or IDENTIFIER.
func (d *Dialect) Lookup(word string) TokenType {
	if kw, ok := d.keywords[word]; ok {
		return kw.tt
	}
	return IDENTIFIER
}

// Canonical maps a keyword spelled in this dialect back to its default
// spelling. Non-keywords are returned unchanged.
func (d *Dialect) Canonical(word string) string {
	if kw, ok := d.keywords[word]; ok {
		return kw.canonical
	}
	return word
}

// Spelling returns the word this dialect uses for a keyword type.
func (d *Dialect) Spelling(tt TokenType) (string, bool) {
	var found []string
	for word, kw := range d.keywords {
		if kw.tt == tt {
			found = append(found, word)
		}
	}
	if len(found) == 0 {
		return "", false
	}
	sort.Strings(found)
	return found[0], true
}

func isIdentifierText(s string) bool {
	if s == "" || !isLetter(rune(s[0])) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isLetter(rune(s[i])) && !isDigit(rune(s[i])) {
			return false
		}
	}
	return true
}
