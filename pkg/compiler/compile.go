package compiler

import (
	"fmt"

	"github.com/rs/zerolog"
)

type config struct {
	dialect *Dialect
	logger  zerolog.Logger
	lower   bool
}

// Option configures a single Compile call.
type Option func(*config)

// WithDialect selects the keyword spelling of the source.
func WithDialect(d *Dialect) Option {
	return func(c *config) {
		if d != nil {
			c.dialect = d
		}
	}
}

// WithLogger sets the logger receiving debug events. The default discards them.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithLowering enables the accumulator assembly pass.
func WithLowering(enabled bool) Option {
	return func(c *config) { c.lower = enabled }
}

// Result is everything one compilation produced.
type Result struct {
	Dialect      string
	Tokens       []Token
	Symbols      []Symbol
	Instructions []Instruction
	Assembly     []string // nil unless lowering was enabled
}

// TAC renders the instruction stream one instruction per line.
func (r *Result) TAC() []string {
	return FormatTAC(r.Instructions)
}

// Compile runs lexer, parser and TAC generation over src. Every call owns its
// own symbol table and counters, so concurrent calls do not interfere. The
// first error aborts the compilation.
func Compile(src string, opts ...Option) (*Result, error) {
	cfg := config{dialect: DefaultDialect(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	log := cfg.logger.With().Str("dialect", cfg.dialect.Name).Logger()

	tokens, err := NewLexer(src, cfg.dialect).All()
	if err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}
	log.Debug().Int("tokens", len(tokens)).Msg("tokenized")

	syms := NewSymbolTable()
	gen := NewTACGenerator()
	p := NewParser(tokens, src, syms, gen)
	p.dialect = cfg.dialect
	p.log = log
	if err := p.ParseProgram(); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	res := &Result{
		Dialect:      cfg.dialect.Name,
		Tokens:       tokens,
		Symbols:      syms.Symbols(),
		Instructions: gen.Instructions(),
	}
	if cfg.lower {
		res.Assembly = Lower(res.Instructions)
	}

	log.Debug().
		Int("symbols", len(res.Symbols)).
		Int("instructions", len(res.Instructions)).
		Msg("compiled")
	return res, nil
}
