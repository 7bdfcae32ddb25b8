package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"tacc/pkg/compiler"
	"tacc/pkg/utils"
)

const testSource = `/* demo program */
int a;
// comment
a = 6;
int b;
b = a + 10;
string name;
float c;
bool flag;
name = "John";
flag = true;
c = 5.2 * 3;
int g;
g = 7 + 1;
if (b < a) {
    return b;
} else {
    return 0;
}
int x;
x = 5;
do {
    x = x - 1;
} while (x > 0);
int y;
y = 10;
for (x = 0; x < 5; x + 1) {
    y = y + 1;
}
return y + 1;
`

type options struct {
	dialectPath string
	jsonOut     bool
	showAsm     bool
	showTokens  bool
	verbose     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.dialectPath, "dialect", "", "YAML file with keyword spellings (default: C-like keywords)")
	flag.BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	flag.BoolVar(&opts.showAsm, "asm", false, "also lower the three-address code to accumulator assembly")
	flag.BoolVar(&opts.showTokens, "tokens", false, "print the token stream")
	flag.BoolVar(&opts.verbose, "v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: tacc [options] [file...]\n\n")
		fmt.Fprintf(os.Stderr, "Compiles each file to three-address code. Without files a built-in demo program is compiled.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := zerolog.InfoLevel
	if opts.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()

	if err := run(context.Background(), opts, flag.Args(), os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("compilation failed")
		os.Exit(1)
	}
}

// run compiles every input concurrently, one independent pipeline per input,
// and prints the reports in input order.
func run(ctx context.Context, opts options, paths []string, out io.Writer, logger zerolog.Logger) error {
	dialect := compiler.DefaultDialect()
	if opts.dialectPath != "" {
		src, err := utils.ReadSource(opts.dialectPath)
		if err != nil {
			return err
		}
		if dialect, err = compiler.LoadDialect([]byte(src.Text)); err != nil {
			return err
		}
	}

	var sources []utils.Source
	if len(paths) == 0 {
		sources = append(sources, utils.Source{Path: "<demo>", Text: testSource})
	}
	for _, path := range paths {
		src, err := utils.ReadSource(path)
		if err != nil {
			return err
		}
		sources = append(sources, src)
	}

	reports := make([]bytes.Buffer, len(sources))
	g, _ := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			log := logger.With().Str("source", src.Path).Logger()
			res, err := compiler.Compile(src.Text,
				compiler.WithDialect(dialect),
				compiler.WithLogger(log),
				compiler.WithLowering(opts.showAsm),
			)
			if err != nil {
				return fmt.Errorf("%s: %w", src.Path, err)
			}
			log.Info().Int("instructions", len(res.Instructions)).Msg("compiled")
			return writeReport(&reports[i], src, res, opts)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range reports {
		if _, err := reports[i].WriteTo(out); err != nil {
			return err
		}
	}
	return nil
}

func writeReport(w io.Writer, src utils.Source, res *compiler.Result, opts options) error {
	if opts.jsonOut {
		return res.EncodeJSON(w, opts.showTokens)
	}

	fmt.Fprintf(w, "== %s\n", src.Path)
	if opts.showTokens {
		fmt.Fprintf(w, "Tokens (%d)\n", len(res.Tokens))
		for _, tok := range res.Tokens {
			fmt.Fprintln(w, " ", tok)
		}
	}
	if err := res.WriteText(w); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}
