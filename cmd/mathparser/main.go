package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/zephyrtronium/mathparser"
)

// ErrInputFailed is returned by commands when some inputs could not be
// parsed or evaluated. The individual failures are already reported.
var ErrInputFailed = errors.New("some inputs failed")

// Context represents the global context for commands
type Context struct {
	Defs      string
	Verbose   bool
	MaxDepth  int
	MaxLength int

	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// ParseOptions returns the parser limits configured on the command line.
func (ctx *Context) ParseOptions() mathparser.ParseOption {
	return mathparser.ParsingPreset(mathparser.MaxDepth(ctx.MaxDepth), mathparser.MaxLength(ctx.MaxLength))
}

// CLI represents the command-line interface
var CLI struct {
	Defs      string `help:"YAML file of function and variable definitions" type:"path" env:"MATHPARSER_DEFS"`
	Verbose   bool   `help:"Enable debug logging" short:"v" env:"MATHPARSER_VERBOSE"`
	MaxDepth  int    `help:"Maximum nesting of brackets, calls, and conditionals; 0 for no limit" default:"64" env:"MATHPARSER_MAX_DEPTH"`
	MaxLength int    `help:"Maximum input length in bytes; 0 for no limit" default:"4096" env:"MATHPARSER_MAX_LENGTH"`

	Eval  EvalCmd  `cmd:"" default:"withargs" help:"Evaluate expressions, comparisons, and definitions"`
	Check CheckCmd `cmd:"" help:"Check that formulas are valid function definitions"`
	Repl  ReplCmd  `cmd:"" help:"Start an interactive session"`
}

func main() {
	// Environment files are loaded first so that they can provide flags.
	if err := loadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	ctx := kong.Parse(&CLI,
		kong.Name("mathparser"),
		kong.Description("Evaluate formulas over exact rational numbers."),
		kong.UsageOnError(),
	)
	setupLogging(os.Stderr, CLI.Verbose)

	appCtx := &Context{
		Defs:      CLI.Defs,
		Verbose:   CLI.Verbose,
		MaxDepth:  CLI.MaxDepth,
		MaxLength: CLI.MaxLength,
		In:        os.Stdin,
		Out:       os.Stdout,
		Err:       os.Stderr,
	}
	if err := ctx.Run(appCtx); err != nil {
		if !errors.Is(err, ErrInputFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// loadEnvFiles loads .env if it exists.
func loadEnvFiles() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

func setupLogging(w io.Writer, verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	cw := zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor}
	log.Logger = zerolog.New(cw).Level(level).With().Timestamp().Logger()
}
