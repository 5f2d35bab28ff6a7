package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/zephyrtronium/mathparser"
)

// EvalCmd represents the eval command
type EvalCmd struct {
	Exprs    []string `arg:"" optional:"" help:"Lines to run; read from --in if none are given"`
	In       string   `short:"i" help:"Input file with one line per input, - for stdin" default:"-"`
	Def      []string `short:"d" help:"Function definition like 'f(x) = x*x' (any number of times)"`
	Given    []string `short:"g" help:"name=expression variable definition (any number of times)"`
	MaxCalls int      `help:"Maximum function applications per line; overrides the definitions file" env:"MATHPARSER_MAX_CALLS"`
	Decimals int      `help:"Decimal places to show alongside fractions; overrides the definitions file"`
	Echo     bool     `help:"Print parse trees"`
	Trace    bool     `help:"Print each function application"`
}

// Run executes the eval command
func (cmd *EvalCmd) Run(ctx *Context) error {
	config, err := LoadConfig(ctx.Defs)
	if err != nil {
		return err
	}
	if cmd.MaxCalls > 0 {
		config.MaxCalls = cmd.MaxCalls
	}
	if cmd.Decimals > 0 {
		config.Decimals = cmd.Decimals
	}
	s, err := newSession(ctx, config, cmd.Def, cmd.Given)
	if err != nil {
		return err
	}
	s.echo = cmd.Echo
	if cmd.Trace {
		s.trace = ctx.Out
	}

	lines := cmd.Exprs
	if len(lines) == 0 {
		lines, err = readLines(ctx, cmd.In)
		if err != nil {
			return err
		}
	}
	failed := 0
	for _, line := range lines {
		out, err := s.exec(line)
		if err != nil {
			renderError(ctx.Err, line, err)
			failed++
			continue
		}
		fmt.Fprintln(ctx.Out, out)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d: %w", failed, len(lines), ErrInputFailed)
	}
	return nil
}

// CheckCmd represents the check command
type CheckCmd struct {
	Formulas []string `arg:"" optional:"" help:"Formulas to check; read from --in if none are given"`
	In       string   `short:"i" help:"Input file with one formula per line, - for stdin" default:"-"`
}

// Run executes the check command
func (cmd *CheckCmd) Run(ctx *Context) error {
	lines := cmd.Formulas
	if len(lines) == 0 {
		var err error
		lines, err = readLines(ctx, cmd.In)
		if err != nil {
			return err
		}
	}
	ok := color.New(color.FgGreen)
	warn := color.New(color.FgYellow)
	failed := 0
	for _, line := range lines {
		f, err := mathparser.ParseFormula(line, ctx.ParseOptions())
		if err != nil {
			renderError(ctx.Err, line, err)
			failed++
			continue
		}
		ok.Fprint(ctx.Out, "ok")
		fmt.Fprintf(ctx.Out, " %s = %s\n", f.Declaration(), f.Definition())
		for _, name := range f.Func.Free() {
			warn.Fprintf(ctx.Out, "warning: %s refers to %s, which is not a parameter\n", f.Declaration(), name)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d: %w", failed, len(lines), ErrInputFailed)
	}
	return nil
}

// readLines reads the non-blank lines of a file or of ctx.In if name is "-".
// Lines starting with # are comments.
func readLines(ctx *Context, name string) ([]string, error) {
	var r io.Reader = ctx.In
	if name != "-" && name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if t := strings.TrimSpace(line); t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return lines, nil
}
