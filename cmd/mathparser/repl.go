package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"
)

// ReplCmd represents the repl command
type ReplCmd struct {
	History  string   `help:"File to keep input history in" type:"path" env:"MATHPARSER_HISTORY"`
	Def      []string `short:"d" help:"Function definition like 'f(x) = x*x' (any number of times)"`
	Given    []string `short:"g" help:"name=expression variable definition (any number of times)"`
	MaxCalls int      `help:"Maximum function applications per line; overrides the definitions file"`
	Decimals int      `help:"Decimal places to show alongside fractions; overrides the definitions file"`
	Trace    bool     `help:"Print each function application"`
}

const replHelp = `Enter an expression to evaluate it, a comparison to test it, or an
equation like "f(x) = x*x" to define a function.
  :vars   list defined names
  :help   show this message
  :quit   leave`

// prompter reads lines from a user.
type prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// Run executes the repl command
func (cmd *ReplCmd) Run(ctx *Context) error {
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
	if cmd.Trace {
		s.trace = ctx.Out
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	if cmd.History != "" {
		if f, err := os.Open(cmd.History); err == nil {
			if _, err := line.ReadHistory(f); err != nil {
				log.Warn().Err(err).Str("path", cmd.History).Msg("couldn't read history")
			}
			f.Close()
		}
		defer saveHistory(line, cmd.History)
	}
	return repl(line, s, ctx.Out, ctx.Err)
}

// repl runs lines from p until the user quits or input ends.
func repl(p prompter, s *session, out, errw io.Writer) error {
	fmt.Fprintln(out, `Type ":help" for help.`)
	for {
		text, err := p.Prompt("> ")
		switch {
		case errors.Is(err, io.EOF), errors.Is(err, liner.ErrPromptAborted):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		p.AppendHistory(text)
		switch text {
		case ":quit", ":q":
			return nil
		case ":help", ":h":
			fmt.Fprintln(out, replHelp)
			continue
		case ":vars", ":v":
			fmt.Fprintln(out, strings.Join(s.ctx.Names(), " "))
			continue
		}
		if strings.HasPrefix(text, ":") {
			fmt.Fprintf(errw, "unknown command %s\n", text)
			continue
		}
		r, err := s.exec(text)
		if err != nil {
			renderError(errw, text, err)
			continue
		}
		fmt.Fprintln(out, r)
	}
}

func saveHistory(line *liner.State, path string) {
	f, err := os.Create(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("couldn't save history")
		return
	}
	defer f.Close()
	if _, err := line.WriteHistory(f); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("couldn't save history")
	}
}
