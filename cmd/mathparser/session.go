package main

import (
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/zephyrtronium/mathparser"
)

// session runs lines of input against a context which accumulates function
// definitions.
type session struct {
	ctx      *mathparser.Context
	opt      mathparser.ParseOption
	maxCalls int
	decimals int
	echo     bool
	// trace, if not nil, receives each function application.
	trace io.Writer
}

func newSession(ctx *Context, config *Config, defs, given []string) (*session, error) {
	g, err := parseGiven(given)
	if err != nil {
		return nil, err
	}
	opt := ctx.ParseOptions()
	c, err := config.Build(opt, defs, g)
	if err != nil {
		return nil, err
	}
	s := session{
		ctx:      c,
		opt:      opt,
		maxCalls: config.MaxCalls,
		decimals: config.Decimals,
	}
	return &s, nil
}

// exec runs one line. An equation that defines a function binds it for later
// lines. Any other comparison is evaluated to true or false, and expressions
// are evaluated to numbers.
func (s *session) exec(line string) (string, error) {
	cmd, err := mathparser.ParseCommand(line, s.opt)
	if err != nil {
		return "", err
	}
	out, err := s.run(line, cmd)
	if err != nil {
		return "", err
	}
	if s.echo {
		return cmd.String() + " : " + out, nil
	}
	return out, nil
}

func (s *session) run(line string, cmd mathparser.Command) (string, error) {
	budget := mathparser.Budget{MaxCalls: s.maxCalls, Next: s.traceHook()}
	if cmd.Pred == nil {
		r, err := cmd.Expr.Evaluate(s.ctx, budget.Hook)
		if err != nil {
			return "", err
		}
		log.Debug().Str("expr", line).Int("calls", budget.Calls()).Msg("evaluated")
		return formatRat(r, s.decimals), nil
	}
	if cmd.Pred.Op.Val == mathparser.CmpEq {
		if f, err := mathparser.DefineFunc(cmd); err == nil {
			decl := cmd.Pred.Left.Text(line)
			if free := f.Free(); len(free) > 0 {
				log.Warn().Str("function", decl).Strs("free", free).Msg("function refers to names that are not parameters")
			}
			s.ctx.Define(f)
			return "defined " + decl, nil
		}
	}
	ok, err := cmd.Pred.Evaluate(s.ctx, budget.Hook)
	if err != nil {
		return "", err
	}
	log.Debug().Str("pred", line).Int("calls", budget.Calls()).Msg("evaluated")
	return strconv.FormatBool(ok), nil
}

func (s *session) traceHook() mathparser.CallHook {
	if s.trace == nil {
		return nil
	}
	return func(name string, args []*big.Rat) error {
		_, err := fmt.Fprintln(s.trace, "call", formatCall(name, args))
		return err
	}
}
