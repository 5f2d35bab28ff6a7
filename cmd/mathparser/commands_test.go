package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func testContext(in string) (*Context, *strings.Builder, *strings.Builder) {
	var out, errw strings.Builder
	ctx := &Context{
		MaxDepth:  64,
		MaxLength: 4096,
		In:        strings.NewReader(in),
		Out:       &out,
		Err:       &errw,
	}
	return ctx, &out, &errw
}

func TestEvalCmdArgs(t *testing.T) {
	ctx, out, errw := testContext("")
	cmd := &EvalCmd{
		Exprs: []string{"sq(a) + 1", "h(x) = sq(x)", "a < 4"},
		In:    "-",
		Def:   []string{"sq(x) = x*x"},
		Given: []string{"a=3"},
	}
	assert.NoError(t, cmd.Run(ctx))
	assert.Equal(t, "10\ndefined h(x)\ntrue\n", out.String())
	assert.Equal(t, "", errw.String())
}

func TestEvalCmdInput(t *testing.T) {
	ctx, out, _ := testContext("# comment\n1/3\n\n  \r\n2 + 2\r\n")
	cmd := &EvalCmd{In: "-", Decimals: 3}
	assert.NoError(t, cmd.Run(ctx))
	assert.Equal(t, "1/3 ≈ 0.333\n4\n", out.String())
}

func TestEvalCmdFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "input.txt")
	assert.NoError(t, os.WriteFile(in, []byte("f(2)\nk\n"), 0o644))
	defs := filepath.Join(dir, "defs.yaml")
	assert.NoError(t, os.WriteFile(defs, []byte("functions:\n  - f(x) = x + 10\nvariables:\n  k: f(0) * 2\n"), 0o644))

	ctx, out, _ := testContext("")
	ctx.Defs = defs
	cmd := &EvalCmd{In: in}
	assert.NoError(t, cmd.Run(ctx))
	assert.Equal(t, "12\n20\n", out.String())
}

func TestEvalCmdFailures(t *testing.T) {
	ctx, out, errw := testContext("")
	cmd := &EvalCmd{Exprs: []string{"1 +", "2", "y"}, In: "-", Echo: true}
	err := cmd.Run(ctx)
	assert.True(t, errors.Is(err, ErrInputFailed))
	assert.Contains(t, err.Error(), "2 of 3")
	assert.Equal(t, "2 : 2\n", out.String())
	assert.Equal(t, "1 +\n   ^\nExpression ended unexpectedly\ny\n^\nNo such variable: `y`\n", errw.String())
}

func TestEvalCmdMaxCalls(t *testing.T) {
	ctx, _, errw := testContext("")
	cmd := &EvalCmd{
		Exprs:    []string{"f(f(1))"},
		In:       "-",
		Def:      []string{"f(x) = x"},
		MaxCalls: 1,
	}
	assert.True(t, errors.Is(cmd.Run(ctx), ErrInputFailed))
	assert.Contains(t, errw.String(), "Stopped evaluating at `f`")
}

func TestEvalCmdTrace(t *testing.T) {
	ctx, out, _ := testContext("")
	cmd := &EvalCmd{
		Exprs: []string{"f(3)"},
		In:    "-",
		Def:   []string{"f(x) = -x"},
		Trace: true,
	}
	assert.NoError(t, cmd.Run(ctx))
	assert.Equal(t, "call f(3)\n-3\n", out.String())
}

func TestEvalCmdLimits(t *testing.T) {
	ctx, _, errw := testContext("")
	ctx.MaxDepth = 2
	cmd := &EvalCmd{Exprs: []string{"(((1)))"}, In: "-"}
	assert.True(t, errors.Is(cmd.Run(ctx), ErrInputFailed))
	assert.Contains(t, errw.String(), "This is nested too deeply for me")
}

func TestEvalCmdBadSetup(t *testing.T) {
	ctx, _, _ := testContext("")
	cmd := &EvalCmd{Exprs: []string{"1"}, In: "-", Given: []string{"nope"}}
	err := cmd.Run(ctx)
	assert.True(t, errors.Is(err, ErrBadGiven))
	assert.False(t, errors.Is(err, ErrInputFailed))
}

func TestCheckCmd(t *testing.T) {
	ctx, out, errw := testContext("f(x) = x + 1\ng(x) = x * k\n1 + 1\nh(2) = 3\n")
	cmd := &CheckCmd{In: "-"}
	err := cmd.Run(ctx)
	assert.True(t, errors.Is(err, ErrInputFailed))
	assert.Contains(t, err.Error(), "2 of 4")
	assert.Equal(t, "ok f(x) = x + 1\nok g(x) = x * k\nwarning: g(x) refers to k, which is not a parameter\n", out.String())
	assert.Contains(t, errw.String(), "Expected an equation, got a sum instead")
	assert.Contains(t, errw.String(), "Expected an argument name")
}

func TestCheckCmdArgs(t *testing.T) {
	ctx, out, _ := testContext("")
	cmd := &CheckCmd{Formulas: []string{"area(w, h) = w * h"}}
	assert.NoError(t, cmd.Run(ctx))
	assert.Equal(t, "ok area(w, h) = w * h\n", out.String())
}
