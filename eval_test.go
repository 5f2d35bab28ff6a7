package mathparser_test

import (
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/mathparser"
)

func rat(t testing.TB, s string) *big.Rat {
	t.Helper()
	r, ok := new(big.Rat).SetString(s)
	require.True(t, ok, "bad rational %q", s)
	return r
}

func define(t testing.TB, src string) *mathparser.FuncDef {
	t.Helper()
	cmd, err := mathparser.ParseCommand(src)
	require.NoError(t, err)
	f, err := mathparser.DefineFunc(cmd)
	require.NoError(t, err)
	return f
}

// recorder is a CallHook that records each application as "name(a, b)".
type recorder struct {
	calls []string
}

func (r *recorder) hook(name string, args []*big.Rat) error {
	s := make([]string, len(args))
	for i, a := range args {
		s[i] = a.RatString()
	}
	r.calls = append(r.calls, name+"("+strings.Join(s, ", ")+")")
	return nil
}

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		vars map[string]string
		want string
	}{
		{"num", "1", nil, "1"},
		{"add", "2 + 2", nil, "4"},
		{"add-neg", "2 + -3", nil, "-1"},
		{"sub", "1 - 2 - 3", nil, "-4"},
		{"mul", "2 * 3 + 4", nil, "10"},
		{"div", "8 / 4 / 2", nil, "1"},
		{"thirds", "1/3 + 1/3", nil, "2/3"},
		{"big", "99999999999999999999 * 99999999999999999999", nil, "9999999999999999999800000000000000000001"},
		{"mod", "7 % 3", nil, "1"},
		{"mod-neg-lhs", "-7 % 3", nil, "-1"},
		{"mod-neg-rhs", "7 % -3", nil, "1"},
		{"mod-frac", "7/2 % 1", nil, "1/2"},
		{"mod-neg-frac", "-7/2 % 2", nil, "-3/2"},
		{"neg", "-x", map[string]string{"x": "-5"}, "5"},
		{"vars", "x * y", map[string]string{"x": "3/2", "y": "4"}, "6"},
		{"lazy-if", "if 0 = 1 then 3 / 0 else 7", nil, "7"},
		{"lazy-else", "if 0 = 0 then 7 else 3 / 0", nil, "7"},
		{"exact-eq", "if 2/3 = 4/6 then 1 else 0", nil, "1"},
		{"lt", "if 3 < 2 then 1 else 0", nil, "0"},
		{"le", "if 1 <= 1 then 1 else 0", nil, "1"},
		{"gt", "if 2 > 1 then 5 else 6", nil, "5"},
		{"ge", "if 1 >= 2 then 1 else 0", nil, "0"},
		{"if-paren", "2 + (if 1 = 1 then 1 else 0)", nil, "3"},
		{"if-nested", "if x < 0 then -1 else if x = 0 then 0 else 1", map[string]string{"x": "1/100"}, "1"},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			ctx := mathparser.NewContext()
			for k, v := range c.vars {
				ctx.Set(k, rat(t, v))
			}
			r, err := mathparser.Eval(ctx, c.src, nil)
			require.NoError(t, err)
			assert.Equal(t, c.want, r.RatString())
		})
	}
}

func TestEvalErrors(t *testing.T) {
	sq := define(t, "f(x) = x * x")
	cases := []struct {
		name string
		src  string
		ctx  *mathparser.Context
		err  any
		loc  mathparser.Location
	}{
		{"unknown-var", "3 * x", mathparser.NewContext(), &mathparser.UnknownVariableError{}, mathparser.Location{Start: 4, End: 5}},
		{"unknown-func", "1 + foo(2)", mathparser.NewContext(), &mathparser.UnknownFunctionError{}, mathparser.Location{Start: 4, End: 7}},
		{"unknown-func-first", "foo(1 / 0)", mathparser.NewContext(), &mathparser.UnknownFunctionError{}, mathparser.Location{Start: 0, End: 3}},
		{"not-var", "f + 1", mathparser.NewContext(mathparser.SetFunc(sq)), &mathparser.NotAVariableError{}, mathparser.Location{Start: 0, End: 1}},
		{"not-func", "x(2)", mathparser.NewContext(mathparser.SetVar("x", big.NewRat(1, 1))), &mathparser.NotAFunctionError{}, mathparser.Location{Start: 0, End: 1}},
		{"div-zero", "2 / 0", mathparser.NewContext(), &mathparser.DivisionByZeroError{}, mathparser.Location{Start: 4, End: 5}},
		{"mod-zero", "1 % (2 - 2)", mathparser.NewContext(), &mathparser.DivisionByZeroError{}, mathparser.Location{Start: 4, End: 11}},
		{"arity", "f(2, f(7))", mathparser.NewContext(mathparser.SetFunc(sq)), &mathparser.ArityError{}, mathparser.Location{Start: 1, End: 10}},
		{"arity-none", "f()", mathparser.NewContext(mathparser.SetFunc(sq)), &mathparser.ArityError{}, mathparser.Location{Start: 1, End: 3}},
		{"cond-error", "if x = 1 then 1 else 2", mathparser.NewContext(), &mathparser.UnknownVariableError{}, mathparser.Location{Start: 3, End: 4}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			r, err := mathparser.Eval(c.ctx, c.src, nil)
			require.Error(t, err, "got result %v", r)
			assert.Nil(t, r)
			assert.IsType(t, c.err, err)
			var ie mathparser.InputError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, c.loc, ie.Loc())
		})
	}
}

func TestEvalScope(t *testing.T) {
	t.Run("no-capture", func(t *testing.T) {
		ctx := mathparser.NewContext(mathparser.SetFunc(define(t, "f(x) = x * x")))
		ctx.Set("x", big.NewRat(7, 1))
		r, err := mathparser.Eval(ctx, "f(3) + x", nil)
		require.NoError(t, err)
		assert.Equal(t, "16", r.RatString())
	})
	t.Run("free-var", func(t *testing.T) {
		ctx := mathparser.NewContext(mathparser.SetFunc(define(t, "g(y) = y + x")))
		ctx.Set("x", big.NewRat(7, 1))
		_, err := mathparser.Eval(ctx, "1 + g(1)", nil)
		var fe *mathparser.FunctionError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "g", fe.Name.Val)
		assert.Equal(t, mathparser.Location{Start: 4, End: 5}, fe.Loc())
		var ue *mathparser.UnknownVariableError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "x", ue.Name.Val)
	})
	t.Run("no-globals-in-body", func(t *testing.T) {
		f := define(t, "f(x) = x + 1")
		g := define(t, "g(x) = f(x)")
		ctx := mathparser.NewContext(mathparser.SetFunc(f), mathparser.SetFunc(g))
		_, err := mathparser.Eval(ctx, "g(1)", nil)
		var ue *mathparser.UnknownFunctionError
		require.ErrorAs(t, err, &ue)
		assert.Equal(t, "f", ue.Name.Val)
	})
	t.Run("shadow", func(t *testing.T) {
		ctx := mathparser.NewContext(mathparser.SetFunc(define(t, "f(x, y) = x - y")))
		ctx.Set("x", big.NewRat(100, 1)).Set("y", big.NewRat(1000, 1))
		r, err := mathparser.Eval(ctx, "f(y, x)", nil)
		require.NoError(t, err)
		assert.Equal(t, "900", r.RatString())
	})
}

func TestEvalHook(t *testing.T) {
	inc := define(t, "f(x) = x + 1")
	t.Run("order", func(t *testing.T) {
		var rec recorder
		ctx := mathparser.NewContext(mathparser.SetFunc(inc))
		r, err := mathparser.Eval(ctx, "f(f(2)) + f(1/2)", rec.hook)
		require.NoError(t, err)
		assert.Equal(t, "11/2", r.RatString())
		assert.Equal(t, []string{"f(2)", "f(3)", "f(1/2)"}, rec.calls)
	})
	t.Run("untaken-branch", func(t *testing.T) {
		var rec recorder
		ctx := mathparser.NewContext(mathparser.SetFunc(inc))
		_, err := mathparser.Eval(ctx, "if f(0) = 1 then f(10) else f(20)", rec.hook)
		require.NoError(t, err)
		assert.Equal(t, []string{"f(0)", "f(10)"}, rec.calls)
	})
	t.Run("arity-before-args", func(t *testing.T) {
		var rec recorder
		ctx := mathparser.NewContext(mathparser.SetFunc(define(t, "f(x) = x * x")))
		_, err := mathparser.Eval(ctx, "f(2, f(7))", rec.hook)
		var ae *mathparser.ArityError
		require.ErrorAs(t, err, &ae)
		assert.Equal(t, 1, ae.Expected)
		assert.Equal(t, 2, ae.Actual)
		assert.Equal(t, mathparser.Location{Start: 0, End: 1}, ae.Function.Location)
		assert.Empty(t, rec.calls)
	})
	t.Run("arg-error", func(t *testing.T) {
		var rec recorder
		ctx := mathparser.NewContext(mathparser.SetFunc(inc))
		_, err := mathparser.Eval(ctx, "f(1 / 0)", rec.hook)
		assert.IsType(t, &mathparser.DivisionByZeroError{}, err)
		assert.Empty(t, rec.calls)
	})
	t.Run("abort", func(t *testing.T) {
		stop := errors.New("stop")
		ctx := mathparser.NewContext(mathparser.SetFunc(define(t, "f(x) = x / 0")))
		_, err := mathparser.Eval(ctx, "2 * f(1)", func(string, []*big.Rat) error { return stop })
		var he *mathparser.HookError
		require.ErrorAs(t, err, &he)
		assert.ErrorIs(t, err, stop)
		assert.Equal(t, mathparser.Location{Start: 4, End: 5}, he.Loc())
		// The body is never evaluated.
		var fe *mathparser.FunctionError
		assert.False(t, errors.As(err, &fe))
	})
	t.Run("body-calls-hook", func(t *testing.T) {
		var rec recorder
		_, err := inc.Apply(rec.hook, big.NewRat(1, 1))
		require.NoError(t, err)
		assert.Empty(t, rec.calls)
	})
}

func TestEvalPred(t *testing.T) {
	cases := []struct {
		src  string
		want bool
	}{
		{"x < 2", true},
		{"x > 2", false},
		{"x = 1/2", true},
		{"x * 2 = 1", true},
		{"x <= 1/2", true},
		{"x >= 1", false},
	}
	ctx := mathparser.NewContext(mathparser.SetVar("x", big.NewRat(1, 2)))
	for _, c := range cases {
		p, err := mathparser.ParsePred(c.src)
		require.NoError(t, err, c.src)
		got, err := p.Evaluate(ctx, nil)
		require.NoError(t, err, c.src)
		assert.Equal(t, c.want, got, c.src)
	}
}

func TestEvalResultsOwned(t *testing.T) {
	ctx := mathparser.NewContext(mathparser.SetVar("x", big.NewRat(3, 1)))
	e, err := mathparser.ParseExpr("x")
	require.NoError(t, err)
	r, err := e.Evaluate(ctx, nil)
	require.NoError(t, err)
	r.SetInt64(100)
	v, ok := ctx.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "3", v.Num.RatString())

	// Negating a variable must not negate the variable.
	e, err = mathparser.ParseExpr("-x + x")
	require.NoError(t, err)
	r, err = e.Evaluate(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "0", r.RatString())
}

func TestEvalString(t *testing.T) {
	r, err := mathparser.EvalString("x + 1", mathparser.SetVar("x", big.NewRat(1, 2)))
	require.NoError(t, err)
	assert.Equal(t, "3/2", r.RatString())

	_, err = mathparser.EvalString("x +")
	assert.IsType(t, &mathparser.UnexpectedEOFError{}, err)

	_, err = mathparser.Eval(mathparser.NewContext(), "((1))", nil, mathparser.MaxDepth(1))
	assert.IsType(t, &mathparser.DepthError{}, err)
}

func TestContext(t *testing.T) {
	x := big.NewRat(1, 1)
	ctx := mathparser.NewContext(mathparser.SetVar("x", x), nil)
	x.SetInt64(2)
	v, ok := ctx.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, "1", v.Num.RatString(), "Set must copy its value")
	v.Num.SetInt64(3)
	v, _ = ctx.Lookup("x")
	assert.Equal(t, "1", v.Num.RatString(), "Lookup must return a copy")

	_, ok = ctx.Lookup("y")
	assert.False(t, ok)

	f := define(t, "f(a) = a")
	c2 := ctx.Clone(mathparser.SetFunc(f), mathparser.SetVars(map[string]*big.Rat{"y": big.NewRat(5, 1)}))
	assert.Equal(t, []string{"x"}, ctx.Names())
	assert.Equal(t, []string{"f", "x", "y"}, c2.Names())
	v, ok = c2.Lookup("f")
	require.True(t, ok)
	assert.Same(t, f, v.Func)
	assert.Nil(t, v.Num)

	// Binding a name replaces it regardless of kind.
	c2.Set("f", big.NewRat(0, 1))
	_, err := c2.Function(mathparser.At("f", 0, 1))
	assert.IsType(t, &mathparser.NotAFunctionError{}, err)
	c2.Define(f)
	_, err = c2.Variable(mathparser.At("f", 0, 1))
	assert.IsType(t, &mathparser.NotAVariableError{}, err)

	var zero mathparser.Context
	zero.Set("z", big.NewRat(1, 3))
	assert.Equal(t, []string{"z"}, zero.Names())
}

func TestRoundTrip(t *testing.T) {
	cases := []struct {
		def  string
		args []string
	}{
		{"f(x) = x * x", []string{"3"}},
		{"f(x) = x * x", []string{"-2/3"}},
		{"add(a, b) = a + b", []string{"1/2", "1/3"}},
		{"k() = 42", nil},
		{"abs(x) = if x < 0 then -x else x", []string{"-7/5"}},
		{"g(a, b, c) = (a - b) % c + a / c", []string{"10", "3", "4"}},
	}
	for _, c := range cases {
		c := c
		t.Run(c.def, func(t *testing.T) {
			f := define(t, c.def)
			args := make([]*big.Rat, len(c.args))
			ctx := mathparser.NewContext()
			for i, a := range c.args {
				args[i] = rat(t, a)
				ctx.Set(f.Params[i].Val, args[i])
			}
			direct, err := f.Body.Evaluate(ctx, nil)
			require.NoError(t, err)
			applied, err := f.Apply(nil, args...)
			require.NoError(t, err)
			assert.Equal(t, direct.RatString(), applied.RatString())

			// Calling through the evaluator gives the same result.
			call := f.Name.Val + "(" + strings.Join(c.args, ", ") + ")"
			called, err := mathparser.Eval(mathparser.NewContext(mathparser.SetFunc(f)), call, nil)
			require.NoError(t, err)
			assert.Equal(t, direct.RatString(), called.RatString())
		})
	}
}

func TestApplyArity(t *testing.T) {
	f := define(t, "f(x, y) = x")
	_, err := f.Apply(nil, big.NewRat(1, 1))
	var ae *mathparser.ArityError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 2, ae.Expected)
	assert.Equal(t, 1, ae.Actual)
}

func BenchmarkEval(b *testing.B) {
	b.Run("nums", func(b *testing.B) {
		b.ReportAllocs()
		ctx := mathparser.NewContext()
		a, err := mathparser.ParseExpr("2+3+4")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			a.Evaluate(ctx, nil)
		}
	})
	b.Run("call", func(b *testing.B) {
		b.ReportAllocs()
		ctx := mathparser.NewContext(mathparser.SetFunc(define(b, "f(x, y) = x*x + y*y")))
		a, err := mathparser.ParseExpr("f(3, 4) / f(1, 2)")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			a.Evaluate(ctx, nil)
		}
	})
}
