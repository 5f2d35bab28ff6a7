package mathparser

import (
	"math/big"
	"sort"
)

// CallHook observes function applications during evaluation. It receives the
// name of the function and its fully evaluated arguments, which it must not
// modify. It is called exactly once per application, after the arguments are
// evaluated and before the function body. If it returns an error, evaluation
// stops and the error is returned wrapped in a *HookError.
type CallHook func(name string, args []*big.Rat) error

// SymbolValue is the value bound to a name. Exactly one of Func and Num is
// set.
type SymbolValue struct {
	Func *FuncDef
	Num  *big.Rat
}

// Context is a symbol table for evaluating expressions. Evaluation only reads
// the context, so any number of evaluations may share one concurrently as
// long as nothing modifies it.
type Context struct {
	syms map[string]SymbolValue
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *big.Rat
	}
	varsopt map[string]*big.Rat
	funcopt struct {
		def *FuncDef
	}
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}
func (funcopt) ctxOption() {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val *big.Rat) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]*big.Rat) ContextOption {
	return varsopt(vars)
}

// SetFunc binds a function definition under its own name.
func SetFunc(def *FuncDef) ContextOption {
	return funcopt{def}
}

// NewContext creates a new evaluation context.
func NewContext(opts ...ContextOption) *Context {
	var ctx Context
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it. Function
// definitions are shared between the copies; they are immutable.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{syms: make(map[string]SymbolValue, len(ctx.syms))}
	for k, v := range ctx.syms {
		n.syms[k] = v
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.Set(opt.name, opt.val)
		case varsopt:
			for k, v := range opt {
				n.Set(k, v)
			}
		case funcopt:
			n.Define(opt.def)
		default:
			panic("mathparser: unknown option type")
		}
	}
	return &n
}

// Set binds a copy of value to name, replacing any variable or function of
// that name. Returns ctx for chaining.
func (ctx *Context) Set(name string, value *big.Rat) *Context {
	if ctx.syms == nil {
		ctx.syms = make(map[string]SymbolValue)
	}
	ctx.syms[name] = SymbolValue{Num: new(big.Rat).Set(value)}
	return ctx
}

// Define binds def under its name, replacing any variable or function of that
// name. Returns ctx for chaining.
func (ctx *Context) Define(def *FuncDef) *Context {
	if ctx.syms == nil {
		ctx.syms = make(map[string]SymbolValue)
	}
	ctx.syms[def.Name.Val] = SymbolValue{Func: def}
	return ctx
}

// Lookup returns the value bound to name. The Num of the result is a copy.
func (ctx *Context) Lookup(name string) (SymbolValue, bool) {
	v, ok := ctx.syms[name]
	if ok && v.Num != nil {
		v.Num = new(big.Rat).Set(v.Num)
	}
	return v, ok
}

// Names returns the names bound in the context in sorted order.
func (ctx *Context) Names() []string {
	names := make([]string, 0, len(ctx.syms))
	for k := range ctx.syms {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Variable gets the number bound to a name. The result must not be modified.
func (ctx *Context) Variable(name Span[string]) (*big.Rat, error) {
	v, ok := ctx.syms[name.Val]
	switch {
	case !ok:
		return nil, &UnknownVariableError{Name: name}
	case v.Num == nil:
		return nil, &NotAVariableError{Name: name}
	}
	return v.Num, nil
}

// Function gets the function bound to a name.
func (ctx *Context) Function(name Span[string]) (*FuncDef, error) {
	v, ok := ctx.syms[name.Val]
	switch {
	case !ok:
		return nil, &UnknownFunctionError{Name: name}
	case v.Func == nil:
		return nil, &NotAFunctionError{Name: name}
	}
	return v.Func, nil
}

// Every Evaluate method returns a newly allocated value which the caller owns.

func (c *Call) Evaluate(ctx *Context, hook CallHook) (*big.Rat, error) {
	f, err := ctx.Function(c.Name)
	if err != nil {
		return nil, err
	}
	// The argument count is known without evaluating anything, so check it
	// before doing any work on the arguments.
	if len(f.Params) != len(c.Args.Val) {
		return nil, &ArityError{
			Function: c.Name,
			Args:     c.Args.Location,
			Expected: len(f.Params),
			Actual:   len(c.Args.Val),
		}
	}
	invoc := make([]*big.Rat, len(c.Args.Val))
	for i, arg := range c.Args.Val {
		v, err := arg.Val.Evaluate(ctx, hook)
		if err != nil {
			return nil, err
		}
		invoc[i] = v
	}
	if hook != nil {
		if err := hook(c.Name.Val, invoc); err != nil {
			return nil, &HookError{Name: c.Name, Err: err}
		}
	}
	r, err := f.call(invoc, hook)
	if err != nil {
		return nil, &FunctionError{Name: c.Name, Err: err}
	}
	return r, nil
}

func (n *Ident) Evaluate(ctx *Context, hook CallHook) (*big.Rat, error) {
	v, err := ctx.Variable(n.Name)
	if err != nil {
		return nil, err
	}
	return new(big.Rat).Set(v), nil
}

func (n *If) Evaluate(ctx *Context, hook CallHook) (*big.Rat, error) {
	ok, err := n.Cond.Val.Evaluate(ctx, hook)
	if err != nil {
		return nil, err
	}
	if ok {
		return n.Then.Val.Evaluate(ctx, hook)
	}
	return n.Else.Val.Evaluate(ctx, hook)
}

func (n *Binary) Evaluate(ctx *Context, hook CallHook) (*big.Rat, error) {
	l, err := n.Left.Val.Evaluate(ctx, hook)
	if err != nil {
		return nil, err
	}
	r, err := n.Right.Val.Evaluate(ctx, hook)
	if err != nil {
		return nil, err
	}
	switch n.Op.Val {
	case OpAdd:
		return l.Add(l, r), nil
	case OpSub:
		return l.Sub(l, r), nil
	case OpMul:
		return l.Mul(l, r), nil
	case OpDiv, OpMod:
		if r.Sign() == 0 {
			return nil, &DivisionByZeroError{Op: n.Op, Divisor: n.Right.Location}
		}
		if n.Op.Val == OpDiv {
			return l.Quo(l, r), nil
		}
		return rem(l, r), nil
	default:
		panic("mathparser: invalid operator " + n.Op.Val.String())
	}
}

// rem sets a to the remainder of a truncated division by b and returns it.
// The result has the sign of a. b must not be zero.
func rem(a, b *big.Rat) *big.Rat {
	q := new(big.Rat).Quo(a, b)
	t := new(big.Int).Quo(q.Num(), q.Denom())
	q.SetInt(t)
	q.Mul(q, b)
	return a.Sub(a, q)
}

func (n *Neg) Evaluate(ctx *Context, hook CallHook) (*big.Rat, error) {
	x, err := n.X.Val.Evaluate(ctx, hook)
	if err != nil {
		return nil, err
	}
	return x.Neg(x), nil
}

func (n *Num) Evaluate(ctx *Context, hook CallHook) (*big.Rat, error) {
	return new(big.Rat).SetInt(n.Value.Val), nil
}

// Evaluate decides the comparison using the symbols in ctx. Both sides are
// always evaluated, left first. Equality is exact.
func (p *Pred) Evaluate(ctx *Context, hook CallHook) (bool, error) {
	l, err := p.Left.Val.Evaluate(ctx, hook)
	if err != nil {
		return false, err
	}
	r, err := p.Right.Val.Evaluate(ctx, hook)
	if err != nil {
		return false, err
	}
	c := l.Cmp(r)
	switch p.Op.Val {
	case CmpEq:
		return c == 0, nil
	case CmpLt:
		return c < 0, nil
	case CmpLe:
		return c <= 0, nil
	case CmpGt:
		return c > 0, nil
	case CmpGe:
		return c >= 0, nil
	default:
		panic("mathparser: invalid comparison " + p.Op.Val.String())
	}
}

// Eval is a shortcut to parse src as an expression and evaluate it in ctx.
func Eval(ctx *Context, src string, hook CallHook, opts ...ParseOption) (*big.Rat, error) {
	e, err := ParseExpr(src, opts...)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, hook)
}

// EvalString is a shortcut to parse and evaluate an expression in a new
// context created with opts.
func EvalString(src string, opts ...ContextOption) (*big.Rat, error) {
	return Eval(NewContext(opts...), src, nil)
}
