package mathparser

import (
	"math/big"
	"strings"
)

// FuncDef is a named function of rationals defined by a single equation.
// A FuncDef is immutable once created and may be bound into any number of
// contexts.
type FuncDef struct {
	Name Span[string]
	// Params are the parameter names in order. They are distinct.
	Params []Span[string]
	// Body is the right side of the defining equation.
	Body Expr
}

// String formats the definition as an equation.
func (f *FuncDef) String() string {
	var b strings.Builder
	f.decl(&b)
	b.WriteString(" = ")
	f.Body.fmt(&b)
	return b.String()
}

func (f *FuncDef) decl(b *strings.Builder) {
	b.WriteString(f.Name.Val)
	b.WriteByte('(')
	for i, p := range f.Params {
		if i != 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Val)
	}
	b.WriteByte(')')
}

// Free returns the sorted names of variables in the body that are not
// parameters. A function with free variables fails whenever its body refers
// to one of them.
func (f *FuncDef) Free() []string {
	var r []string
	for _, v := range Vars(f.Body) {
		if !f.hasParam(v) {
			r = append(r, v)
		}
	}
	return r
}

func (f *FuncDef) hasParam(name string) bool {
	for _, p := range f.Params {
		if p.Val == name {
			return true
		}
	}
	return false
}

// Apply evaluates the function with the given arguments. The body sees only
// its parameters. hook is called for applications within the body, but not
// for this one.
func (f *FuncDef) Apply(hook CallHook, args ...*big.Rat) (*big.Rat, error) {
	if len(args) != len(f.Params) {
		return nil, &ArityError{Function: f.Name, Args: f.Name.Location, Expected: len(f.Params), Actual: len(args)}
	}
	invoc := make([]*big.Rat, len(args))
	for i, a := range args {
		invoc[i] = new(big.Rat).Set(a)
	}
	return f.call(invoc, hook)
}

// call evaluates the body with the parameters bound to invoc, which must have
// the right length.
func (f *FuncDef) call(invoc []*big.Rat, hook CallHook) (*big.Rat, error) {
	// Function bodies cannot refer to anything but their own parameters.
	// In particular, there are no globals and no recursion.
	ctx := Context{syms: make(map[string]SymbolValue, len(f.Params))}
	for i, p := range f.Params {
		ctx.syms[p.Val] = SymbolValue{Num: invoc[i]}
	}
	return f.Body.Evaluate(&ctx, hook)
}

// DefineFunc interprets a command as the definition of a function. The
// command must be an equation whose left side is an application of the
// function to distinct parameter names, like f(x, y) = x + y. Errors are
// *MathError.
func DefineFunc(cmd Command) (*FuncDef, error) {
	if cmd.Pred == nil {
		return nil, &MathError{Message: "Expected an equation, got " + Describe(cmd.Expr) + " instead"}
	}
	p := cmd.Pred
	if p.Op.Val != CmpEq {
		return nil, &MathError{Span: span(p.Op.Location), Message: "Expected an equation, got a comparison instead"}
	}
	call, ok := p.Left.Val.(*Call)
	if !ok {
		return nil, &MathError{
			Span:    span(p.Left.Location),
			Message: "Expected a function application on the left side of the equality, got " + Describe(p.Left.Val) + " instead",
		}
	}
	params := make([]Span[string], 0, len(call.Args.Val))
	seen := make(map[string]bool, len(call.Args.Val))
	for _, arg := range call.Args.Val {
		id, ok := arg.Val.(*Ident)
		if !ok {
			return nil, &MathError{
				Span:    span(arg.Location),
				Message: "Expected an argument name, got " + Describe(arg.Val) + " instead",
			}
		}
		if seen[id.Name.Val] {
			return nil, &MathError{
				Span:    span(id.Name.Location),
				Message: "Parameter `" + id.Name.Val + "` is declared more than once",
			}
		}
		seen[id.Name.Val] = true
		params = append(params, id.Name)
	}
	f := FuncDef{
		Name:   call.Name,
		Params: params,
		Body:   p.Right.Val,
	}
	return &f, nil
}

// Describe names the kind of an expression for messages, like "a sum" or
// "a function application".
func Describe(e Expr) string {
	switch e := e.(type) {
	case *Call:
		return "a function application"
	case *Ident:
		return "a variable name"
	case *If:
		return "a conditional expression"
	case *Binary:
		switch e.Op.Val {
		case OpAdd:
			return "a sum"
		case OpSub:
			return "a subtraction"
		case OpMul:
			return "a product"
		case OpDiv:
			return "a quotient"
		case OpMod:
			return "a remainder"
		}
		return "an operation"
	case *Neg:
		return "a negation"
	case *Num:
		return "a number"
	case nil:
		return "nothing"
	default:
		return "an expression"
	}
}
