package mathparser

import (
	"math/big"
	"sort"
	"strconv"
	"strings"
)

// Expr is a node in the abstract syntax tree of an expression. The concrete
// types are *Call, *Ident, *If, *Binary, *Neg, and *Num.
type Expr interface {
	// Evaluate computes the value of the expression using the symbols in ctx.
	// If hook is not nil, it is called once for each function application,
	// after the arguments are evaluated and before the function body.
	Evaluate(ctx *Context, hook CallHook) (*big.Rat, error)
	// String formats the expression with every compound term parenthesized.
	// The result parses to the same tree, with different locations.
	String() string

	fmt(b *strings.Builder)
}

// Call is a function application.
type Call struct {
	Name Span[string]
	// Args spans the bracketed argument list, including the brackets.
	Args Span[[]Span[Expr]]
}

// Ident is a variable reference.
type Ident struct {
	Name Span[string]
}

// If is a conditional expression. Only the branch selected by Cond is ever
// evaluated.
type If struct {
	Cond Span[*Pred]
	Then Span[Expr]
	Else Span[Expr]
}

// Binary is an arithmetic operation on two operands.
type Binary struct {
	Left  Span[Expr]
	Op    Span[BinOp]
	Right Span[Expr]
}

// Neg is a unary negation.
type Neg struct {
	X Span[Expr]
}

// Num is a non-negative integer literal. Negative numbers are written with
// Neg.
type Num struct {
	Value Span[*big.Int]
}

// Pred is a comparison of two expressions. Predicates do not nest.
type Pred struct {
	Left  Span[Expr]
	Op    Span[Cmp]
	Right Span[Expr]
}

// Command is a single line of input. Exactly one of Pred and Expr is set.
type Command struct {
	Pred *Pred
	Expr Expr
}

// BinOp is a binary arithmetic operator.
type BinOp int8

const (
	OpNone BinOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
)

func (op BinOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	default:
		return "BinOp(" + strconv.Itoa(int(op)) + ")"
	}
}

// Cmp is a comparison operator.
type Cmp int8

const (
	CmpNone Cmp = iota
	CmpEq
	CmpLt
	CmpLe
	CmpGt
	CmpGe
)

func (c Cmp) String() string {
	switch c {
	case CmpEq:
		return "="
	case CmpLt:
		return "<"
	case CmpLe:
		return "<="
	case CmpGt:
		return ">"
	case CmpGe:
		return ">="
	default:
		return "Cmp(" + strconv.Itoa(int(c)) + ")"
	}
}

func (c *Call) String() string   { return exprString(c) }
func (n *Ident) String() string  { return exprString(n) }
func (n *If) String() string     { return exprString(n) }
func (n *Binary) String() string { return exprString(n) }
func (n *Neg) String() string    { return exprString(n) }
func (n *Num) String() string    { return exprString(n) }

func exprString(e Expr) string {
	var b strings.Builder
	e.fmt(&b)
	return b.String()
}

func (c *Call) fmt(b *strings.Builder) {
	b.WriteString(c.Name.Val)
	b.WriteByte('(')
	for i, arg := range c.Args.Val {
		if i > 0 {
			b.WriteString(", ")
		}
		arg.Val.fmt(b)
	}
	b.WriteByte(')')
}

func (n *Ident) fmt(b *strings.Builder) {
	b.WriteString(n.Name.Val)
}

func (n *If) fmt(b *strings.Builder) {
	b.WriteString("(if ")
	n.Cond.Val.fmt(b)
	b.WriteString(" then ")
	n.Then.Val.fmt(b)
	b.WriteString(" else ")
	n.Else.Val.fmt(b)
	b.WriteByte(')')
}

func (n *Binary) fmt(b *strings.Builder) {
	b.WriteByte('(')
	n.Left.Val.fmt(b)
	b.WriteByte(' ')
	b.WriteString(n.Op.Val.String())
	b.WriteByte(' ')
	n.Right.Val.fmt(b)
	b.WriteByte(')')
}

func (n *Neg) fmt(b *strings.Builder) {
	b.WriteString("(-")
	n.X.Val.fmt(b)
	b.WriteByte(')')
}

func (n *Num) fmt(b *strings.Builder) {
	b.WriteString(n.Value.Val.String())
}

func (p *Pred) String() string {
	var b strings.Builder
	p.fmt(&b)
	return b.String()
}

func (p *Pred) fmt(b *strings.Builder) {
	p.Left.Val.fmt(b)
	b.WriteByte(' ')
	b.WriteString(p.Op.Val.String())
	b.WriteByte(' ')
	p.Right.Val.fmt(b)
}

func (c Command) String() string {
	if c.Pred != nil {
		return c.Pred.String()
	}
	if c.Expr == nil {
		return ""
	}
	return c.Expr.String()
}

// Vars returns the sorted names of the variables to which e refers, without
// duplicates. Function names are not included.
func Vars(e Expr) []string {
	seen := make(map[string]bool)
	vars(e, seen)
	if len(seen) == 0 {
		return nil
	}
	r := make([]string, 0, len(seen))
	for k := range seen {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

func vars(e Expr, seen map[string]bool) {
	switch e := e.(type) {
	case *Call:
		for _, arg := range e.Args.Val {
			vars(arg.Val, seen)
		}
	case *Ident:
		seen[e.Name.Val] = true
	case *If:
		vars(e.Cond.Val.Left.Val, seen)
		vars(e.Cond.Val.Right.Val, seen)
		vars(e.Then.Val, seen)
		vars(e.Else.Val, seen)
	case *Binary:
		vars(e.Left.Val, seen)
		vars(e.Right.Val, seen)
	case *Neg:
		vars(e.X.Val, seen)
	}
}
