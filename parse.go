package mathparser

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Command = Expr | Sum cmp Expr
// Pred    = Sum cmp Sum                    (condition of a conditional)
// Expr    = If | Sum
// If      = 'if' Pred 'then' Expr 'else' Expr
// Sum     = Sum ('+' | '-') Product | Product
// Product = Product ('*' | '/' | '%') Unary | Unary
// Unary   = '-' Unary | Primary
// Primary = num | name | name '(' [Expr {',' Expr}] ')' | '(' Expr ')'
//
// A conditional is never an operand: "2 + if c then 1 else 0" is an error,
// while "2 + (if c then 1 else 0)" is fine.

// ParseExpr parses a single expression, which may be a conditional.
func ParseExpr(src string, opts ...ParseOption) (e Expr, err error) {
	p, err := newParser(src, opts)
	if err != nil {
		return nil, err
	}
	defer p.recover(&err)
	x, err := p.parsetop()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return x.Val, nil
}

// ParseCommand parses a line that is either an expression or a comparison of
// two expressions. The left side of a comparison cannot be a conditional.
func ParseCommand(src string, opts ...ParseOption) (cmd Command, err error) {
	p, err := newParser(src, opts)
	if err != nil {
		return Command{}, err
	}
	defer p.recover(&err)
	first, err := p.next()
	if err != nil {
		return Command{}, err
	}
	p.scan.push(first)
	lhs, err := p.parsetop()
	if err != nil {
		return Command{}, err
	}
	tok := p.scan.must()
	if tok.kind != tokenCmp {
		p.scan.push(tok)
		if err := p.end(); err != nil {
			return Command{}, err
		}
		return Command{Expr: lhs.Val}, nil
	}
	if first.kind == tokenKeyword {
		// A bare conditional extends as far right as it can, so anything
		// after it is extra.
		return Command{}, &ExtraTokenError{Start: tok.pos, End: tok.end, Token: tok.text}
	}
	pred, err := p.predrest(lhs, tok, true)
	if err != nil {
		return Command{}, err
	}
	if err := p.end(); err != nil {
		return Command{}, err
	}
	return Command{Pred: pred.Val}, nil
}

// ParsePred parses a comparison of two expressions. The right side may be a
// conditional.
func ParsePred(src string, opts ...ParseOption) (pred *Pred, err error) {
	p, err := newParser(src, opts)
	if err != nil {
		return nil, err
	}
	defer p.recover(&err)
	x, err := p.parsepred(true)
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return x.Val, nil
}

type parser struct {
	scan  *lexer
	opts  parsectx
	depth int
}

func newParser(src string, opts []ParseOption) (*parser, error) {
	var p parsectx
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	if p.maxLen > 0 && len(src) > p.maxLen {
		return nil, &LengthError{Len: len(src), Max: p.maxLen}
	}
	return &parser{scan: lex(strings.NewReader(src)), opts: p}, nil
}

// recover converts a panic during parsing into an InternalError. Panics in the
// parser indicate bugs, not bad input.
func (p *parser) recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = &InternalError{Reason: fmt.Sprint(r)}
}

// next scans the next token. The parser always pushes EOF back when it sees
// it, so reading past it is a bug.
func (p *parser) next() (lexToken, error) {
	tok, err := p.scan.next()
	if err == io.EOF {
		panic("mathparser: read past end of input")
	}
	return tok, err
}

// end checks that the pushed token ends the input.
func (p *parser) end() error {
	tok := p.scan.must()
	if tok.kind != tokenEOF {
		return &ExtraTokenError{Start: tok.pos, End: tok.end, Token: tok.text}
	}
	return nil
}

// enter records one level of nesting starting at tok.
func (p *parser) enter(tok lexToken) error {
	p.depth++
	if p.opts.maxDepth > 0 && p.depth > p.opts.maxDepth {
		return &DepthError{Start: tok.pos, End: tok.end, Max: p.opts.maxDepth}
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// parsetop parses an expression that may be a conditional. Like parseterm, it
// pushes the last token it scans.
func (p *parser) parsetop() (Span[Expr], error) {
	tok, err := p.next()
	if err != nil {
		return Span[Expr]{}, err
	}
	if tok.kind == tokenKeyword && tok.text == "if" {
		return p.parseif(tok)
	}
	p.scan.push(tok)
	return p.parseterm(exprprec)
}

// parseif parses the rest of a conditional after its if keyword.
func (p *parser) parseif(kw lexToken) (Span[Expr], error) {
	if err := p.enter(kw); err != nil {
		return Span[Expr]{}, err
	}
	defer p.leave()
	cond, err := p.parsepred(false)
	if err != nil {
		return Span[Expr]{}, err
	}
	if tok := p.scan.must(); tok.kind != tokenKeyword || tok.text != "then" {
		return Span[Expr]{}, unexpected(tok, `"then"`)
	}
	then, err := p.parsetop()
	if err != nil {
		return Span[Expr]{}, err
	}
	if tok := p.scan.must(); tok.kind != tokenKeyword || tok.text != "else" {
		return Span[Expr]{}, unexpected(tok, `"else"`)
	}
	els, err := p.parsetop()
	if err != nil {
		return Span[Expr]{}, err
	}
	n := &If{Cond: cond, Then: then, Else: els}
	return cover[Expr](n, kw.loc(), els.Location), nil
}

// parsepred parses a comparison. If top is true, the right side may be a
// conditional.
func (p *parser) parsepred(top bool) (Span[*Pred], error) {
	lhs, err := p.parseterm(exprprec)
	if err != nil {
		return Span[*Pred]{}, err
	}
	tok := p.scan.must()
	if tok.kind != tokenCmp {
		return Span[*Pred]{}, unexpected(tok, "a comparison")
	}
	return p.predrest(lhs, tok, top)
}

// predrest parses the right side of a comparison whose left side and operator
// are already scanned.
func (p *parser) predrest(lhs Span[Expr], op lexToken, top bool) (Span[*Pred], error) {
	var rhs Span[Expr]
	var err error
	if top {
		rhs, err = p.parsetop()
	} else {
		rhs, err = p.parseterm(exprprec)
	}
	if err != nil {
		return Span[*Pred]{}, err
	}
	n := &Pred{Left: lhs, Op: At(cmpop(op.text), op.pos, op.end), Right: rhs}
	return cover(n, lhs.Location, rhs.Location), nil
}

// parseterm parses operands joined by binary operators more binding than
// until. If there is no error, then parseterm pushes the last token it scans,
// including EOF.
func (p *parser) parseterm(until operator) (Span[Expr], error) {
	lhs, err := p.parselhs()
	if err != nil {
		return Span[Expr]{}, err
	}
	for {
		tok, err := p.next()
		if err != nil {
			return Span[Expr]{}, err
		}
		if tok.kind != tokenOp {
			// End of term. The caller decides whether the token is valid.
			p.scan.push(tok)
			return lhs, nil
		}
		prec := binop(tok.text)
		if prec.op == OpNone {
			panic("mathparser: no binary operator for " + strconv.Quote(tok.text))
		}
		if !prec.moreBinding(until) {
			p.scan.push(tok)
			return lhs, nil
		}
		rhs, err := p.parseterm(prec)
		if err != nil {
			return Span[Expr]{}, err
		}
		n := &Binary{Left: lhs, Op: At(prec.op, tok.pos, tok.end), Right: rhs}
		lhs = cover[Expr](n, lhs.Location, rhs.Location)
	}
}

// parselhs parses a single operand: a number, name, call, negation, or
// bracketed expression.
func (p *parser) parselhs() (Span[Expr], error) {
	tok, err := p.next()
	if err != nil {
		return Span[Expr]{}, err
	}
	switch tok.kind {
	case tokenNum:
		v, ok := new(big.Int).SetString(tok.text, 10)
		if !ok {
			panic("mathparser: invalid number " + strconv.Quote(tok.text))
		}
		return At[Expr](&Num{Value: At(v, tok.pos, tok.end)}, tok.pos, tok.end), nil
	case tokenIdent:
		open, err := p.next()
		if err != nil {
			return Span[Expr]{}, err
		}
		if open.kind == tokenOpen {
			return p.parsecall(tok, open)
		}
		p.scan.push(open)
		return At[Expr](&Ident{Name: At(tok.text, tok.pos, tok.end)}, tok.pos, tok.end), nil
	case tokenOp:
		if tok.text != "-" {
			return Span[Expr]{}, unexpected(tok, "a term")
		}
		if err := p.enter(tok); err != nil {
			return Span[Expr]{}, err
		}
		defer p.leave()
		x, err := p.parseterm(negprec)
		if err != nil {
			return Span[Expr]{}, err
		}
		return cover[Expr](&Neg{X: x}, tok.loc(), x.Location), nil
	case tokenOpen:
		if err := p.enter(tok); err != nil {
			return Span[Expr]{}, err
		}
		defer p.leave()
		x, err := p.parsetop()
		if err != nil {
			return Span[Expr]{}, err
		}
		end := p.scan.must()
		if end.kind != tokenClose {
			return Span[Expr]{}, unexpected(end, `")"`)
		}
		// The brackets belong to the term for the purpose of locations.
		x.Location = Location{Start: tok.pos, End: end.end}
		return x, nil
	default:
		return Span[Expr]{}, unexpected(tok, "a term")
	}
}

// parsecall parses the argument list of a call after its open bracket.
func (p *parser) parsecall(name, open lexToken) (Span[Expr], error) {
	if err := p.enter(open); err != nil {
		return Span[Expr]{}, err
	}
	defer p.leave()
	args, err := p.parsearglist(open)
	if err != nil {
		return Span[Expr]{}, err
	}
	n := &Call{Name: At(name.text, name.pos, name.end), Args: args}
	return cover[Expr](n, name.loc(), args.Location), nil
}

// parsearglist parses a comma-separated list of zero or more arguments up to
// and including the close bracket.
func (p *parser) parsearglist(open lexToken) (Span[[]Span[Expr]], error) {
	var args []Span[Expr]
	tok, err := p.next()
	if err != nil {
		return Span[[]Span[Expr]]{}, err
	}
	if tok.kind == tokenClose {
		return At(args, open.pos, tok.end), nil
	}
	p.scan.push(tok)
	for {
		arg, err := p.parsetop()
		if err != nil {
			return Span[[]Span[Expr]]{}, err
		}
		args = append(args, arg)
		end := p.scan.must()
		switch end.kind {
		case tokenSep:
			// Another argument follows.
		case tokenClose:
			return At(args, open.pos, end.end), nil
		default:
			return Span[[]Span[Expr]]{}, unexpected(end, `"," or ")"`)
		}
	}
}

// unexpected returns an error appropriate for a token the grammar does not
// allow where it appears.
func unexpected(tok lexToken, want string) error {
	if tok.kind == tokenEOF {
		return &UnexpectedEOFError{Pos: tok.pos, Want: want}
	}
	return &UnexpectedTokenError{Start: tok.pos, End: tok.end, Token: tok.text, Want: want}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the operator to use when this one is selected.
	op BinOp
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of OpNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, OpAdd}
	case "-":
		return operator{1, false, OpSub}
	case "*":
		return operator{5, false, OpMul}
	case "/":
		return operator{5, false, OpDiv}
	case "%":
		return operator{5, false, OpMod}
	default:
		return operator{}
	}
}

// cmpop gets the comparison for a token string.
func cmpop(text string) Cmp {
	switch text {
	case "=":
		return CmpEq
	case "<":
		return CmpLt
	case "<=":
		return CmpLe
	case ">":
		return CmpGt
	case ">=":
		return CmpGe
	default:
		panic("mathparser: invalid comparison " + strconv.Quote(text))
	}
}

var (
	// negprec is the precedence of unary negation, which binds more tightly
	// than any binary operator.
	negprec = operator{10, true, OpNone}
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{-128, true, OpNone}
)
