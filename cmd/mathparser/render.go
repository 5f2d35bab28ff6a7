package main

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"golang.org/x/text/width"

	"github.com/zephyrtronium/mathparser"
)

var (
	caretColor = color.New(color.FgRed, color.Bold)
	errColor   = color.New(color.FgRed)
)

// renderError writes err for the user as the input, a line of carets under
// the part of it that caused the error, and the message. Errors without a
// location implicate the whole input.
func renderError(w io.Writer, src string, err error) {
	m := mathparser.AsMathError(err)
	fmt.Fprintln(w, src)
	start, end := 0, len(src)
	if m.Span != nil {
		start, end = m.Span.Start, m.Span.End
	}
	start = min(start, len(src))
	end = min(max(end, start), len(src))
	pad := indent(src[:start])
	n := columns(src[start:end])
	if n == 0 {
		// Errors at the end of input point just past it.
		n = 1
	}
	fmt.Fprint(w, pad)
	caretColor.Fprintln(w, strings.Repeat("^", n))
	errColor.Fprintln(w, m.Message)
}

// indent returns whitespace that occupies the same columns as s. Tabs are
// kept so that terminals align them the same way.
func indent(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runeColumns(r)))
	}
	return b.String()
}

// columns is the number of terminal columns s occupies.
func columns(s string) int {
	n := 0
	for _, r := range s {
		n += runeColumns(r)
	}
	return n
}

func runeColumns(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}

// formatRat formats r as an integer or fraction. If decimals is positive and
// r is not an integer, a decimal rendering follows.
func formatRat(r *big.Rat, decimals int) string {
	s := r.RatString()
	if decimals <= 0 || r.IsInt() {
		return s
	}
	d := decimal.NewFromBigRat(r, int32(decimals))
	rel := "≈"
	if d.Rat().Cmp(r) == 0 {
		rel = "="
	}
	return s + " " + rel + " " + d.StringFixed(int32(decimals))
}

// formatCall formats a function application with its argument values.
func formatCall(name string, args []*big.Rat) string {
	s := make([]string, len(args))
	for i, a := range args {
		s[i] = a.RatString()
	}
	return name + "(" + strings.Join(s, ", ") + ")"
}
