package mathparser

import "strconv"

// Location is a half-open range [Start, End) of byte offsets into the source
// text of a parse.
type Location struct {
	Start, End int
}

func (l Location) String() string {
	return strconv.Itoa(l.Start) + ".." + strconv.Itoa(l.End)
}

// Text returns the part of src covered by l. Offsets outside src are clamped.
func (l Location) Text(src string) string {
	start, end := l.Start, l.End
	if start > len(src) {
		start = len(src)
	}
	if end > len(src) {
		end = len(src)
	}
	if start > end {
		return ""
	}
	return src[start:end]
}

// Span attaches the location in the source text where a value originated.
// Spans are values; they are never modified after the parser creates them.
type Span[T any] struct {
	Val T
	Location
}

// At creates a span of v covering [start, end).
func At[T any](v T, start, end int) Span[T] {
	return Span[T]{Val: v, Location: Location{Start: start, End: end}}
}

// MapSpan converts the value of a span, keeping its location.
func MapSpan[T, U any](s Span[T], f func(T) U) Span[U] {
	return Span[U]{Val: f(s.Val), Location: s.Location}
}

// cover creates a span of v from the start of l to the end of r.
func cover[T any](v T, l, r Location) Span[T] {
	return Span[T]{Val: v, Location: Location{Start: l.Start, End: r.End}}
}
