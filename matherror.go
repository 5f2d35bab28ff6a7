package mathparser

import "errors"

// MathError is the single error shape reported to users. Every parse,
// extraction, and evaluation error converts to one with AsMathError.
type MathError struct {
	// Span is the byte range of the input to underline, or nil if the error
	// has no particular location.
	Span *Location
	// Message is a human-readable description of the problem.
	Message string
}

func (err *MathError) Error() string {
	return err.Message
}

// mathErrorer is implemented by every error type in this package.
type mathErrorer interface {
	error
	mathError() *MathError
}

// AsMathError converts an error returned from this package to a MathError.
// The outermost recognized error in the chain decides the result. Errors
// from elsewhere, such as a CallHook's own errors returned through other
// wrapping, keep their message and have no span. Returns nil if err is nil.
func AsMathError(err error) *MathError {
	if err == nil {
		return nil
	}
	var e mathErrorer
	if errors.As(err, &e) {
		return e.mathError()
	}
	var m *MathError
	if errors.As(err, &m) {
		return m
	}
	return &MathError{Message: err.Error()}
}

func span(loc Location) *Location {
	return &loc
}
