package mathparser

import (
	"strconv"

	"github.com/rs/zerolog/log"
)

// InvalidTokenError is an error indicating a character that cannot begin any
// token. It implements InputError.
type InvalidTokenError struct {
	// Pos is the byte offset of the character.
	Pos int
	// Text is the character that was not understood.
	Text string
}

func (err *InvalidTokenError) Error() string {
	return errpos(err.Pos, "invalid token "+strconv.Quote(err.Text))
}

func (err *InvalidTokenError) Loc() Location {
	return Location{Start: err.Pos, End: err.Pos + 1}
}

func (err *InvalidTokenError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: msgLost}
}

// UnexpectedTokenError is an error indicating a valid token in a place where
// the grammar does not allow it. It implements InputError.
type UnexpectedTokenError struct {
	Start, End int
	// Token is the text of the token.
	Token string
	// Want describes what the parser expected instead, if anything in
	// particular.
	Want string
}

func (err *UnexpectedTokenError) Error() string {
	msg := "unexpected " + strconv.Quote(err.Token)
	if err.Want != "" {
		msg += ", expected " + err.Want
	}
	return errpos(err.Start, msg)
}

func (err *UnexpectedTokenError) Loc() Location {
	return Location{Start: err.Start, End: err.End}
}

func (err *UnexpectedTokenError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: msgLost}
}

// ExtraTokenError is an error indicating a token following a complete parse.
// It implements InputError.
type ExtraTokenError struct {
	Start, End int
	// Token is the text of the first extra token.
	Token string
}

func (err *ExtraTokenError) Error() string {
	return errpos(err.Start, "extra "+strconv.Quote(err.Token)+" after end of expression")
}

func (err *ExtraTokenError) Loc() Location {
	return Location{Start: err.Start, End: err.End}
}

func (err *ExtraTokenError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: msgLost}
}

// UnexpectedEOFError is an error indicating that the input ended in the middle
// of an expression. It implements InputError.
type UnexpectedEOFError struct {
	// Pos is the end of the last token in the input.
	Pos int
	// Want describes what the parser expected, if anything in particular.
	Want string
}

func (err *UnexpectedEOFError) Error() string {
	msg := "unexpected end of input"
	if err.Want != "" {
		msg += ", expected " + err.Want
	}
	return errpos(err.Pos, msg)
}

func (err *UnexpectedEOFError) Loc() Location {
	return Location{Start: err.Pos, End: err.Pos + 1}
}

func (err *UnexpectedEOFError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: "Expression ended unexpectedly"}
}

// DepthError is an error indicating that an expression nests more deeply than
// allowed by MaxDepth. It implements InputError.
type DepthError struct {
	Start, End int
	// Max is the configured limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Start, "expression nested deeper than "+strconv.Itoa(err.Max)+" levels")
}

func (err *DepthError) Loc() Location {
	return Location{Start: err.Start, End: err.End}
}

func (err *DepthError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: "This is nested too deeply for me"}
}

// LengthError is an error indicating that the input is longer than allowed by
// MaxLength. It implements InputError; its location is the excess input.
type LengthError struct {
	// Len is the length of the input in bytes.
	Len int
	// Max is the configured limit.
	Max int
}

func (err *LengthError) Error() string {
	return "input of " + strconv.Itoa(err.Len) + " bytes exceeds limit of " + strconv.Itoa(err.Max)
}

func (err *LengthError) Loc() Location {
	return Location{Start: err.Max, End: err.Len}
}

func (err *LengthError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: "Expression is too long"}
}

// InternalError is an error indicating a defect in the parser rather than a
// problem with the input. It has no location.
type InternalError struct {
	Reason string
}

func (err *InternalError) Error() string {
	return "internal parser error: " + err.Reason
}

func (err *InternalError) mathError() *MathError {
	log.Error().Str("reason", err.Reason).Msg("internal parser error")
	return &MathError{Message: "An unknown error occurred while parsing your expression"}
}

const msgLost = "You lost me here..."

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Loc returns the byte range of the input that caused the error.
	Loc() Location
}

var (
	_ InputError = (*InvalidTokenError)(nil)
	_ InputError = (*UnexpectedTokenError)(nil)
	_ InputError = (*ExtraTokenError)(nil)
	_ InputError = (*UnexpectedEOFError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*LengthError)(nil)
)
