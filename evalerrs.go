package mathparser

import (
	"fmt"
	"strconv"
)

// UnknownVariableError is an error indicating use of a name that the context
// does not bind.
type UnknownVariableError struct {
	Name Span[string]
}

func (err *UnknownVariableError) Error() string {
	return errpos(err.Name.Start, "undefined variable "+strconv.Quote(err.Name.Val))
}

func (err *UnknownVariableError) Loc() Location {
	return err.Name.Location
}

func (err *UnknownVariableError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: "No such variable: `" + err.Name.Val + "`"}
}

// UnknownFunctionError is an error indicating a call to a name that the
// context does not bind.
type UnknownFunctionError struct {
	Name Span[string]
}

func (err *UnknownFunctionError) Error() string {
	return errpos(err.Name.Start, "undefined function "+strconv.Quote(err.Name.Val))
}

func (err *UnknownFunctionError) Loc() Location {
	return err.Name.Location
}

func (err *UnknownFunctionError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: "No such function: `" + err.Name.Val + "`"}
}

// NotAVariableError is an error indicating use of a function name as a value.
type NotAVariableError struct {
	Name Span[string]
}

func (err *NotAVariableError) Error() string {
	return errpos(err.Name.Start, strconv.Quote(err.Name.Val)+" is a function, not a variable")
}

func (err *NotAVariableError) Loc() Location {
	return err.Name.Location
}

func (err *NotAVariableError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: "`" + err.Name.Val + "` is a function, not a variable"}
}

// NotAFunctionError is an error indicating a call to a variable.
type NotAFunctionError struct {
	Name Span[string]
}

func (err *NotAFunctionError) Error() string {
	return errpos(err.Name.Start, strconv.Quote(err.Name.Val)+" is a variable, not a function")
}

func (err *NotAFunctionError) Loc() Location {
	return err.Name.Location
}

func (err *NotAFunctionError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: "`" + err.Name.Val + "` is a variable, not a function"}
}

// ArityError is an error indicating a call with the wrong number of
// arguments. Its location is the argument list including the brackets.
type ArityError struct {
	// Function is the name of the called function.
	Function Span[string]
	// Args is the location of the argument list.
	Args Location
	// Expected is the number of parameters of the function.
	Expected int
	// Actual is the number of arguments in the call.
	Actual int
}

func (err *ArityError) Error() string {
	return errpos(err.Args.Start, fmt.Sprintf("%q takes %d arguments, got %d", err.Function.Val, err.Expected, err.Actual))
}

func (err *ArityError) Loc() Location {
	return err.Args
}

func (err *ArityError) mathError() *MathError {
	noun := "arguments"
	if err.Expected == 1 {
		noun = "argument"
	}
	verb := "were"
	if err.Actual == 1 {
		verb = "was"
	}
	msg := fmt.Sprintf("`%s` takes %d %s, but %d %s provided", err.Function.Val, err.Expected, noun, err.Actual, verb)
	return &MathError{Span: span(err.Loc()), Message: msg}
}

// DivisionByZeroError is an error indicating a quotient or remainder with a
// zero divisor. Its location is the divisor.
type DivisionByZeroError struct {
	// Op is the division or remainder operator.
	Op Span[BinOp]
	// Divisor is the location of the right operand.
	Divisor Location
}

func (err *DivisionByZeroError) Error() string {
	return errpos(err.Op.Start, "division by zero")
}

func (err *DivisionByZeroError) Loc() Location {
	return err.Divisor
}

func (err *DivisionByZeroError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: "Tried to divide by zero"}
}

// FunctionError is an error that occurred while evaluating the body of a
// called function. Its location is the name in the call, since the body of
// the function is not part of the input being evaluated.
type FunctionError struct {
	Name Span[string]
	Err  error
}

func (err *FunctionError) Error() string {
	return errpos(err.Name.Start, "in "+strconv.Quote(err.Name.Val)+": "+err.Err.Error())
}

func (err *FunctionError) Unwrap() error {
	return err.Err
}

func (err *FunctionError) Loc() Location {
	return err.Name.Location
}

func (err *FunctionError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: "An unexpected error occurred while evaluating `" + err.Name.Val + "`"}
}

// HookError is an error returned by a CallHook. Its location is the name of
// the function whose application the hook refused.
type HookError struct {
	Name Span[string]
	Err  error
}

func (err *HookError) Error() string {
	return errpos(err.Name.Start, "calling "+strconv.Quote(err.Name.Val)+": "+err.Err.Error())
}

func (err *HookError) Unwrap() error {
	return err.Err
}

func (err *HookError) Loc() Location {
	return err.Name.Location
}

func (err *HookError) mathError() *MathError {
	return &MathError{Span: span(err.Loc()), Message: "Stopped evaluating at `" + err.Name.Val + "`: " + err.Err.Error()}
}

var (
	_ InputError = (*UnknownVariableError)(nil)
	_ InputError = (*UnknownFunctionError)(nil)
	_ InputError = (*NotAVariableError)(nil)
	_ InputError = (*NotAFunctionError)(nil)
	_ InputError = (*ArityError)(nil)
	_ InputError = (*DivisionByZeroError)(nil)
	_ InputError = (*FunctionError)(nil)
	_ InputError = (*HookError)(nil)
)
