package mathparser

import (
	"errors"
	"fmt"
	"math/big"
	"sync/atomic"
)

// ErrBudgetExceeded is the error a Budget's hook returns once it has seen
// more function applications than it allows.
var ErrBudgetExceeded = errors.New("call budget exceeded")

// Budget limits the number of function applications in evaluations that use
// its Hook. The zero value allows any number of calls and counts them.
// A Budget may be shared by concurrent evaluations.
type Budget struct {
	// MaxCalls is the number of applications allowed. Zero or less means no
	// limit.
	MaxCalls int
	// Next, if not nil, is called for each application within the budget.
	Next CallHook

	calls atomic.Int64
}

// Hook counts a function application. Pass the method value as the hook for
// an evaluation.
func (b *Budget) Hook(name string, args []*big.Rat) error {
	n := b.calls.Add(1)
	if b.MaxCalls > 0 && n > int64(b.MaxCalls) {
		return fmt.Errorf("%w: more than %d calls", ErrBudgetExceeded, b.MaxCalls)
	}
	if b.Next != nil {
		return b.Next(name, args)
	}
	return nil
}

// Calls returns the number of applications counted so far, including the one
// that exceeded the budget, if any.
func (b *Budget) Calls() int {
	return int(b.calls.Load())
}

// Reset sets the count back to zero.
func (b *Budget) Reset() {
	b.calls.Store(0)
}
