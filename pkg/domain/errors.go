package domain

import (
	"errors"
	"fmt"
)

// Construction failures. New returns them wrapped in a *ConstructionError.
var (
	ErrEmptyStateSet       = errors.New("state set is empty")
	ErrInitialStateUnknown = errors.New("initial state is not in the state set")
	ErrEmptySymbolSet      = errors.New("symbol set is empty")
	ErrBlankSymbolUnknown  = errors.New("blank symbol is not in the symbol set")
	ErrNilTransition       = errors.New("transition function is nil")
	ErrHeadOutOfBounds     = errors.New("head is outside the tape")
)

var (
	ErrUnknownMovement  = errors.New("unknown movement")
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrSessionLocked    = errors.New("session is locked")
)

// ConstructionError reports why a machine description was rejected.
type ConstructionError struct {
	Err   error
	Value any
}

func (e *ConstructionError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid machine: %v", e.Err)
	}
	return fmt.Sprintf("invalid machine: %v (got %v)", e.Err, e.Value)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}

// MissingTransitionError is raised (as a panic value) by table-driven transitions
// when no rule covers the configuration the machine reached.
type MissingTransitionError struct {
	State  string
	Symbol string
}

func (e *MissingTransitionError) Error() string {
	return fmt.Sprintf("no transition for symbol %q in state %q", e.Symbol, e.State)
}

// BudgetExceededError is returned by callers that impose a step budget on a
// machine which has not halted within it.
type BudgetExceededError struct {
	Budget int
	State  string
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("machine did not halt within %d steps (state %s)", e.Budget, e.State)
}
