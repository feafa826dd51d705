package game

import (
	"errors"
	"fmt"
)

// ValidationCode identifies why an action was rejected.
type ValidationCode string

const (
	CodeOutOfTurn     ValidationCode = "out_of_turn"
	CodeNotSeated     ValidationCode = "not_seated"
	CodeNotInHand     ValidationCode = "not_in_hand"
	CodeIllegalAction ValidationCode = "illegal_action"
	CodeBadAmount     ValidationCode = "bad_amount"
	CodeNoHand        ValidationCode = "no_hand"
)

// ValidationError rejects a player action. The table state is guaranteed
// untouched: no mutation happened and the version did not advance.
type ValidationError struct {
	Code   ValidationCode
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid action (%s): %s", e.Code, e.Reason)
}

func validationErrf(code ValidationCode, format string, args ...any) *ValidationError {
	return &ValidationError{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is an action rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StateConflictError signals that an observer's version does not line up
// with the table's history. Recoverable: the caller should take a fresh
// snapshot.
type StateConflictError struct {
	Requested uint64
	Current   uint64
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("state conflict: requested version %d, table at %d", e.Requested, e.Current)
}

// InvariantError signals internal state corruption, such as a negative pot.
// It is fatal for the affected table only; the caller must halt the table
// and dump its state for diagnosis.
type InvariantError struct {
	Detail string
}

func (e *InvariantError) Error() string {
	return "invariant violation: " + e.Detail
}

func invariantErrf(format string, args ...any) *InvariantError {
	return &InvariantError{Detail: fmt.Sprintf(format, args...)}
}

// IsInvariant reports whether err is fatal state corruption.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
