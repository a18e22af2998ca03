package domain

import (
	"errors"
	"fmt"
)

var (
	// Transaction errors
	ErrInvariant = errors.New("transaction invariant violated")

	// Chart errors
	ErrUnknownAccount   = errors.New("unknown account")
	ErrDuplicateAccount = errors.New("account already defined")

	// Money errors
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrInvalidCurrency  = errors.New("invalid currency code")
)

// InconsistentGroupingError reports accrual entries that share a reference
// but disagree on a field, with both values so callers can print a
// human-readable diagnostic.
type InconsistentGroupingError struct {
	Ref   string
	Field string
	Got   string
	Want  string
}

func (e *InconsistentGroupingError) Error() string {
	return fmt.Sprintf("inconsistent grouping for %q: %s %q conflicts with %q", e.Ref, e.Field, e.Got, e.Want)
}
