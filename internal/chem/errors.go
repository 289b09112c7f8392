package chem

import (
	"errors"
	"fmt"
)

// Domain errors for equilibrium computations.
var (
	// ErrInvalidConcentration indicates a total concentration outside [0, +Inf),
	// or a nonzero concentration passed for water.
	ErrInvalidConcentration = errors.New("chem: invalid concentration")

	// ErrInvalidStrength indicates a strength outside the range allowed for the kind.
	ErrInvalidStrength = errors.New("chem: invalid strength")

	// ErrDomainViolation indicates a computed concentration that is negative or not finite.
	ErrDomainViolation = errors.New("chem: computed concentration out of domain")

	// ErrUnknownKind indicates a solution kind name or value that is not recognised.
	ErrUnknownKind = errors.New("chem: unknown solution kind")
)

// Error wraps a domain error with the operation and offending value.
type Error struct {
	Op      string
	Kind    Kind
	Species Species
	Value   float64
	Wrapped error
}

func (e *Error) Error() string {
	if e.Species != "" {
		return fmt.Sprintf("%s %s: %v: [%s] = %g", e.Op, e.Kind, e.Wrapped, e.Species, e.Value)
	}
	return fmt.Sprintf("%s %s: %v: %g", e.Op, e.Kind, e.Wrapped, e.Value)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}
