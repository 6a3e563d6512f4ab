package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrMissingDataset is returned when a required dataset was not supplied.
	ErrMissingDataset = errors.New("required dataset missing")
	// ErrMissingColumn is returned when a mapped column is absent from a dataset.
	ErrMissingColumn = errors.New("required column missing")
	// ErrEmptyDataset is returned when zero valid rows reach a computation.
	ErrEmptyDataset = errors.New("dataset has no valid rows")
	// ErrDelegateComputation is returned when the analyzer or a statistical
	// routine fails, e.g. on degenerate or constant input.
	ErrDelegateComputation = errors.New("delegate computation failed")
)

// Error constructors with context
func NewMissingDatasetError(role string) error {
	return fmt.Errorf("%w: %s dataset required", ErrMissingDataset, role)
}

func NewMissingColumnError(column string, role string) error {
	return fmt.Errorf("%w: %s column %q", ErrMissingColumn, role, column)
}

func NewEmptyDatasetError(detail string) error {
	return fmt.Errorf("%w: %s", ErrEmptyDataset, detail)
}

func NewComputationError(stage string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDelegateComputation, stage, err)
}

func NewDegenerateInputError(stage string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrDelegateComputation, stage, reason)
}

// Error checking helpers
func IsMissingDatasetError(err error) bool {
	return errors.Is(err, ErrMissingDataset)
}

func IsMissingColumnError(err error) bool {
	return errors.Is(err, ErrMissingColumn)
}

func IsEmptyDatasetError(err error) bool {
	return errors.Is(err, ErrEmptyDataset)
}

func IsComputationError(err error) bool {
	return errors.Is(err, ErrDelegateComputation)
}

// IsDomainError reports whether err belongs to any of the domain error kinds,
// as opposed to an infrastructure failure (I/O, decoding, transport).
func IsDomainError(err error) bool {
	return IsMissingDatasetError(err) ||
		IsMissingColumnError(err) ||
		IsEmptyDatasetError(err) ||
		IsComputationError(err)
}
