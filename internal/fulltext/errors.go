package fulltext

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the category every ArgumentError unwraps to.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentErrorCode identifies why an argument was rejected.
type ArgumentErrorCode string

const (
	// ErrCodeMissingPredicate indicates no predicate was supplied at all.
	// This is a programming error on the caller's side.
	ErrCodeMissingPredicate ArgumentErrorCode = "MISSING_PREDICATE"

	// ErrCodeEmptyPredicate indicates an empty predicate string.
	ErrCodeEmptyPredicate ArgumentErrorCode = "EMPTY_PREDICATE"

	// ErrCodeUnsupportedSelector indicates a selector that is neither the
	// whole row nor a single mapped field.
	ErrCodeUnsupportedSelector ArgumentErrorCode = "UNSUPPORTED_SELECTOR"
)

// ArgumentError reports a rejected search argument. It is returned
// synchronously and before any query is built.
type ArgumentError struct {
	// Code identifies the error category.
	Code ArgumentErrorCode

	// Param names the offending argument ("predicate", "selector").
	Param string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s (param=%s)", e.Message, e.Param)
}

// Unwrap lets errors.Is(err, ErrInvalidArgument) match every ArgumentError.
func (e *ArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// IsArgumentError returns true if err is an ArgumentError with the given code.
// Uses errors.As to handle wrapped errors.
func IsArgumentError(err error, code ArgumentErrorCode) bool {
	var ae *ArgumentError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

func missingPredicate() *ArgumentError {
	return &ArgumentError{
		Code:    ErrCodeMissingPredicate,
		Param:   "predicate",
		Message: "missing predicate",
	}
}

func emptyPredicate() *ArgumentError {
	return &ArgumentError{
		Code:    ErrCodeEmptyPredicate,
		Param:   "predicate",
		Message: "empty predicate",
	}
}

func unsupportedSelector(detail string) *ArgumentError {
	return &ArgumentError{
		Code:    ErrCodeUnsupportedSelector,
		Param:   "selector",
		Message: "unsupported selector shape: " + detail,
	}
}
