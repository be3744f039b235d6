package model

import (
	"errors"
)

// Common model errors
var (
	// ErrInvalidAttribute is returned when saving a name that is not a
	// declared attribute
	ErrInvalidAttribute = errors.New("invalid defined attributes")

	// ErrNotImplemented is returned by operations concrete models must
	// override
	ErrNotImplemented = errors.New("method not implemented")

	// ErrNoCollection is returned when a model has no collection to persist to
	ErrNoCollection = errors.New("no collection provided")
)

// IsInvalidAttribute returns true if the error is ErrInvalidAttribute
func IsInvalidAttribute(err error) bool {
	return errors.Is(err, ErrInvalidAttribute)
}

// IsNotImplemented returns true if the error is ErrNotImplemented
func IsNotImplemented(err error) bool {
	return errors.Is(err, ErrNotImplemented)
}
