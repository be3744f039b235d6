package decorator

import (
	"errors"
)

// Common decorator errors
var (
	// ErrNotConstructed is returned when the lifecycle is invoked on a class
	// that never went through BaseConstructor
	ErrNotConstructed = errors.New("not constructed via base pipeline")

	// ErrAbstractClass is returned when an abstract class is constructed
	ErrAbstractClass = errors.New("abstract class cannot be constructed")

	// ErrAlreadyConstructed is returned when the lifecycle runs twice
	ErrAlreadyConstructed = errors.New("object already constructed")

	// ErrUnknownField is returned when a field is not declared on the class
	ErrUnknownField = errors.New("unknown field")

	// ErrDuplicateElement is returned when two component classes claim the
	// same tag name
	ErrDuplicateElement = errors.New("element already defined")

	// ErrUnknownClass is returned when no factory is provided for a class
	ErrUnknownClass = errors.New("unknown class")
)

// IsNotConstructed returns true if the error is ErrNotConstructed
func IsNotConstructed(err error) bool {
	return errors.Is(err, ErrNotConstructed)
}

// IsUnknownField returns true if the error is ErrUnknownField
func IsUnknownField(err error) bool {
	return errors.Is(err, ErrUnknownField)
}
