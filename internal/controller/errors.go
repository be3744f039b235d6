package controller

import (
	"errors"
)

// Common controller errors
var (
	// ErrDuplicateController is returned when a sub-controller name is taken
	ErrDuplicateController = errors.New("controller already exists")

	// ErrUnknownController is returned when no sub-controller has a name
	ErrUnknownController = errors.New("controller does not exist")

	// ErrNotController is returned when a factory builds something that is
	// not a controller
	ErrNotController = errors.New("not a controller")
)

// IsDuplicateController returns true if the error is ErrDuplicateController
func IsDuplicateController(err error) bool {
	return errors.Is(err, ErrDuplicateController)
}
