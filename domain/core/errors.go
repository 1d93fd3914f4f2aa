package core

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrProfileNotFound = fmt.Errorf("%w: profile", ErrNotFound)
)

// NewNotFoundError builds a not-found error that still matches ErrNotFound.
func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
