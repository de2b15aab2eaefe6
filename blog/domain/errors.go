package domain

import (
	"errors"
	"fmt"
)

// ErrPostNotFound matches every NotFoundError via errors.Is
var ErrPostNotFound = errors.New("post not found")

// NotFoundError is returned when a post does not exist or is hidden from the caller
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("post not found: %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrPostNotFound
}

func NewNotFoundError(id int64) error {
	return &NotFoundError{ID: id}
}
