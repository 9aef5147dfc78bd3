// Package repository defines the persistence layer shared by every entity
// kind. The errors below let handlers distinguish an absent row from a
// failing database without inspecting driver errors.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched (via errors.Is) by every NotFoundError.
var ErrNotFound = errors.New("not found")

// ErrMissingID is returned by Update when the record carries no identity.
var ErrMissingID = errors.New("record has no identity")

// ErrUnknownColumn is returned by FindFirstBy for columns outside the table.
var ErrUnknownColumn = errors.New("unknown column")

// NotFoundError reports a lookup of an identity absent from the table.
// Its message is the entity-specific text returned to clients.
type NotFoundError struct {
	Entity string
	ID     int64
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found", e.Entity) }

// Is makes errors.Is(err, ErrNotFound) hold for every entity.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
