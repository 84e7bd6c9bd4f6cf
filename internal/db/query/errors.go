package query

import (
	"errors"
)

var (
	// ErrUnknownField is returned for a (table, field) pair the kind does not allow.
	ErrUnknownField = errors.New("unknown listing field")

	// ErrInvalidValue is returned when a search value does not fit the field type.
	ErrInvalidValue = errors.New("invalid listing value")

	// ErrInvalidDirection is returned for a sort direction other than ASC or DESC.
	ErrInvalidDirection = errors.New("invalid sort direction")
)

// IsRejected reports whether err comes from validating listing parameters,
// as opposed to a database failure.
func IsRejected(err error) bool {
	return errors.Is(err, ErrUnknownField) ||
		errors.Is(err, ErrInvalidValue) ||
		errors.Is(err, ErrInvalidDirection)
}
