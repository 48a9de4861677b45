package types

import (
	"errors"
	"fmt"
	"strings"
)

// Validation sentinels. Callers match them with errors.Is; the concrete
// error carries the offending value and the accepted list.
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrInvalidLevel    = errors.New("invalid level")
	ErrInvalidKind     = errors.New("invalid kind")
	ErrInvalidWeight   = errors.New("invalid weight")
	ErrInvalidStatus   = errors.New("invalid status")
	ErrInvalidLinkKind = errors.New("invalid link kind")
)

// InvalidValueError reports a value outside a closed enumeration.
type InvalidValueError struct {
	Field    string
	Value    string
	Accepted []string

	sentinel error
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q (expected one of: %s)", e.Field, e.Value, strings.Join(e.Accepted, ", "))
}

// Is matches the sentinel of the enumeration the value was checked against.
func (e *InvalidValueError) Is(target error) bool {
	return e.sentinel != nil && target == e.sentinel
}

func invalid[T ~string](set enumSet[T], value string) error {
	return &InvalidValueError{
		Field:    set.field,
		Value:    value,
		Accepted: set.accepted(),
		sentinel: set.sentinel,
	}
}
