package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every layer. Edges classify with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")

	ErrAlreadyExists     = &kindError{msg: "already exists", kind: ErrConflict}
	ErrInsufficientStock = &kindError{msg: "insufficient stock", kind: ErrConflict}
	ErrInUse             = &kindError{msg: "still referenced", kind: ErrConflict}
)

// kindError carries its own message while matching a broader kind.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// NotFoundf reads as "<subject> not found", e.g. NotFoundf("order with id %d", 7).
func NotFoundf(format string, args ...interface{}) error {
	return &kindError{msg: fmt.Sprintf(format, args...) + " not found", kind: ErrNotFound}
}

func InvalidArgumentf(format string, args ...interface{}) error {
	return &kindError{msg: fmt.Sprintf(format, args...), kind: ErrInvalidArgument}
}
