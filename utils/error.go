package utils

import (
	"errors"
	"fmt"
)

var (
	ErrorRecordNotFound   = errors.New("record not found")
	ErrorDuplicateRecord  = errors.New("duplicate record")
	ErrorCapacityExceeded = errors.New("capacity exceeded")

	// ErrorInvalidInput tags validation failures so the HTTP layer can keep
	// them apart from infrastructure errors, which surface as 500s.
	ErrorInvalidInput = errors.New("invalid input")
)

type invalidInputError struct {
	msg string
}

func (e *invalidInputError) Error() string { return e.msg }

func (e *invalidInputError) Is(target error) bool { return target == ErrorInvalidInput }

// InvalidInputf builds a validation error that satisfies
// errors.Is(err, ErrorInvalidInput) while keeping the message clean for the
// API response.
func InvalidInputf(format string, args ...any) error {
	return &invalidInputError{msg: fmt.Sprintf(format, args...)}
}
