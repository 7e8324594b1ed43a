package service

import (
	"errors"
	"fmt"
)

var (
	ErrCartEmpty            = errors.New("cart is empty")
	ErrImageStorageDisabled = errors.New("image storage is not configured")
)

const defaultValidationMessage = "validation failed, please fix the highlighted fields"

// ValidationError carries field level messages back to the form that
// submitted the input.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func NewValidationError(message string) *ValidationError {
	if message == "" {
		message = defaultValidationMessage
	}
	return &ValidationError{Message: message, Fields: map[string][]string{}}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Add records msg against field.
func (e *ValidationError) Add(field, msg string) *ValidationError {
	e.Fields[field] = append(e.Fields[field], msg)
	return e
}

// OrNil returns nil when no field has been flagged.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// CategoryInUseError is returned when a category cannot be deleted because
// products still reference it. Count is zero when the number is unknown.
type CategoryInUseError struct {
	Count int
}

func (e *CategoryInUseError) Error() string {
	if e.Count < 1 {
		return "cannot delete the category because it has associated products"
	}
	return fmt.Sprintf("cannot delete the category because it has %d associated product(s)", e.Count)
}
