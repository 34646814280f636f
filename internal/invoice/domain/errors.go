package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/glanzwerk/invoicing/internal/catalog"
)

var (
	ErrMissingField   = errors.New("missing_field")
	ErrUnknownService = catalog.ErrUnknownService
)

const (
	FieldCustomerName    = "customerName"
	FieldVehicleNumber   = "vehicleNumber"
	FieldSelectedService = "selectedService"
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field   string
	Code    string
	Message string
	Err     error
}

func (e ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Code)
}

func (e ValidationError) Unwrap() error {
	return e.Err
}

func MissingField(field string) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    ErrMissingField.Error(),
		Message: "Missing required field: " + field,
		Err:     ErrMissingField,
	}
}

func UnknownService(key string) ValidationError {
	return ValidationError{
		Field:   FieldSelectedService,
		Code:    ErrUnknownService.Error(),
		Message: fmt.Sprintf("Unknown service: %s", key),
		Err:     ErrUnknownService,
	}
}

// ValidationErrors collects every field failure of one request.
type ValidationErrors struct {
	Errors []ValidationError
}

func (e *ValidationErrors) Error() string {
	if e == nil || len(e.Errors) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		parts = append(parts, item.Error())
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationErrors) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := make([]error, 0, len(e.Errors))
	for _, item := range e.Errors {
		errs = append(errs, item)
	}
	return errs
}

func (e *ValidationErrors) Add(item ValidationError) {
	e.Errors = append(e.Errors, item)
}

// Has reports whether field failed validation.
func (e *ValidationErrors) Has(field string) bool {
	if e == nil {
		return false
	}
	for _, item := range e.Errors {
		if item.Field == field {
			return true
		}
	}
	return false
}

func (e *ValidationErrors) Empty() bool {
	return e == nil || len(e.Errors) == 0
}
