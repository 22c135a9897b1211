// Package apperr holds the failure signals services return to the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNotAnOrder   = errors.New("note is not an order")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("invalid credentials")
)

// Forbidden wraps ErrForbidden with a client facing reason.
func Forbidden(reason string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, reason)
}

// Conflict wraps ErrConflict with a client facing reason.
func Conflict(reason string) error {
	return fmt.Errorf("%w: %s", ErrConflict, reason)
}

// ValidationError reports caller input that can be corrected and resent.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

func Invalid(details ...string) *ValidationError {
	return &ValidationError{Fields: details}
}

// NewValidator returns a validator that reports fields by their json name,
// so details match the keys clients send.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FromValidator turns a validator error into a ValidationError. Errors of any
// other kind are returned with their message as the single detail.
func FromValidator(err error) *ValidationError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return Invalid(err.Error())
	}

	details := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		field := lowerCamel(fieldError.Field())
		switch fieldError.Tag() {
		case "required":
			details = append(details, fmt.Sprintf("%s is required", field))
		case "min", "gte", "gt":
			details = append(details, fmt.Sprintf("%s must be at least %s", field, minimum(fieldError)))
		case "max", "lte":
			details = append(details, fmt.Sprintf("%s must be at most %s", field, fieldError.Param()))
		case "oneof":
			details = append(details, fmt.Sprintf("%s must be one of [%s]", field, fieldError.Param()))
		default:
			details = append(details, fmt.Sprintf("%s is invalid", field))
		}
	}
	return &ValidationError{Fields: details}
}

func minimum(fieldError validator.FieldError) string {
	if fieldError.Tag() == "gt" && fieldError.Param() == "0" {
		return "1"
	}
	return fieldError.Param()
}

func lowerCamel(field string) string {
	if field == "" {
		return field
	}
	runes := []rune(field)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// ProductUnavailableError aborts order creation on the first line whose
// product is missing or inactive.
type ProductUnavailableError struct {
	ProductID int64
}

func (e *ProductUnavailableError) Error() string {
	return fmt.Sprintf("product %d not found or inactive", e.ProductID)
}

// StorageError wraps a persistence failure. Its message is not meant for clients.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}
