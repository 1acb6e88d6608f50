package validation

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/kbukum/diarsplit/errors"
	"github.com/kbukum/diarsplit/media"
)

// Validator collects validation errors.
type Validator struct {
	errors []FieldError
}

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// New creates a new Validator.
func New() *Validator {
	return &Validator{
		errors: make([]FieldError, 0),
	}
}

// AddError adds a field error.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns all validation errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Validate returns an AppError if there are validation errors, nil otherwise.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	return fieldsError(v.errors)
}

// Err is Validate typed as error, so a clean Validator yields a nil
// interface.
func (v *Validator) Err() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func fieldsError(fields []FieldError) *errors.AppError {
	messages := make([]string, len(fields))
	for i, e := range fields {
		messages[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	appErr := errors.Validation(strings.Join(messages, "; "))
	appErr.Details = map[string]any{
		"fields": fields,
	}
	return appErr
}

// Required checks if a string is non-empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

// OneOf checks if a non-empty value is one of the allowed values.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" || slices.Contains(allowed, value) {
		return v
	}
	v.AddError(field, fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")))
	return v
}

// Extension checks that filename carries one of the allowed extensions,
// compared case-insensitively.
func (v *Validator) Extension(field, filename string, allowed []string) *Validator {
	if filename == "" {
		v.AddError(field, "is required")
		return v
	}
	if !slices.Contains(allowed, strings.ToLower(filepath.Ext(filename))) {
		v.AddError(field, fmt.Sprintf("must have one of the extensions: %s", strings.Join(allowed, ", ")))
	}
	return v
}

// MediaFile checks that filename is a supported audio or video file.
func (v *Validator) MediaFile(field, filename string) *Validator {
	return v.Extension(field, filename, media.Extensions())
}

// CSVFile checks that filename is a .csv file.
func (v *Validator) CSVFile(field, filename string) *Validator {
	return v.Extension(field, filename, []string{".csv"})
}

// MaxSize checks that size does not exceed limit bytes. A non-positive
// limit disables the check.
func (v *Validator) MaxSize(field string, size, limit int64) *Validator {
	if limit > 0 && size > limit {
		v.AddError(field, fmt.Sprintf("must be at most %d bytes", limit))
	}
	return v
}

// NonEmptyFile checks that an uploaded file has content.
func (v *Validator) NonEmptyFile(field string, size int64) *Validator {
	if size == 0 {
		v.AddError(field, "must not be empty")
	}
	return v
}

// Custom applies a custom validation condition.
func (v *Validator) Custom(condition bool, field, message string) *Validator {
	if !condition {
		v.AddError(field, message)
	}
	return v
}

// Required validates a single required field and returns an error if empty.
func Required(field, value string) error {
	return New().Required(field, value).Err()
}
