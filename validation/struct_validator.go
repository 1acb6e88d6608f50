package validation

import (
	stderrors "errors"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/diarsplit/errors"
	"github.com/kbukum/diarsplit/media"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// getValidator returns the singleton validator instance.
func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Field names come from the json, then mapstructure tag.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "mapstructure", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name != "" && name != "-" {
					return name
				}
			}
			return toSnakeCase(fld.Name)
		})

		_ = validate.RegisterValidation("media_file", func(fl validator.FieldLevel) bool {
			return media.IsMediaFile(fl.Field().String())
		})
		_ = validate.RegisterValidation("csv_file", func(fl validator.FieldLevel) bool {
			return strings.EqualFold(filepath.Ext(fl.Field().String()), ".csv")
		})
		_ = validate.RegisterValidation("profile", func(fl validator.FieldLevel) bool {
			return slices.Contains(media.ProfileNames(), fl.Field().String())
		})
	})
	return validate
}

// Validate validates a struct using struct tags such as
// `validate:"required,media_file"`.
func Validate(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.Validation("validation failed").WithCause(err)
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, FieldError{
			Field:   e.Field(),
			Message: formatValidationError(e),
		})
	}
	return fieldsError(fields)
}

// formatValidationError creates a human-readable error message.
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "media_file":
		return "must be one of: " + strings.Join(media.Extensions(), ", ")
	case "csv_file":
		return "must be a .csv file"
	case "profile":
		return "must be one of: " + strings.Join(media.ProfileNames(), ", ")
	default:
		return "is invalid"
	}
}

// toSnakeCase converts a field name to snake_case.
func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune('_')
		}
		if r >= 'A' && r <= 'Z' {
			result.WriteRune(r + 32)
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
