package services

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/game-event-planner/internal/constants"
)

// ValidationError reports rejected input, keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records msg for field unless the field already has a message.
func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) empty() bool {
	return len(e.Fields) == 0
}

// newValidator returns a validator that names fields after their json tag.
// It also knows the length aliases username_len, password_len, title_len and
// tasktype_len, and the trimmed tag that rejects surrounding whitespace.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterAlias("username_len", fmt.Sprintf("min=%d,max=%d", constants.MinUsernameLength, constants.MaxUsernameLength))
	v.RegisterAlias("password_len", fmt.Sprintf("min=%d", constants.MinPasswordLength))
	v.RegisterAlias("title_len", fmt.Sprintf("max=%d", constants.MaxTitleLength))
	v.RegisterAlias("tasktype_len", fmt.Sprintf("max=%d", constants.MaxTaskTypeLength))
	if err := v.RegisterValidation("trimmed", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == strings.TrimSpace(s)
	}); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateStruct runs v over s and converts failures into a ValidationError.
// It returns nil when s is valid.
func validateStruct(v *validator.Validate, s any) (*ValidationError, error) {
	err := v.Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, err
	}

	verr := &ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), fieldMessage(fe))
	}
	return verr, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.ActualTag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "trimmed":
		return "must not start or end with whitespace"
	case "gtefield":
		return "must not be before " + lowerFirst(fe.Param())
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
