// Package validation checks user-submitted forms before anything is stored.
package validation

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"inkwell/internal/models"

	"github.com/go-playground/validator/v10"
)

const (
	msgRequired     = "This field is required."
	msgInvalidGroup = "Select a valid choice. That choice is not one of the available choices."
)

// Errors maps a form field to a human readable message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return strings.Join(parts, "; ")
}

// AppError converts the field errors into a VALIDATION_ERROR.
func (e Errors) AppError() *models.AppError {
	return models.NewFieldValidationError(map[string]string(e))
}

// GroupLookup answers whether a group id exists.
type GroupLookup interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// Validator wraps go-playground/validator with the application's form rules.
type Validator struct {
	validate      *validator.Validate
	groups        GroupLookup
	maxImageBytes int64
}

// New returns a Validator. groups may be nil when no form references a group.
func New(groups GroupLookup, maxImageBytes int64) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v, groups: groups, maxImageBytes: maxImageBytes}
}

// Struct runs the struct tag rules and returns Errors, or nil.
func (v *Validator) Struct(s any) Errors {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return Errors{"__all__": err.Error()}
	}
	out := Errors{}
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return msgRequired
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "email":
		return "Enter a valid email address."
	case "alphanum", "username":
		return "Enter a valid username. This value may contain only letters, numbers and _ - characters."
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
