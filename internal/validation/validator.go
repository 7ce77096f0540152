package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/shinyyama/cafe-menu/internal/model"
)

// New returns a validator that reports fields by their json name and knows
// the menu-specific tags:
//
//	notblank  string is not empty after trimming spaces
//	category  string is one of model.Categories
func New() *validatorv10.Validate {
	v := validatorv10.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("category", isCategory)
	return v
}

func notBlank(fl validatorv10.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func isCategory(fl validatorv10.FieldLevel) bool {
	return model.Category(fl.Field().String()).Valid()
}

// Message flattens a validation failure into one human readable sentence,
// fields in declaration order.
func Message(err error) string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		parts = append(parts, fieldMessage(fe.Field(), fe.Tag(), fe.Param()))
	}
	return strings.Join(parts, "; ")
}

// FieldMessage formats a single failed rule for field. It is shared with
// callers that validate individual values with Validate.Var.
func FieldMessage(field string, err error) string {
	var ve validatorv10.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Sprintf("%s is invalid", field)
	}
	return fieldMessage(field, ve[0].Tag(), ve[0].Param())
}

func fieldMessage(field, tag, param string) string {
	switch tag {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "category":
		return fmt.Sprintf("%s must be one of: %s", field, categoryList())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, tag)
	}
}

func categoryList() string {
	names := make([]string, 0, len(model.Categories))
	for _, c := range model.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
