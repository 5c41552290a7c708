package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/Badsnus/campus-hub/internal/domain/common/errorz"
	playground "github.com/go-playground/validator/v10"
)

var structValidator = newStructValidator()

// messages overrides the generic message for a json field.
var messages = map[string]string{
	"full_name":   "Full name is required.",
	"roll_number": "Roll number is required.",
	"branch":      "Branch is required.",
	"section":     "Section is required.",
}

func newStructValidator() *playground.Validate {
	v := playground.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct validates a request DTO by its `validate` tags and reports the first
// failing field as an *errorz.ValidationError.
func Struct(v interface{}) error {
	err := structValidator.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrors playground.ValidationErrors
	if !errors.As(err, &fieldErrors) || len(fieldErrors) == 0 {
		return errorz.NewValidationError("", err.Error())
	}
	fe := fieldErrors[0]
	field := fe.Field()
	if msg, ok := messages[field]; ok {
		return errorz.NewValidationError(field, msg)
	}
	if fe.Param() != "" {
		return errorz.NewValidationError(field, fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param()))
	}
	return errorz.NewValidationError(field, fmt.Sprintf("failed %s", fe.Tag()))
}
