package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/tcnexs/backend/pkg/util/errorutil"
)

const msgInvalidPayload = "invalid payload"

// Validator checks request DTOs. A field's `message` tag overrides the
// generated text for every rule on that field.
type Validator struct {
	v *validator.Validate
}

// NewValidator reports field names by their json tag.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Struct validates req. Failures become a VALIDATION_FAILED error whose
// message is the first failure and whose details map every failing field.
func (val *Validator) Struct(req any) error {
	err := val.v.Struct(req)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return apperrors.NewValidationError(msgInvalidPayload, nil)
	}

	details := make(map[string]any, len(ve))
	first := ""
	for _, fe := range ve {
		msg := fieldMessage(req, fe)
		if first == "" {
			first = msg
		}
		if _, seen := details[fe.Field()]; !seen {
			details[fe.Field()] = msg
		}
	}
	return apperrors.NewValidationError(first, details)
}

// bind parses the JSON body into req and validates it.
func (val *Validator) bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError(msgInvalidPayload, nil)
	}
	return val.Struct(req)
}

func fieldMessage(req any, fe validator.FieldError) string {
	t := reflect.TypeOf(req)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() == reflect.Struct {
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if msg := sf.Tag.Get("message"); msg != "" {
				return msg
			}
		}
	}

	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
