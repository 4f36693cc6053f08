package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"task-manager/internal/apperror"
)

var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDueDate(s string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// NewValidator returns a validator that reports fields by their json or
// query name and knows the "duedate" rule.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = v.RegisterValidation("duedate", func(fl validator.FieldLevel) bool {
		_, err := parseDueDate(fl.Field().String())
		return err == nil
	})
	return v
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "oneof":
		options := strings.Fields(fe.Param())
		for i, o := range options {
			options[i] = "'" + o + "'"
		}
		return "Invalid enum value. Expected " + strings.Join(options, " | ")
	case "min":
		return fmt.Sprintf("String must contain at least %s character(s)", fe.Param())
	case "duedate":
		return "Invalid date"
	default:
		return fmt.Sprintf("Failed on the '%s' rule", fe.Tag())
	}
}

// validationError joins "field: message" for every failing field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperror.Unexpected(err)
	}
	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fmt.Sprintf("%s: %s", fe.Field(), fieldMessage(fe)))
	}
	return apperror.Validation(strings.Join(messages, ", "))
}

func bindBody(c *fiber.Ctx, v *validator.Validate, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperror.Validation("Invalid request body")
	}
	if err := v.Struct(out); err != nil {
		return validationError(err)
	}
	return nil
}

func bindQuery(c *fiber.Ctx, v *validator.Validate, out any) error {
	if err := c.QueryParser(out); err != nil {
		return apperror.Validation("Invalid query parameters")
	}
	if err := v.Struct(out); err != nil {
		return validationError(err)
	}
	return nil
}
