// Package forms validates task and user input against a schema and submits
// it through the API client, invalidating the affected cache entries on
// success. Validation failures never reach the network.
package forms

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

const dateLayout = "2006-01-02"

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// dueDate must be a valid calendar date string
	_ = v.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(dateLayout, fl.Field().String())
		return err == nil
	})

	// letters, digits and underscores only
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})

	return v
}

// FieldErrors maps a form field to its validation message, rendered inline
// next to the field.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	for _, msg := range e {
		return msg
	}
	return "invalid input"
}

// structErrors converts validator errors into FieldErrors using the given
// per-field messages.
func structErrors(err error, messages map[string]string) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := FieldErrors{}
	for _, verr := range verrs {
		field := verr.Field()
		if msg, ok := messages[field]; ok {
			fields[field] = msg
		} else {
			fields[field] = "Invalid value"
		}
	}
	return fields
}
