// Package contact validates the contact form. Submissions are checked and
// acknowledged but never delivered anywhere.
package contact

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Form is a contact form submission.
type Form struct {
	Name    string `form:"name" json:"name" validate:"required"`
	Email   string `form:"email" json:"email" validate:"required,contactemail"`
	Message string `form:"message" json:"message" validate:"required,min=10"`
}

// Errors maps a form field to its message.
type Errors map[string]string

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var messages = map[string]string{
	"name.required":      "Name is required",
	"email.required":     "Email is required",
	"email.contactemail": "Please enter a valid email address",
	"message.required":   "Message is required",
	"message.min":        "Message must be at least 10 characters",
}

// Validator checks forms.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	// Anything shaped like a@b.c passes.
	_ = v.RegisterValidation("contactemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return &Validator{v: v}
}

// Normalize trims surrounding whitespace from every field.
func (f Form) Normalize() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Validate returns nil when the form is acceptable, otherwise one message per
// failing field. Blank checks use trimmed values; the address pattern is
// matched against the email as typed.
func (val *Validator) Validate(f Form) Errors {
	n := f.Normalize()
	if n.Email != "" {
		n.Email = f.Email
	}
	err := val.v.Struct(n)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{"form": "Invalid submission"}
	}
	out := make(Errors, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := messages[field+"."+fe.Tag()]; ok {
			out[field] = msg
		} else {
			out[field] = "Invalid value"
		}
	}
	return out
}
