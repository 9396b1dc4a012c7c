package guestbook

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Draft is the guest-editable part of a message.
type Draft struct {
	Text   string `json:"text" validate:"required,max=200"`
	Author string `json:"author" validate:"required,max=30"`
}

// Validate trims both fields and checks them. The trimmed draft is returned
// on success.
func (d Draft) Validate() (Draft, error) {
	d.Text = strings.TrimSpace(d.Text)
	d.Author = strings.TrimSpace(d.Author)

	err := validate.Struct(d)
	if err == nil {
		return d, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return d, fmt.Errorf("validate draft: %w", err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return d, &ValidationError{
			Field: fe.Field(),
			Msg:   fe.Field() + " is required",
			Err:   ErrEmptyField,
		}
	case "max":
		return d, &ValidationError{
			Field: fe.Field(),
			Msg:   fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()),
			Err:   ErrTooLong,
		}
	default:
		return d, &ValidationError{Field: fe.Field(), Msg: fe.Error(), Err: err}
	}
}
