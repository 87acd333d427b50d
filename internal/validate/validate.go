// Package validate wires up the go-playground validator with the
// domain rules the registration and order flows need: the email
// format check, the Nigerian phone-number pattern and the
// seller-conditional required fields.
package validate

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// phoneRegex matches Nigerian numbers in local (0...) or international
// (+234/234) form across the known mobile prefixes.
var phoneRegex = regexp.MustCompile(`^(?:(?:\+?234)|0)(?:70|71|80|81|90|91|809|817|818|908|909)\d{7,8}$`)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// ng_phone validates the regional phone-number pattern.
	_ = val.RegisterValidation("ng_phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	return val
}

// Struct validates any tagged struct with the shared validator
// instance and flattens the result into a single error message per
// offending field, suitable for a 400 response body.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

// Phone reports whether a phone number matches the regional pattern.
func Phone(phone string) bool { return phoneRegex.MatchString(phone) }

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "email":
		return "invalid email format"
	case "ng_phone":
		return "invalid phone number format"
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "gte":
		return field + " must be >= " + fe.Param()
	case "lte":
		return field + " must be <= " + fe.Param()
	default:
		return field + " is invalid"
	}
}
