// Package validators registers the custom validation tags shared by request DTOs and
// domain models and renders validation failures as client-facing messages.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Custom validation tags
const (
	TagNotBlank     = "notblank"
	TagPhone        = "phone"
	TagAmountMin    = "amount_min"
	TagAmountDigits = "amount_digits"
)

// Monetary amount limits: at least 0.01 with up to 10 integer and 2 fraction digits.
const (
	AmountIntegerDigits  = 10
	AmountFractionDigits = 2
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9. ()-]{7,25}$`)
	minAmount    = decimal.New(1, -AmountFractionDigits)
)

// New returns a validator with the custom tags registered. Field names in errors are
// reported using their json tag so messages match the wire format.
func New() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation(TagNotBlank, NotBlankValidation)
	_ = v.RegisterValidation(TagPhone, PhoneNumberValidation)
	_ = v.RegisterValidation(TagAmountMin, AmountMinValidation)
	_ = v.RegisterValidation(TagAmountDigits, AmountDigitsValidation)

	return v
}

// NotBlankValidation fails for strings that are empty or whitespace only.
func NotBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// PhoneNumberValidation validates a loosely formatted MSISDN such as +254 722-000 111.
func PhoneNumberValidation(fl validator.FieldLevel) bool {
	return phonePattern.MatchString(fl.Field().String())
}

// AmountMinValidation validates that a decimal amount is at least 0.01.
func AmountMinValidation(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return d.GreaterThanOrEqual(minAmount)
}

// AmountDigitsValidation validates the integer and fraction digit limits of an amount.
func AmountDigitsValidation(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	return HasValidAmountDigits(d)
}

// HasValidAmountDigits reports whether d fits in 10 integer and 2 fraction digits.
func HasValidAmountDigits(d decimal.Decimal) bool {
	if -d.Exponent() > AmountFractionDigits && !d.Equal(d.Truncate(AmountFractionDigits)) {
		return false
	}
	integer := d.Abs().Truncate(0).String()
	return len(integer) <= AmountIntegerDigits
}

// FormatErrors renders validation errors as "'field': message" entries. messages is
// keyed by "field.tag"; unknown keys fall back to a generic description of the tag.
func FormatErrors(err error, messages map[string]string) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	details := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		msg, ok := messages[fieldErr.Field()+"."+fieldErr.Tag()]
		if !ok {
			msg = fmt.Sprintf("failed on the '%s' rule", fieldErr.Tag())
		}
		details = append(details, fmt.Sprintf("'%s': %s", fieldErr.Field(), msg))
	}
	return details
}
