package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PinPattern matches the PIN protecting an onboarding template: 4-16 digits
const PinPattern = `^[0-9]{4,16}$`

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Pin *regexp.Regexp
}{
	Pin: regexp.MustCompile(PinPattern),
}

// RegisterRules adds the custom tags used by request structs to v and makes
// field errors report JSON names.
func RegisterRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)
	return v.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Pin.MatchString(fl.Field().String())
	})
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	switch name {
	case "-":
		return ""
	case "":
		return fld.Name
	}
	return name
}

// New returns a validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	if err := RegisterRules(v); err != nil {
		panic(err)
	}
	return v
}

// FormatFieldError creates a human-readable validation error message
func FormatFieldError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
	case "pin":
		return e.Field() + " must be 4-16 digits"
	case "base64":
		return e.Field() + " must be base64 encoded"
	case "url":
		return e.Field() + " must be a valid URL"
	case "alphanum":
		return e.Field() + " must be alphanumeric"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}

// FieldErrors flattens a validator error into field => message pairs.
// Errors of other types are returned under the "body" key.
func FieldErrors(err error) map[string]interface{} {
	details := map[string]interface{}{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		details["body"] = err.Error()
		return details
	}
	for _, fe := range verrs {
		details[fe.Namespace()] = FormatFieldError(fe)
	}
	return details
}
