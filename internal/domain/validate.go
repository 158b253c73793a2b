// internal/domain/validate.go
package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// A single validator instance is shared across the package, as the library
// documentation recommends.
var validate = newValidator()

var moroccanPhone = regexp.MustCompile(`^(\+212|0)[5-7][0-9]{8}$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("moroccan_phone", func(fl validator.FieldLevel) bool {
		return moroccanPhone.MatchString(fl.Field().String())
	})
	return v
}

// structViolations runs tag validation and converts each failure into a
// human-readable violation string. All violations are collected so a caller
// sees every broken constraint at once.
func structViolations(s interface{}) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	violations := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		violations = append(violations, describeViolation(fe))
	}
	return violations
}

func describeViolation(fe validator.FieldError) string {
	field := jsonFieldName(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", field)
	case "max":
		return fmt.Sprintf("%s: cannot exceed %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s: must be at least %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s: must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("%s: must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s: cannot exceed %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s: must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s: must be a valid URL", field)
	case "moroccan_phone":
		return fmt.Sprintf("%s: must be a valid Moroccan phone number", field)
	default:
		return fmt.Sprintf("%s: failed %s constraint", field, fe.Tag())
	}
}

// jsonFieldName lowers the leading namespace segment so violations read in
// terms of the wire representation rather than Go identifiers.
func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	parts := strings.Split(ns, ".")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToLower(p[:1]) + p[1:]
	}
	return strings.Join(parts, ".")
}
