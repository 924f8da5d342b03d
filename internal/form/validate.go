// internal/form/validate.go
//
// Adept – Contact form: field validation.
//
// Context
//   Validate maps a Values snapshot to the set of failing rules.  It is pure:
//   the same Values always yields an equal Errors map, and nothing outside the
//   return value is touched.  The rules are attached to Values as validator
//   tags and checked by go-playground/validator, the same engine the config
//   loader uses.
//
//   Rules
//   •  firstName – trimmed length of at least 5 characters.
//   •  lastName  – not empty after trimming.
//   •  email     – shaped local@domain.tld, empty included.
//   •  message   – never validated.
//
// Notes
//   The messages are a literal contract with the view and its tests.  Do not
//   reword them.
//
//------------------------------------------------------------------------------

package form

import (
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// FirstNameMinLength is the minimum trimmed length of firstName.
const FirstNameMinLength = 5

// -----------------------------------------------------------------------------
// Error types
// -----------------------------------------------------------------------------

// Errors maps each invalid field to its user-facing message.  Valid fields
// have no entry.
type Errors map[Field]string

// Has reports whether f is invalid.
func (e Errors) Has(f Field) bool {
	_, ok := e[f]
	return ok
}

// FieldError is one entry of Errors in display order.
type FieldError struct {
	Field   Field
	Message string
}

// Ordered returns the entries sorted by display order so renders are stable.
func (e Errors) Ordered() []FieldError {
	out := make([]FieldError, 0, len(e))
	for f, msg := range e {
		out = append(out, FieldError{Field: f, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool {
		return fieldIndex(out[i].Field) < fieldIndex(out[j].Field)
	})
	return out
}

func fieldIndex(f Field) int {
	for i, g := range Fields {
		if g == f {
			return i
		}
	}
	return len(Fields)
}

// -----------------------------------------------------------------------------
// validator instance (package-level singleton)
// -----------------------------------------------------------------------------

// emailShape accepts local@domain.tld with no whitespace and a single “@”.
var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()

	// Report JSON names so messages read “firstName …”, not “FirstName …”.
	val.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return sf.Name
		}
		return name
	})

	mustRegister(val, "trimmed_min", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
	})
	mustRegister(val, "not_blank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(val, "contact_email", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return val
}

func mustRegister(val *validator.Validate, tag string, fn validator.Func) {
	if err := val.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("form: register %s: %v", tag, err))
	}
}

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// Validate returns the failing rules for vals.  An empty map means every field
// is valid.
func Validate(vals Values) Errors {
	errs := Errors{}

	err := v.Struct(vals)
	if err == nil {
		return errs
	}

	// Values is always a struct, so ValidationErrors is the only error kind.
	fieldErrs, _ := err.(validator.ValidationErrors)
	for _, fe := range fieldErrs {
		f := Field(fe.Field())
		if _, dup := errs[f]; dup {
			continue
		}
		errs[f] = message(fe)
	}
	return errs
}

// message renders the fixed user-facing text for one failed rule.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "trimmed_min":
		return fmt.Sprintf("%s must have at least %s characters", fe.Field(), fe.Param())
	case "not_blank":
		return fmt.Sprintf("%s is a required field", fe.Field())
	case "contact_email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
