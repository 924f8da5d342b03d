// internal/config/validator.go
//
// go-playground/validator instance for the contact service config.
//
// Context
// -------
// `Load` calls `validateStruct` right after it unmarshals the merged Koanf
// tree.  Struct tags cover the generic checks (ranges, enums, URLs).  The
// rules registered here cover values whose meaning lives in another package:
//
//   • csrfkey – base64url (raw) that decodes to at least form.MinKeyBytes
//     bytes.  A shorter key would be swapped for a random one at startup, so
//     tokens would silently stop verifying after each restart.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"encoding/base64"

	"github.com/go-playground/validator/v10"

	"github.com/AdeptTravel/adept-contact/internal/form"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	if err := val.RegisterValidation("csrfkey", validCSRFKey); err != nil {
		panic(err)
	}
	return val
}

// validCSRFKey accepts an empty string; `omitempty` normally short-circuits
// before it is reached.
func validCSRFKey(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	return err == nil && len(raw) >= form.MinKeyBytes
}

// validateStruct returns the validation errors, or nil on success.
func validateStruct(c *Config) error {
	return v.Struct(c)
}
