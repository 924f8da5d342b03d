package form

import (
	"errors"
	"fmt"
	"strings"
)

// Field names one of the four contact inputs.  The string value is the wire
// name used in posted bodies, JSON, and error messages.
type Field string

const (
	FirstName Field = "firstName"
	LastName  Field = "lastName"
	Email     Field = "email"
	Message   Field = "message"
)

// Fields lists every field in display order.
var Fields = []Field{FirstName, LastName, Email, Message}

// ErrUnknownField is returned when a caller names a field the form does not
// have.
var ErrUnknownField = errors.New("unknown field")

// ParseField maps a wire name to its Field.
func ParseField(name string) (Field, error) {
	switch f := Field(name); f {
	case FirstName, LastName, Email, Message:
		return f, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownField, name)
}

// Values holds the current contents of every field.  The zero value is the
// mount-time state.
type Values struct {
	FirstName string `json:"firstName" validate:"trimmed_min=5"`
	LastName  string `json:"lastName" validate:"not_blank"`
	Email     string `json:"email" validate:"contact_email"`
	Message   string `json:"message"`
}

// Get returns the value of f.  Unknown fields read as empty.
func (v Values) Get(f Field) string {
	switch f {
	case FirstName:
		return v.FirstName
	case LastName:
		return v.LastName
	case Email:
		return v.Email
	case Message:
		return v.Message
	}
	return ""
}

// HasMessage reports whether Message holds anything besides whitespace.  The
// summary omits its message row otherwise.
func (v Values) HasMessage() bool { return strings.TrimSpace(v.Message) != "" }

func (v *Values) set(f Field, s string) {
	switch f {
	case FirstName:
		v.FirstName = s
	case LastName:
		v.LastName = s
	case Email:
		v.Email = s
	case Message:
		v.Message = s
	}
}
