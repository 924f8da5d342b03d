// internal/form/validate_test.go
//
// Unit and property tests for Validate.
//
// Run: go test ./internal/form -v

package form

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

const (
	msgFirstName = "firstName must have at least 5 characters"
	msgLastName  = "lastName is a required field"
	msgEmail     = "email must be a valid email address"
)

func validValues() Values {
	return Values{
		FirstName: "Colton",
		LastName:  "Rhodenbaugh",
		Email:     "crhodenbaugh2204@gmail.com",
	}
}

func TestValidate_AllEmpty(t *testing.T) {
	got := Validate(Values{})

	assert.Equal(t, Errors{
		FirstName: msgFirstName,
		LastName:  msgLastName,
		Email:     msgEmail,
	}, got)
}

func TestValidate_Valid(t *testing.T) {
	assert.Empty(t, Validate(validValues()))
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Values)
		field Field
		want  string // empty means valid
	}{
		{"first name too short", func(v *Values) { v.FirstName = "edd" }, FirstName, msgFirstName},
		{"first name exactly five", func(v *Values) { v.FirstName = "Eddie" }, FirstName, ""},
		{"first name padded", func(v *Values) { v.FirstName = "  edd  " }, FirstName, msgFirstName},
		{"first name multibyte", func(v *Values) { v.FirstName = "Zoë's" }, FirstName, ""},
		{"last name empty", func(v *Values) { v.LastName = "" }, LastName, msgLastName},
		{"last name blank", func(v *Values) { v.LastName = " \t " }, LastName, msgLastName},
		{"last name one char", func(v *Values) { v.LastName = "R" }, LastName, ""},
		{"email empty", func(v *Values) { v.Email = "" }, Email, msgEmail},
		{"email digit", func(v *Values) { v.Email = "1" }, Email, msgEmail},
		{"email no tld", func(v *Values) { v.Email = "a@b" }, Email, msgEmail},
		{"email two at", func(v *Values) { v.Email = "a@@b.com" }, Email, msgEmail},
		{"email space", func(v *Values) { v.Email = "a b@c.com" }, Email, msgEmail},
		{"email ok", func(v *Values) { v.Email = "a@b.co" }, Email, ""},
		{"message long", func(v *Values) { v.Message = strings.Repeat("x", 10_000) }, Message, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vals := validValues()
			tc.edit(&vals)

			got := Validate(vals)
			if tc.want == "" {
				assert.False(t, got.Has(tc.field), "unexpected error: %v", got)
				assert.Empty(t, got)
				return
			}
			assert.Len(t, got, 1)
			assert.Equal(t, tc.want, got[tc.field])
		})
	}
}

func TestValidate_MessageNeverFails(t *testing.T) {
	for _, msg := range []string{"", " ", "Hello World"} {
		vals := Values{Message: msg}
		assert.False(t, Validate(vals).Has(Message))
	}
}

func TestErrors_Ordered(t *testing.T) {
	got := Validate(Values{}).Ordered()

	fields := make([]Field, 0, len(got))
	for _, fe := range got {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []Field{FirstName, LastName, Email}, fields)
}

func TestValidateProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	anyValues := gopter.CombineGens(
		gen.AnyString(), gen.AnyString(), gen.AnyString(), gen.AnyString(),
	).Map(func(in []any) Values {
		return Values{
			FirstName: in[0].(string),
			LastName:  in[1].(string),
			Email:     in[2].(string),
			Message:   in[3].(string),
		}
	})

	// Property: re-running Validate on unchanged values is idempotent.
	properties.Property("idempotent", prop.ForAll(
		func(vals Values) bool {
			a, b := Validate(vals), Validate(vals)
			return assert.ObjectsAreEqual(a, b)
		},
		anyValues,
	))

	// Property: at most three rules fail and message never does.
	properties.Property("bounded", prop.ForAll(
		func(vals Values) bool {
			errs := Validate(vals)
			return len(errs) <= 3 && !errs.Has(Message)
		},
		anyValues,
	))

	// Property: lastName fails iff it is blank.
	properties.Property("lastName required", prop.ForAll(
		func(vals Values) bool {
			blank := strings.TrimSpace(vals.LastName) == ""
			return Validate(vals).Has(LastName) == blank
		},
		anyValues,
	))

	// Property: surrounding whitespace never changes the firstName verdict.
	properties.Property("firstName trimmed", prop.ForAll(
		func(name string, pad int) bool {
			padded := strings.Repeat(" ", pad) + name + strings.Repeat(" ", pad)
			a := Validate(Values{FirstName: name}).Has(FirstName)
			b := Validate(Values{FirstName: padded}).Has(FirstName)
			return a == b
		},
		gen.AlphaString(),
		gen.IntRange(0, 4),
	))

	properties.TestingRun(t)
}
