// internal/form/definition.go
//
// Adept – Contact form: YAML definition loader.
//
// Context
//   The contact form's presentation (labels, input types, placeholders, and
//   order) is declared in defs/contact.yaml and embedded into the binary.  The
//   renderer walks this definition so markup and wire names never drift apart.
//   Validation rules are NOT declared here; they are fixed in validate.go
//   because their messages are a literal contract.
//
// Workflow
//   •  ParseFormDef parses raw YAML and validates structural rules.
//   •  Definition returns the embedded contact definition, parsed once.
//
// Style
//   Comments follow Adept’s guide: full sentences, two spaces after periods,
//   Oxford commas, and clear roles.
//
//------------------------------------------------------------------------------

package form

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
// Data structures
// -----------------------------------------------------------------------------

// FormDef represents one form definition loaded from YAML.
type FormDef struct {
	ID     string     `yaml:"id"`     // Identifier, e.g. “contact”.
	Title  string     `yaml:"title"`  // Header text.  Required.
	Fields []FieldDef `yaml:"fields"` // Inputs in display order.
}

// FieldDef describes a single input control on the form.
type FieldDef struct {
	Name        string `yaml:"name"`        // Submission key.  Must be a known Field.
	Label       string `yaml:"label"`       // Human-readable label.  Required.
	Type        string `yaml:"type"`        // text, email, or textarea.
	Placeholder string `yaml:"placeholder"` // Optional placeholder text.
	Required    bool   `yaml:"required"`    // Marks the label; rules live in validate.go.
}

// Field returns the typed field name.  ParseFormDef guarantees it is known.
func (fd FieldDef) Field() Field { return Field(fd.Name) }

// -----------------------------------------------------------------------------
// Loader API
// -----------------------------------------------------------------------------

//go:embed defs/contact.yaml
var contactYAML []byte

var loadContact = sync.OnceValues(func() (*FormDef, error) {
	return ParseFormDef(contactYAML)
})

// Definition returns the embedded contact form definition.  The embedded file
// is checked by tests, so a failure here is a build defect and panics.
func Definition() *FormDef {
	fd, err := loadContact()
	if err != nil {
		panic(err)
	}
	return fd
}

// ParseFormDef parses YAML, validates its structure, and returns a populated
// FormDef.
func ParseFormDef(raw []byte) (*FormDef, error) {
	var fd FormDef
	if err := yaml.Unmarshal(raw, &fd); err != nil {
		return nil, fmt.Errorf("parse form YAML: %w", err)
	}
	if err := validateFormDef(&fd); err != nil {
		return nil, err
	}
	return &fd, nil
}

// -----------------------------------------------------------------------------
// Validation helpers
// -----------------------------------------------------------------------------

// validateFormDef enforces rules that YAML tags cannot express: every known
// field appears exactly once and nothing else appears.
func validateFormDef(fd *FormDef) error {
	if fd.ID == "" {
		return fmt.Errorf("form definition: missing required 'id'")
	}
	if fd.Title == "" {
		return fmt.Errorf("form %s: missing required 'title'", fd.ID)
	}

	seen := make(map[Field]struct{}, len(fd.Fields))
	for i := range fd.Fields {
		f := &fd.Fields[i]
		if err := validateField(f, fd.ID); err != nil {
			return err
		}
		if _, dup := seen[f.Field()]; dup {
			return fmt.Errorf("form %s: duplicate field name '%s'", fd.ID, f.Name)
		}
		seen[f.Field()] = struct{}{}
	}

	for _, want := range Fields {
		if _, ok := seen[want]; !ok {
			return fmt.Errorf("form %s: field '%s' not declared", fd.ID, want)
		}
	}
	return nil
}

// validateField confirms that essential attributes are present and sane.
func validateField(f *FieldDef, formID string) error {
	if _, err := ParseField(f.Name); err != nil {
		return fmt.Errorf("form %s: %w", formID, err)
	}
	if f.Label == "" {
		return fmt.Errorf("form %s: field '%s' missing 'label'", formID, f.Name)
	}
	switch f.Type {
	case "text", "email", "textarea":
	case "":
		return fmt.Errorf("form %s: field '%s' missing 'type'", formID, f.Name)
	default:
		return fmt.Errorf("form %s: field '%s' has unsupported type %q", formID, f.Name, f.Type)
	}
	return nil
}
