// internal/form/form.go
//
// Adept – Contact form: per-visitor state.
//
// Context
//   A Form is one mounted instance of the contact form.  It owns the field
//   values, the set of fields the visitor has changed, the latest validation
//   result, and the snapshot taken by the last successful submit.
//
//   Errors are recomputed after every change, but only fields the visitor has
//   touched are shown.  A submit attempt touches every field, so an empty
//   submit shows all three failures at once.
//
//   Live change events may reach the server out of order.  Each carries a
//   client sequence number, and Change drops one whose number is not above
//   the last applied for that field, so an older keystroke never overwrites
//   a newer one.
//
// Concurrency
//   Form is not safe for concurrent use.  The session store serialises access
//   to each instance.
//
//------------------------------------------------------------------------------

package form

// Form holds the state of one contact form instance.  Use New.
type Form struct {
	values    Values
	touched   map[Field]bool
	seq       map[Field]uint64 // last applied change sequence per field
	errs      Errors
	submitted *Values
}

// New returns a form in mount state: empty values, nothing touched, and no
// submitted snapshot.
func New() *Form {
	f := &Form{}
	f.Reset()
	return f
}

// Reset returns f to mount state.
func (f *Form) Reset() {
	f.values = Values{}
	f.touched = make(map[Field]bool, len(Fields))
	f.seq = make(map[Field]uint64, len(Fields))
	f.errs = Validate(f.values)
	f.submitted = nil
}

// Values returns a copy of the current field values.
func (f *Form) Values() Values { return f.values }

// Set stores value in field, marks it touched, and re-validates.
func (f *Form) Set(field Field, value string) error {
	if _, err := ParseField(string(field)); err != nil {
		return err
	}
	f.values.set(field, value)
	f.touched[field] = true
	f.errs = Validate(f.values)
	return nil
}

// Change is Set for a sequenced live event.  A seq of zero is unsequenced and
// always applied.  Otherwise the change is applied only when seq is above the
// last one applied to field; applied reports which happened.
func (f *Form) Change(field Field, value string, seq uint64) (applied bool, err error) {
	if _, err := ParseField(string(field)); err != nil {
		return false, err
	}
	if seq != 0 {
		if seq <= f.seq[field] {
			return false, nil
		}
		f.seq[field] = seq
	}
	return true, f.Set(field, value)
}

// SetByName is Set for a wire name.
func (f *Form) SetByName(name, value string) error {
	field, err := ParseField(name)
	if err != nil {
		return err
	}
	return f.Set(field, value)
}

// Touched reports whether field has been changed or submitted.
func (f *Form) Touched(field Field) bool { return f.touched[field] }

// Errors returns every failing rule, touched or not.
func (f *Form) Errors() Errors {
	out := make(Errors, len(f.errs))
	for k, msg := range f.errs {
		out[k] = msg
	}
	return out
}

// Visible returns the failing rules for touched fields only.  This is what the
// view renders.
func (f *Form) Visible() Errors {
	out := make(Errors, len(f.errs))
	for k, msg := range f.errs {
		if f.touched[k] {
			out[k] = msg
		}
	}
	return out
}

// Submit validates the current values.  With no errors it snapshots them as
// the submitted values and returns true.  Otherwise the previous snapshot is
// kept and false is returned.
func (f *Form) Submit() bool {
	for _, field := range Fields {
		f.touched[field] = true
	}
	f.errs = Validate(f.values)
	if len(f.errs) > 0 {
		return false
	}
	snap := f.values
	f.submitted = &snap
	return true
}

// Submitted returns the snapshot from the last successful submit.  ok is false
// until the first one.
func (f *Form) Submitted() (vals Values, ok bool) {
	if f.submitted == nil {
		return Values{}, false
	}
	return *f.submitted, true
}
