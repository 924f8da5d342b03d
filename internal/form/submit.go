// internal/form/submit.go
//
// Adept – Contact form: request helpers.
//
// Context
//   Handlers want one call per UI event: parse the POST body, check the CSRF
//   token against the visitor's session ID, and apply the event to the
//   visitor's Form.  HandleChange and
//   HandleSubmit provide that so component code stays terse.
//
//   Errors returned here are system errors (bad body, bad token, unknown
//   field).  Validation failures are never errors; they live on the Form.
//
//------------------------------------------------------------------------------

package form

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// TokenField is the posted name of the CSRF token.
const TokenField = "csrf_token"

// ErrBadSeq is returned when a change carries a non-numeric `seq`.
var ErrBadSeq = errors.New("invalid change sequence")

// HandleChange applies a single field change posted as `field`, `value`, and
// an optional `seq`.  It returns the field named and whether the change was
// applied; a change older than one already applied to that field is dropped.
func HandleChange(f *Form, g *Guard, sid string, r *http.Request) (Field, bool, error) {
	posted, err := parse(g, sid, r)
	if err != nil {
		return "", false, err
	}
	field, err := ParseField(posted.Get("field"))
	if err != nil {
		return "", false, err
	}
	var seq uint64
	if raw := posted.Get("seq"); raw != "" {
		if seq, err = strconv.ParseUint(raw, 10, 64); err != nil {
			return "", false, fmt.Errorf("%w: %q", ErrBadSeq, raw)
		}
	}
	applied, err := f.Change(field, posted.Get("value"), seq)
	if err != nil {
		return "", false, err
	}
	return field, applied, nil
}

// HandleSubmit applies every posted field value, then submits.  It reports
// whether the submit was accepted.
func HandleSubmit(f *Form, g *Guard, sid string, r *http.Request) (bool, error) {
	posted, err := parse(g, sid, r)
	if err != nil {
		return false, err
	}
	Apply(f, posted)
	return f.Submit(), nil
}

// HandleReset verifies the token and returns f to its mount state.
func HandleReset(f *Form, g *Guard, sid string, r *http.Request) error {
	if _, err := parse(g, sid, r); err != nil {
		return err
	}
	f.Reset()
	return nil
}

// Apply sets every known field present in posted.  Absent fields keep their
// current value; unknown keys are ignored.
func Apply(f *Form, posted url.Values) {
	for _, field := range Fields {
		if vals, ok := posted[string(field)]; ok && len(vals) > 0 {
			_ = f.Set(field, vals[0])
		}
	}
}

func parse(g *Guard, sid string, r *http.Request) (url.Values, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse body: %w", err)
	}
	if !g.Verify(r.PostForm.Get(TokenField), sid) {
		return nil, ErrBadToken
	}
	return r.PostForm, nil
}
