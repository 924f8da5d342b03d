// internal/view/render_test.go
//
// Render-contract tests for the contact form view.
//
// Context
// -------
// The markup is consumed by browsers and by the component tests, so these
// tests pin the contract: header text, labelled inputs, one error element per
// visible failure, a single button, and a summary region whose message row
// exists only when a message was submitted.
//
// Run: go test ./internal/view -v

package view

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdeptTravel/adept-contact/internal/form"
	"github.com/AdeptTravel/adept-contact/internal/testutil"
)

func render(t *testing.T, f *form.Form, full bool) *testutil.Screen {
	t.Helper()
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	p := NewPage(f, "tok123")
	if full {
		require.NoError(t, r.Page(&buf, p))
	} else {
		require.NoError(t, r.Fragment(&buf, p))
	}
	return testutil.MustParse(buf.String())
}

func TestRender_Header(t *testing.T) {
	s := render(t, form.New(), false)

	h := s.QueryByText(regexp.MustCompile(`(?i)contact form`))
	require.NotNil(t, h)
	assert.Equal(t, "h1", h.Data)
}

func TestRender_LabelledInputs(t *testing.T) {
	s := render(t, form.New(), false)

	for label, name := range map[string]string{
		`(?i)first name`: "firstName",
		`(?i)last name`:  "lastName",
		`(?i)email`:      "email",
		`(?i)message`:    "message",
	} {
		el := s.ByLabelText(regexp.MustCompile(label))
		require.NotNil(t, el, label)
		assert.Equal(t, name, testutil.Attr(el, "name"))
	}
	assert.Equal(t, "textarea", s.ByName("message").Data)
	assert.Equal(t, "email", testutil.Attr(s.ByName("email"), "type"))
}

func TestRender_SingleButtonAndToken(t *testing.T) {
	s := render(t, form.New(), true)

	assert.Len(t, s.Buttons(), 1)
	assert.Equal(t, "tok123", testutil.Attr(s.ByName(form.TokenField), "value"))
}

func TestRender_MountHasNoErrorsOrSummary(t *testing.T) {
	s := render(t, form.New(), true)

	assert.Empty(t, s.AllByTestID("error"))
	assert.Nil(t, s.QueryByTestID("displayComponent"))
	assert.Nil(t, s.QueryByTestID("messageDisplay"))
}

func TestRender_ErrorCountMatchesVisible(t *testing.T) {
	f := form.New()
	require.NoError(t, f.Set(form.FirstName, "edd"))
	s := render(t, f, false)
	assert.Len(t, s.AllByTestID("error"), 1)

	require.NoError(t, f.Set(form.Email, "1"))
	s = render(t, f, false)
	assert.Len(t, s.AllByTestID("error"), 2)
	assert.NotNil(t, s.QueryByText(regexp.MustCompile(`email must be a valid email address`)))

	f.Submit()
	s = render(t, f, false)
	assert.Len(t, s.AllByTestID("error"), len(f.Visible()))
	assert.Len(t, s.AllByTestID("error"), 3)
}

func TestRender_KeepsValues(t *testing.T) {
	f := form.New()
	require.NoError(t, f.Set(form.FirstName, `<Colton & "co">`))
	require.NoError(t, f.Set(form.Message, "Hello World"))
	s := render(t, f, false)

	assert.Equal(t, `<Colton & "co">`, testutil.Attr(s.ByName("firstName"), "value"))
	assert.Equal(t, "Hello World", testutil.Text(s.ByName("message")))
}

func submitted(t *testing.T, message string) *form.Form {
	t.Helper()
	f := form.New()
	require.NoError(t, f.Set(form.FirstName, "Colton"))
	require.NoError(t, f.Set(form.LastName, "Rhodenbaugh"))
	require.NoError(t, f.Set(form.Email, "crhodenbaugh2204@gmail.com"))
	require.NoError(t, f.Set(form.Message, message))
	require.True(t, f.Submit())
	return f
}

func TestRender_SummaryWithoutMessage(t *testing.T) {
	s := render(t, submitted(t, ""), true)

	summary := s.QueryByTestID("displayComponent")
	require.NotNil(t, summary)
	text := testutil.Text(summary)
	assert.Contains(t, text, "Colton")
	assert.Contains(t, text, "Rhodenbaugh")
	assert.Contains(t, text, "crhodenbaugh2204@gmail.com")
	assert.Nil(t, s.QueryByTestID("messageDisplay"))
	assert.Empty(t, s.AllByTestID("error"))
}

func TestRender_SummaryWithMessage(t *testing.T) {
	s := render(t, submitted(t, "Hello World"), true)

	msg := s.QueryByTestID("messageDisplay")
	require.NotNil(t, msg)
	assert.Contains(t, testutil.Text(msg), "Hello World")

	for _, id := range []string{"firstnameDisplay", "lastnameDisplay", "emailDisplay"} {
		assert.NotNil(t, s.QueryByTestID(id), id)
	}
}

func TestRender_SummaryBlankMessageOmitsRow(t *testing.T) {
	for _, msg := range []string{" ", "\t\n  "} {
		s := render(t, submitted(t, msg), true)

		require.NotNil(t, s.QueryByTestID("displayComponent"))
		assert.Nil(t, s.QueryByTestID("messageDisplay"), "%q", msg)
	}
}

func TestRender_Deterministic(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	p := NewPage(submitted(t, "Hi"), "tok")

	var a, b bytes.Buffer
	require.NoError(t, r.Page(&a, p))
	require.NoError(t, r.Page(&b, p))
	assert.Equal(t, a.String(), b.String())
}

func TestScript(t *testing.T) {
	js := string(Script())

	assert.Contains(t, js, "dataset.change")
	assert.Contains(t, js, `body.set("seq"`, "changes are sequenced")
	assert.Contains(t, js, "mine !== seq", "stale responses are ignored")
	assert.NotContains(t, js, "outerHTML", "live inputs are never replaced")
	assert.NotContains(t, js, ".value = html")
}

func TestRender_PageHead(t *testing.T) {
	s := render(t, form.New(), true)

	var src string
	for _, n := range s.AllByTag("script") {
		src = testutil.Attr(n, "src")
	}
	assert.Equal(t, ScriptPath, src)
	title := s.QueryByText(regexp.MustCompile(`(?i)contact form`))
	require.NotNil(t, title)
	assert.Equal(t, "title", title.Data)
}

// TestRender_MountGolden pins the exact mount-state markup.  Regenerate with
// `go test ./internal/view -run MountGolden -update` after an intended change.
func TestRender_MountGolden(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Fragment(&buf, NewPage(form.New(), "tok123")))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "mount_fragment", buf.Bytes())
}
