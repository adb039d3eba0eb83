package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"caregiver-support/internal/core"
	"caregiver-support/pkg"
)

var fixedNow = time.Date(2024, time.May, 2, 20, 15, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	classifier := core.NewClassifier(core.MustCompile(core.DefaultRules()))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv, err := NewServer(classifier, NewSessionStore(time.Hour), logger, 1024)
	require.NoError(t, err)
	srv.Now = func() time.Time { return fixedNow }
	return srv
}

// browser replays the session cookie across requests like a real client.
type browser struct {
	t      *testing.T
	srv    *Server
	cookie *http.Cookie
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	rec := httptest.NewRecorder()
	b.srv.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			b.cookie = c
		}
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func TestIndexRendersEmptyForm(t *testing.T) {
	b := &browser{t: t, srv: newTestServer(t)}
	rec := b.get("/")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Generate support plan")
	assert.NotContains(t, rec.Body.String(), "Result:")
	require.NotNil(t, b.cookie)
}

func TestFormFlow(t *testing.T) {
	b := &browser{t: t, srv: newTestServer(t)}
	b.get("/")

	rec := b.postForm("/plan", url.Values{"text": {"Mom fell and hit head this morning"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	body := b.get("/").Body.String()
	assert.Contains(t, body, "Result: URGENT")
	assert.Contains(t, body, "Fall or head injury")
	assert.Contains(t, body, "General support")
	assert.Contains(t, body, "- Date: 2024-05-02")

	rec = b.postForm("/notes", url.Values{
		"situation":    {"Fell in the kitchen"},
		"what_helped":  {"Ice pack"},
		"observations": {"Small bump"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	notes := b.get("/notes.md")
	assert.Equal(t, http.StatusOK, notes.Code)
	assert.Equal(t, "text/plain; charset=utf-8", notes.Header().Get("Content-Type"))
	assert.Equal(t, "- Date: 2024-05-02\n"+
		"- Time: 20:15\n"+
		"- Situation: Fell in the kitchen\n"+
		"- Observations: Small bump\n"+
		"- What helped: Ice pack\n"+
		"- What didn't help: \n"+
		"- Questions for clinician: \n", notes.Body.String())

	rec = b.postForm("/clear", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NotContains(t, b.get("/").Body.String(), "Result:")
	assert.Equal(t, http.StatusNotFound, b.get("/notes.md").Code)
}

func TestNewPlanResetsNotes(t *testing.T) {
	b := &browser{t: t, srv: newTestServer(t)}
	b.postForm("/plan", url.Values{"text": {"can't sleep"}})
	b.postForm("/notes", url.Values{"situation": {"Up at 3am"}})
	b.postForm("/plan", url.Values{"text": {"can't sleep again"}})

	assert.Contains(t, b.get("/notes.md").Body.String(), "- Situation: \n")
}

func TestSessionsAreIsolated(t *testing.T) {
	srv := newTestServer(t)
	alice := &browser{t: t, srv: srv}
	bob := &browser{t: t, srv: srv}

	alice.postForm("/plan", url.Values{"text": {"chest pain"}})
	bob.get("/")

	assert.Contains(t, alice.get("/").Body.String(), "Result: EMERGENCY")
	assert.NotContains(t, bob.get("/").Body.String(), "Result:")
	assert.Equal(t, 1, srv.Sessions.Len())
}

func TestNotesWithoutPlanIgnored(t *testing.T) {
	srv := newTestServer(t)
	b := &browser{t: t, srv: srv}
	rec := b.postForm("/notes", url.Values{"situation": {"x"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 0, srv.Sessions.Len())
}

func TestPlanInputTooLarge(t *testing.T) {
	b := &browser{t: t, srv: newTestServer(t)}
	rec := b.postForm("/plan", url.Values{"text": {strings.Repeat("a", 2048)}})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestClassifyAPI(t *testing.T) {
	srv := newTestServer(t)
	body, _ := json.Marshal(pkg.ClassifyRequest{Text: "They seem restless in the evening and won't eat much. I'm feeling overwhelmed."})
	req := httptest.NewRequest(http.MethodPost, "/api/classify", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var plan pkg.Plan
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&plan))
	assert.Equal(t, pkg.TierRoutine, plan.Tier)
	assert.Equal(t, []string{core.NoUrgentKeywords}, plan.Reasons)
	require.Len(t, plan.Topics, 3)
	assert.Equal(t, "Caregiver stress / burnout", plan.Topics[2].Name)
}

func TestClassifyAPIErrors(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		name   string
		method string
		body   string
		code   int
	}{
		{"bad json", http.MethodPost, "{", http.StatusBadRequest},
		{"too large", http.MethodPost, `{"text":"` + strings.Repeat("a", 2048) + `"}`, http.StatusRequestEntityTooLarge},
		{"wrong method", http.MethodGet, "", http.StatusMethodNotAllowed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, "/api/classify", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestNotesTemplateAPI(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/notes/template", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var notes pkg.Notes
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&notes))
	assert.Equal(t, pkg.Notes{Date: "2024-05-02", Time: "20:15"}, notes)
}

func TestRouting(t *testing.T) {
	srv := newTestServer(t)
	tests := []struct {
		method string
		path   string
		code   int
	}{
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/missing", http.StatusNotFound},
		{http.MethodGet, "/plan", http.StatusMethodNotAllowed},
		{http.MethodPost, "/", http.StatusMethodNotAllowed},
	}
	for _, tc := range tests {
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.code, rec.Code, "%s %s", tc.method, tc.path)
	}
}
