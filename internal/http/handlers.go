package http

import (
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	"caregiver-support/internal/core"
	"caregiver-support/pkg"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server bundles together the dependencies required by HTTP handlers.  It
// implements http.Handler so it can be passed to http.Server.
type Server struct {
	Classifier    *core.Classifier
	Sessions      *SessionStore
	Templates     *template.Template
	Logger        *slog.Logger
	MaxInputBytes int64
	// Now stamps new notes templates; tests replace it.
	Now func() time.Time
}

// NewServer constructs a Server and parses the embedded HTML templates.
func NewServer(classifier *core.Classifier, sessions *SessionStore, logger *slog.Logger, maxInputBytes int64) (*Server, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		Classifier:    classifier,
		Sessions:      sessions,
		Templates:     tmpl,
		Logger:        logger,
		MaxInputBytes: maxInputBytes,
		Now:           time.Now,
	}, nil
}

// ServeHTTP dispatches incoming requests based on the URL path.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		if s.allow(w, r, http.MethodGet) {
			s.handleIndex(w, r)
		}
	case "/plan":
		if s.allow(w, r, http.MethodPost) {
			s.handleGeneratePlan(w, r)
		}
	case "/clear":
		if s.allow(w, r, http.MethodPost) {
			s.handleClear(w, r)
		}
	case "/notes":
		if s.allow(w, r, http.MethodPost) {
			s.handleUpdateNotes(w, r)
		}
	case "/notes.md":
		if s.allow(w, r, http.MethodGet) {
			s.handleNotesText(w, r)
		}
	case "/api/classify":
		if s.allow(w, r, http.MethodPost) {
			s.handleClassifyAPI(w, r)
		}
	case "/api/notes/template":
		if s.allow(w, r, http.MethodGet) {
			s.handleNotesTemplateAPI(w, r)
		}
	case "/healthz":
		io.WriteString(w, "ok")
	default:
		http.NotFound(w, r)
	}
}

// allow answers 405 unless r uses method.
func (s *Server) allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

type indexData struct {
	Disclaimer string
	Text       string
	Plan       *pkg.Plan
	Notes      pkg.Notes
	NotesText  string
}

// handleIndex renders the form together with whatever the session last
// generated.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	id := sessionID(w, r)
	state, _ := s.Sessions.Get(id)
	data := indexData{
		Disclaimer: core.Disclaimer,
		Text:       state.Text,
		Plan:       state.Plan,
		Notes:      state.Notes,
	}
	if state.Plan != nil {
		data.NotesText = core.FormatNotes(state.Notes)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.Logger.Error("render index", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}

// handleGeneratePlan classifies the submitted description and starts a
// fresh notes template for it.
func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	id := sessionID(w, r)
	text := r.FormValue("text")
	plan := s.Classifier.Classify(text)
	s.Sessions.Put(id, pageState{
		Text:  text,
		Plan:  &plan,
		Notes: core.NewNotesTemplateAt(s.Now()),
	})
	s.logPlan("form", plan)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleClear drops the session's plan and notes.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.Sessions.Delete(sessionID(w, r))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleUpdateNotes stores the caregiver's edits to the notes fields.  Notes
// only exist alongside a plan, so edits without one are ignored.
func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	if !s.parseForm(w, r) {
		return
	}
	id := sessionID(w, r)
	if state, ok := s.Sessions.Get(id); ok && state.Plan != nil {
		state.Notes.Situation = r.FormValue("situation")
		state.Notes.Observations = r.FormValue("observations")
		state.Notes.WhatHelped = r.FormValue("what_helped")
		state.Notes.WhatDidntHelp = r.FormValue("what_didnt_help")
		state.Notes.QuestionsForClinician = r.FormValue("questions_for_clinician")
		s.Sessions.Put(id, state)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleNotesText returns the session's notes in the copy/paste layout.
func (s *Server) handleNotesText(w http.ResponseWriter, r *http.Request) {
	state, ok := s.Sessions.Get(sessionID(w, r))
	if !ok || state.Plan == nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, core.FormatNotes(state.Notes))
}

// handleClassifyAPI is the stateless JSON form of the classifier.
func (s *Server) handleClassifyAPI(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxInputBytes)
	var req pkg.ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "description too long", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	plan := s.Classifier.Classify(req.Text)
	s.logPlan("api", plan)
	writeJSON(w, plan)
}

// handleNotesTemplateAPI returns a fresh notes template.
func (s *Server) handleNotesTemplateAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, core.NewNotesTemplateAt(s.Now()))
}

// parseForm limits and parses a form body, answering 413 or 400 itself when
// it fails.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxInputBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "description too long", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(w, "invalid form", http.StatusBadRequest)
		return false
	}
	return true
}

// logPlan records the outcome of a classification.  The description itself
// is never logged.
func (s *Server) logPlan(via string, plan pkg.Plan) {
	s.Logger.Info("plan generated",
		"via", via,
		"tier", plan.Tier,
		"reasons", len(plan.Reasons),
		"topics", len(plan.Topics),
	)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
