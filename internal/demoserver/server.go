// Package demoserver is a self-contained backend for local use: it serves
// the problem catalog, student login, progress and attempt recording from
// memory.
package demoserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/mutabayinat/internal/curriculum"
	"github.com/abhisek/mutabayinat/internal/problem"
)

// Options configures a Server.
type Options struct {
	// LogRequests enables the access log on stdout.
	LogRequests bool
}

// Server holds students and their progress in memory.
type Server struct {
	catalog *Catalog
	opts    Options

	mu       sync.Mutex
	students map[string]problem.Student
	progress map[string]problem.Progress
}

// New creates a Server over cat.
func New(cat *Catalog, opts Options) *Server {
	return &Server{
		catalog:  cat,
		opts:     opts,
		students: make(map[string]problem.Student),
		progress: make(map[string]problem.Progress),
	}
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.opts.LogRequests {
		r.Use(middleware.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/student-login", s.login)
		api.Get("/problems/section/{sectionID}", s.sectionProblems)
		api.Get("/problems/{problemID}", s.problem)
		api.Get("/students/{username}/progress", s.studentProgress)
		api.Post("/students/{username}/attempt", s.attempt)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type loginRequest struct {
	Username  string `json:"username"`
	ClassName string `json:"class_name"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.ClassName = strings.TrimSpace(req.ClassName)
	if req.Username == "" || req.ClassName == "" {
		writeError(w, r, http.StatusBadRequest, "username and class_name are required")
		return
	}

	s.mu.Lock()
	st, ok := s.students[req.Username]
	if !ok || st.ClassName != req.ClassName {
		st = problem.Student{Username: req.Username, ClassName: req.ClassName, DisplayName: req.Username}
		s.students[req.Username] = st
	}
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, st)
}

func (s *Server) sectionProblems(w http.ResponseWriter, r *http.Request) {
	sec := chi.URLParam(r, "sectionID")
	list := s.catalog.Section(sec)
	if len(list) == 0 {
		writeError(w, r, http.StatusNotFound, "unknown section "+sec)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) problem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "problemID")
	p, ok := s.catalog.Problem(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown problem "+id)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) studentProgress(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "username")

	s.mu.Lock()
	prog := s.progress[user].Clone()
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, problem.StudentProgress{
		Progress:    prog,
		TotalPoints: s.points(prog),
		Badges:      badges(prog),
	})
}

func (s *Server) attempt(w http.ResponseWriter, r *http.Request) {
	user := chi.URLParam(r, "username")

	var a problem.Attempt
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if a.HintsUsed < 0 || a.Score < 0 || a.Score > 100 {
		writeError(w, r, http.StatusUnprocessableEntity, "hints_used and score out of range")
		return
	}
	p, ok := s.catalog.Problem(a.ProblemID)
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown problem "+a.ProblemID)
		return
	}

	score := a.Score
	if score == 0 {
		score = 100
	}

	s.mu.Lock()
	prog := s.progress[user]
	if prog == nil {
		prog = problem.Progress{}
		s.progress[user] = prog
	}
	sp := prog[p.SectionID]
	if sp == nil {
		sp = problem.SectionProgress{}
		prog[p.SectionID] = sp
	}
	rec := sp[p.ID]
	rec.Completed = true
	rec.Attempts++
	rec.Score = max(rec.Score, score)
	sp[p.ID] = rec
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, problem.AttemptResult{Attempts: rec.Attempts, Score: rec.Score})
}

// points weighs each completed problem's score by the problem's weight.
func (s *Server) points(prog problem.Progress) float64 {
	var total float64
	for _, sp := range prog {
		for id, rec := range sp {
			if !rec.Completed {
				continue
			}
			if p, ok := s.catalog.Problem(id); ok {
				total += float64(p.Weight) * float64(rec.Score) / 100
			}
		}
	}
	return total
}

// badges awards one badge per fully completed section, in curriculum order.
func badges(prog problem.Progress) []string {
	out := []string{}
	for _, sec := range curriculum.Sections() {
		done := true
		for _, id := range sec.Stages {
			if !prog.Completed(sec.ID, id) {
				done = false
				break
			}
		}
		if done {
			out = append(out, sec.ID+"-complete")
		}
	}
	return out
}

type errorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg, RequestID: middleware.GetReqID(r.Context())})
}
