// Package server exposes the review workflow over HTTP: an upload form, a
// results page, and a read-only lookup of previously saved feedback.
package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/admitlens/admitlens/internal/db"
	"github.com/admitlens/admitlens/internal/review"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed templates/*.html
var templateFS embed.FS

// Server serves the review UI.
type Server struct {
	reviewer       *review.Reviewer
	store          *db.Store
	addr           string
	maxUploadBytes int64
	tmpl           *template.Template
}

// Config holds the server's collaborators and settings.
type Config struct {
	Reviewer       *review.Reviewer
	Store          *db.Store
	Addr           string
	MaxUploadBytes int64
}

// New creates a Server.
func New(cfg Config) *Server {
	return &Server{
		reviewer:       cfg.Reviewer,
		store:          cfg.Store,
		addr:           cfg.Addr,
		maxUploadBytes: cfg.MaxUploadBytes,
		tmpl:           template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

// Handler builds the HTTP routing tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/review", s.handleReview)
	r.Get("/feedback", s.handleFeedbackForm)
	r.Post("/feedback", s.handleFeedbackLookup)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.Info("http server listening", "addr", s.addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type indexData struct {
	Error      string
	Email      string
	University string
	Program    string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", indexData{})
}

type resultData struct {
	Email      string
	University string
	Program    string
	Result     *review.Result
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		s.renderStatus(w, http.StatusBadRequest, "index.html", indexData{
			Error: "could not read the submitted form; check the upload sizes",
		})
		return
	}

	req := review.Request{
		Email:      r.FormValue("email"),
		University: r.FormValue("university"),
		Program:    r.FormValue("program"),
		Resume:     readUpload(r, "resume"),
		SOP:        readUpload(r, "sop"),
		LOR:        readUpload(r, "lor"),
	}

	result, err := s.reviewer.Run(r.Context(), req)
	if err != nil {
		var verr review.ValidationError
		if errors.As(err, &verr) {
			s.renderStatus(w, http.StatusBadRequest, "index.html", indexData{
				Error:      verr.Error(),
				Email:      req.Email,
				University: req.University,
				Program:    req.Program,
			})
			return
		}
		slog.Error("review run failed", "error", err)
		http.Error(w, "the review could not be completed", http.StatusInternalServerError)
		return
	}

	s.render(w, "result.html", resultData{
		Email:      req.Email,
		University: req.University,
		Program:    req.Program,
		Result:     result,
	})
}

type feedbackData struct {
	Error       string
	Email       string
	University  string
	Program     string
	Searched    bool
	Found       bool
	ResumeNotes string
	SOPNotes    string
	LORNotes    string
}

func (s *Server) handleFeedbackForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, "feedback.html", feedbackData{})
}

func (s *Server) handleFeedbackLookup(w http.ResponseWriter, r *http.Request) {
	email := normalizeEmail(r.FormValue("email"))
	university := trim(r.FormValue("university"))
	program := trim(r.FormValue("program"))

	data := feedbackData{
		Email:      r.FormValue("email"),
		University: r.FormValue("university"),
		Program:    r.FormValue("program"),
	}

	if email == "" || university == "" || program == "" {
		data.Error = "email, university, and program are all required"
		s.renderStatus(w, http.StatusBadRequest, "feedback.html", data)
		return
	}

	notes, err := s.store.LatestFeedback(r.Context(), email, university, program)
	if err != nil {
		slog.Error("feedback lookup failed", "error", err)
		http.Error(w, "lookup failed", http.StatusInternalServerError)
		return
	}

	data.Searched = true
	data.Found = notes.HasAny()
	data.ResumeNotes = notes.Resume.String
	data.SOPNotes = notes.SOP.String
	data.LORNotes = notes.LOR.String
	s.render(w, "feedback.html", data)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	s.renderStatus(w, http.StatusOK, name, data)
}

func (s *Server) renderStatus(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		slog.Error("render template", "template", name, "error", err)
	}
}

// readUpload reads one uploaded file. A missing or unreadable part becomes
// an empty Upload, which the reviewer rejects during validation.
func readUpload(r *http.Request, field string) review.Upload {
	file, header, err := r.FormFile(field)
	if err != nil {
		return review.Upload{}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return review.Upload{}
	}
	return review.Upload{Name: header.Filename, Data: data}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func trim(s string) string {
	return strings.TrimSpace(s)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
