// Package api exposes the criteria-to-report pipeline over HTTP. The surface
// is thin; all behavior lives in app.
package api

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"

	"claimsql/app"
	apperrors "claimsql/internal/errors"
	"claimsql/internal/usage"
	"claimsql/ports"
)

// Server hosts the JSON endpoints around the pipeline.
type Server struct {
	router   *chi.Mux
	pipeline *app.Pipeline
	sessions ports.SessionRepository
	tracker  *usage.Tracker
	port     string
}

// NewServer wires the routes and middleware.
func NewServer(pipeline *app.Pipeline, sessions ports.SessionRepository, tracker *usage.Tracker, port string) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		pipeline: pipeline,
		sessions: sessions,
		tracker:  tracker,
		port:     port,
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes() {
	s.router.Get("/ping", s.handlePing)
	s.router.Post("/invocations", s.handleInvocation)
	s.router.Get("/runs/{ticket}", s.handleRun)
	s.router.Get("/usage", s.handleUsage)
}

// Start blocks serving HTTP on the configured port.
func (s *Server) Start() error {
	addr := ":" + s.port
	log.Printf("[API] Listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUsage reports the in-process token and latency aggregates.
func (s *Server) handleUsage(w http.ResponseWriter, r *http.Request) {
	if s.tracker == nil {
		writeJSON(w, http.StatusOK, usage.Summary{})
		return
	}
	writeJSON(w, http.StatusOK, s.tracker.Summarize())
}

func (s *Server) handleInvocation(w http.ResponseWriter, r *http.Request) {
	var req app.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.RequestTime == "" {
		req.RequestTime = time.Now().UTC().Format("20060102150405")
	}

	outcome := s.pipeline.Run(r.Context(), req)
	writeJSON(w, http.StatusOK, outcome)
}

// runView is the session record shaped for API consumers, comments rendered
// to HTML so portal clients can display them directly.
type runView struct {
	TicketID     string `json:"ticket_id"`
	Status       string `json:"status"`
	Comments     string `json:"comments"`
	CommentsHTML string `json:"comments_html"`
	SQLQuery     string `json:"sql_query"`
	ReportPath   string `json:"report_file_path"`
	InputTokens  int    `json:"input_token_count"`
	OutputTokens int    `json:"output_token_count"`
	UpdatedAt    string `json:"updated_at"`
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	ticket := chi.URLParam(r, "ticket")
	record, err := s.sessions.GetSession(r.Context(), ticket)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "run not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load run"})
		return
	}

	writeJSON(w, http.StatusOK, runView{
		TicketID:     record.TicketID,
		Status:       record.Status,
		Comments:     record.Comments,
		CommentsHTML: renderComments(record.Comments),
		SQLQuery:     record.SQLQuery,
		ReportPath:   record.ReportPath,
		InputTokens:  record.InputTokens,
		OutputTokens: record.OutputTokens,
		UpdatedAt:    record.UpdatedAt.Format(time.RFC3339),
	})
}

func renderComments(comments string) string {
	if comments == "" {
		return ""
	}
	parser := mdparser.NewWithExtensions(mdparser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return string(markdown.ToHTML([]byte(comments), parser, renderer))
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}
