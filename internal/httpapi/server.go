package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/triagekit/triage/internal/logging"
	"github.com/triagekit/triage/internal/runtime"
	"github.com/triagekit/triage/pkg/domain"
)

// Server exposes the engine over HTTP.
type Server struct {
	engine  *runtime.Engine
	logger  *slog.Logger
	version string
}

// Option configures the server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// NewHandler builds the chi router for the engine.
func NewHandler(engine *runtime.Engine, opts ...Option) http.Handler {
	s := &Server{
		engine:  engine,
		logger:  logging.NewNop(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/info", s.info)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/dispatch", s.dispatch)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.listSessions)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Post("/commands", s.executeCommand)
			r.Post("/undo", s.undo)
			r.Get("/history", s.history)
			r.Delete("/", s.deleteSession)
		})
	})

	return r
}

type dispatchRequest struct {
	Kind    string         `json:"kind"`
	Level   int            `json:"level"`
	Payload map[string]any `json:"payload,omitempty"`
}

type commandRequest struct {
	Command string         `json:"command"`
	Args    map[string]any `json:"args,omitempty"`
}

type undoResponse struct {
	Undone  bool   `json:"undone"`
	Command string `json:"command,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request) {
	var body dispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Kind) == "" {
		s.writeError(w, r, http.StatusBadRequest, "kind is required")
		return
	}
	if body.Level < 0 {
		s.writeError(w, r, http.StatusBadRequest, "level must be non-negative")
		return
	}

	req := domain.NewRequest(body.Kind, body.Level, body.Payload)
	outcome, err := s.engine.Dispatch(r.Context(), req)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "dispatch failed", "request_id", req.ID, "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "dispatch failed")
		return
	}

	// Unhandled is a domain outcome, not an HTTP failure.
	s.writeJSON(w, r, http.StatusOK, outcome)
}

func (s *Server) executeCommand(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	var body commandRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(body.Command) == "" {
		s.writeError(w, r, http.StatusBadRequest, "command is required")
		return
	}

	err := s.engine.Execute(r.Context(), sessionID, body.Command, body.Args)
	switch {
	case errors.Is(err, domain.ErrUnknownCommand):
		s.writeError(w, r, http.StatusNotFound, err.Error())
	case err != nil:
		s.logger.ErrorContext(r.Context(), "execute failed",
			"session_id", sessionID, "command", body.Command, "err", err)
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		s.writeJSON(w, r, http.StatusCreated, map[string]string{
			"session_id": sessionID,
			"command":    body.Command,
		})
	}
}

func (s *Server) undo(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	name, err := s.engine.Undo(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrNothingToUndo):
		// An empty history is a normal answer, not an error.
		s.writeJSON(w, r, http.StatusOK, undoResponse{Undone: false, Reason: "history is empty"})
	case err != nil:
		s.logger.ErrorContext(r.Context(), "undo failed", "session_id", sessionID, "err", err)
		s.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		s.writeJSON(w, r, http.StatusOK, undoResponse{Undone: true, Command: name})
	}
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	journal, err := s.engine.History(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		s.writeError(w, r, http.StatusNotFound, "session not found")
	case err != nil:
		s.logger.ErrorContext(r.Context(), "history failed", "session_id", sessionID, "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "history lookup failed")
	default:
		s.writeJSON(w, r, http.StatusOK, journal)
	}
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := s.engine.DeleteSession(r.Context(), sessionID); err != nil {
		s.logger.ErrorContext(r.Context(), "delete failed", "session_id", sessionID, "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.engine.Sessions(r.Context())
	if err != nil {
		s.logger.ErrorContext(r.Context(), "list sessions failed", "err", err)
		s.writeError(w, r, http.StatusInternalServerError, "list failed")
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, r, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"app":      "triage",
		"version":  strings.TrimSpace(s.version),
		"handlers": s.engine.Chain().Names(),
		"commands": s.engine.Registry().Names(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(r.Context(), "response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.writeJSON(w, r, status, errorResponse{Error: msg})
}
