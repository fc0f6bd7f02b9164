// Package server implements the HTTP endpoint that serves conversation
// history to chat clients.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/diogo/typechat/internal/models"
)

// Server handles the conversations API.
type Server struct {
	source Source
	logger *slog.Logger
}

// New builds the HTTP handler, with logging and CORS middleware applied.
func New(source Source, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{source: source, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc(models.PathConversations, s.handleConversations)
	mux.HandleFunc(models.PathHealth, s.handleHealth)

	return chainMiddlewares(mux,
		withCORS,
		withLogging(logger),
	)
}

func (s *Server) handleConversations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	h, err := s.source.Conversations(r.Context())
	if err != nil {
		s.logger.Error("error loading conversations", "error", err)
		h = models.History{}
	}
	if h == nil {
		h = models.History{}
	}
	writeJSON(w, http.StatusOK, models.HistoryPayload{Conversations: h})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func methodNotAllowed(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodGet)
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// NewHTTPServer wraps handler with the timeouts used by `typechat serve`.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
