package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/docdex/docdex/pkg/core"
	"github.com/docdex/docdex/pkg/engine"
	"github.com/docdex/docdex/pkg/log"
)

// Server exposes the query engine over HTTP. It is one possible host for
// the engine; the engine itself is transport-agnostic.
type Server struct {
	engine   *engine.Engine
	registry *core.Registry
	logger   *log.Logger
}

func NewServer(eng *engine.Engine, registry *core.Registry) *Server {
	return &Server{
		engine:   eng,
		registry: registry,
		logger:   log.For("api"),
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Errorf("encoding JSON response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, error, message string) {
	response := ErrorResponse{
		Error:   error,
		Message: message,
	}
	s.writeJSON(w, status, response)
}

func CorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequestIDMiddleware tags every request with an id, echoed in the
// X-Request-ID header and the request log line.
func RequestIDMiddleware(next http.Handler) http.Handler {
	logger := log.For("api")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		logger.Debugf("%s %s %s", requestID, r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
