package api

import (
	"net/http"
)

func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	// API routes with method-specific routing
	mux.HandleFunc("GET /api/query", s.HandleQuery)
	mux.HandleFunc("POST /api/activate", s.HandleActivate)
	mux.HandleFunc("GET /api/config", s.HandleConfig)
	mux.HandleFunc("GET /api/providers", s.HandleListProviders)
	mux.HandleFunc("POST /api/teardown", s.HandleTeardown)
	mux.HandleFunc("GET /health", s.HandleHealth)
}
