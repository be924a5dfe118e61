package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/docdex/docdex/pkg/engine"
	"github.com/docdex/docdex/pkg/version"
)

func (s *Server) HandleQuery(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "Missing query parameter", "Query parameter 'q' is required")
		return
	}

	entries, err := s.engine.Query(r.Context(), query)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Query failed", err.Error())
		return
	}

	engine.SortEntries(entries)

	response := QueryResponse{
		Query:   query,
		Results: entries,
		Count:   len(entries),
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleActivate(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := s.engine.Activate(r.Context(), req.Reference); err != nil {
		if errors.Is(err, engine.ErrMalformedReference) {
			s.writeError(w, http.StatusBadRequest, "Malformed reference", err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "Activation failed", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.HostConfig())
}

func (s *Server) HandleListProviders(w http.ResponseWriter, r *http.Request) {
	providers := s.registry.AllProviders()

	infos := make([]ProviderInfo, 0, len(providers))
	for _, p := range providers {
		infos = append(infos, ProviderInfo{
			Name: p.Name(),
			Type: p.Type(),
		})
	}

	response := ListProvidersResponse{
		Providers: infos,
		Count:     len(infos),
	}
	s.writeJSON(w, http.StatusOK, response)
}

func (s *Server) HandleTeardown(w http.ResponseWriter, r *http.Request) {
	s.engine.Teardown()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   version.APIVersion(),
	}
	s.writeJSON(w, http.StatusOK, response)
}
