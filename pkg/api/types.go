package api

import (
	"time"

	"github.com/docdex/docdex/pkg/engine"
)

type QueryResponse struct {
	Query   string              `json:"query"`
	Results []engine.QueryEntry `json:"results"`
	Count   int                 `json:"count"`
}

type ActivateRequest struct {
	Reference string `json:"reference"`
}

type ProviderInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type ListProvidersResponse struct {
	Providers []ProviderInfo `json:"providers"`
	Count     int            `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
