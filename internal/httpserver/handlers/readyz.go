package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz reports readiness: the local store must answer the probe.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := d.LocalStore != nil && d.LocalStore.IsAvailable()

		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		_ = json.NewEncoder(w).Encode(readyzResponse{Ready: ready})
	}
}
