package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
)

type componentStatus struct {
	OK       bool   `json:"ok"`
	Mode     string `json:"mode,omitempty"`
	Impact   string `json:"impact,omitempty"`
	Error    string `json:"error,omitempty"`
	Groups   *int   `json:"groups,omitempty"`
	Keywords *int   `json:"keywords,omitempty"`
	Assets   *int   `json:"assets,omitempty"`
	Name     string `json:"name,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of every storage and sync tier.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		col := d.Coordinator.Snapshot()
		groups := len(col)
		keywords := col.KeywordCount()

		components := map[string]componentStatus{
			"collection": {
				OK:       groups > 0,
				Groups:   &groups,
				Keywords: &keywords,
			},
			"local_store": checkLocalStore(d),
			"remote":      checkRedis(d),
			"asset_cache": checkAssets(d),
		}

		response := infraResponse{
			Mode:       determineMode(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// determineMode summarizes the tiers: critical without durable storage,
// degraded without the cloud, synced otherwise.
func determineMode(components map[string]componentStatus) string {
	if ls, exists := components["local_store"]; exists && !ls.OK {
		return "critical"
	}
	if remote, exists := components["remote"]; exists && !remote.OK {
		return "degraded"
	}
	return "synced"
}

func checkLocalStore(d deps.Deps) componentStatus {
	if d.LocalStore == nil || !d.LocalStore.IsAvailable() {
		return componentStatus{
			OK:     false,
			Mode:   "memory-only",
			Impact: "data-not-persisted",
			Error:  "storage probe failed",
		}
	}
	return componentStatus{OK: true, Mode: "durable"}
}

func checkRedis(d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "local-only",
			Impact: "cloud-sync-disabled",
			Error:  "client not initialized",
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "offline",
			Impact: "cloud-sync-unavailable",
			Error:  "timeout",
		}
	}
	return componentStatus{OK: true, Mode: "online"}
}

func checkAssets(d deps.Deps) componentStatus {
	if d.AssetStats == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "no-offline-shell",
		}
	}
	generation, count := d.AssetStats()
	return componentStatus{
		OK:     true,
		Name:   generation,
		Assets: &count,
	}
}
