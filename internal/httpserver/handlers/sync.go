package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
	"github.com/MrSnakeDoc/websaver/internal/logger"
)

// Sync triggers a manual cloud sync (the "Sync with Cloud" action).
func Sync(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.SyncTrigger == nil {
			writeError(w, http.StatusServiceUnavailable, "cloud sync is disabled")
			return
		}

		select {
		case d.SyncTrigger <- struct{}{}:
			d.Logger.Info("manual cloud sync triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusAccepted)
			if _, err := w.Write([]byte("✅ Sync triggered successfully\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		default:
			d.Logger.Warn("cloud sync already in progress",
				logger.String("remote_ip", r.RemoteAddr))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := w.Write([]byte("⏳ Sync already in progress, please wait\n")); err != nil {
				d.Logger.Debug("failed to write response", logger.Error(err))
			}
		}
	}
}

type cacheStatusResponse struct {
	Present  bool   `json:"present"`
	Version  string `json:"version,omitempty"`
	Age      string `json:"age,omitempty"`
	Fresh    bool   `json:"fresh"`
	Groups   int    `json:"groups"`
	Keywords int    `json:"keywords"`
}

// CacheStatus reports the cache envelope's version, age and contents.
func CacheStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		info, ok, err := d.LocalStore.CacheStatus()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to read cache status")
			return
		}
		if !ok {
			writeJSON(w, http.StatusOK, cacheStatusResponse{Present: false})
			return
		}
		maxAge := d.CacheMaxAge
		if maxAge <= 0 {
			maxAge = 7 * 24 * time.Hour
		}
		writeJSON(w, http.StatusOK, cacheStatusResponse{
			Present:  true,
			Version:  info.Version,
			Age:      info.Age.Truncate(time.Second).String(),
			Fresh:    info.Age <= maxAge,
			Groups:   info.Groups,
			Keywords: info.Keywords,
		})
	}
}

// ClearCache evicts the cache envelope.
func ClearCache(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.LocalStore.ClearCache(); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to clear cache")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
