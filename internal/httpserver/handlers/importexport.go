package handlers

import (
	"io"
	"net/http"

	"github.com/MrSnakeDoc/websaver/internal/domain"
	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
	"github.com/MrSnakeDoc/websaver/internal/logger"
)

const maxImportSize = 4 << 20 // 4 MiB

// Export serves the collection as a pretty-printed JSON download.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := d.Coordinator.Export()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "export failed")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="`+domain.ExportFileName+`"`)
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(data); err != nil {
			d.Logger.Debug("failed to write export", logger.Error(err))
		}
	}
}

// Import validates the uploaded collection all-or-nothing and merges it
// into the current one (keyword union on name-matched groups).
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read body")
			return
		}
		if err := d.Coordinator.Import(r.Context(), payload); err != nil {
			writeDomainError(w, err)
			return
		}
		d.Logger.Info("collection imported", logger.Int("bytes", len(payload)))
		writeJSON(w, http.StatusOK, renderGroups(d.Coordinator.Snapshot(), d.SearchURL))
	}
}
