package handlers

import (
	"net/http"
	"strings"

	"github.com/MrSnakeDoc/websaver/internal/domain"
	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
	"github.com/MrSnakeDoc/websaver/internal/logger"
)

// Open redirects a keyword to its destination: the URL itself for
// navigable keywords, a web search for free-text terms.
func Open(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := strings.TrimSpace(r.URL.Query().Get("q"))
		if q == "" {
			writeError(w, http.StatusBadRequest, "missing q parameter")
			return
		}

		// Prefer the stored keyword when the query matches one, so the
		// destination reflects what the user saved.
		if stored, ok := d.Coordinator.Snapshot().FindKeyword(q); ok {
			q = stored
		}

		target := domain.OpenURL(q, d.SearchURL)
		d.Logger.Info("open request",
			logger.String("q", q),
			logger.String("target", target))
		http.Redirect(w, r, target, http.StatusFound)
	}
}
