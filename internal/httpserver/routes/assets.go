package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
)

func init() { Register(registerAssets) }

// registerAssets mounts the asset cache under /assets. Paths are
// rewritten so the cache sees origin-relative paths.
func registerAssets(r chi.Router, d deps.Deps) {
	if d.Assets == nil {
		return
	}
	r.Handle("/assets/*", http.StripPrefix("/assets", d.Assets))
}
