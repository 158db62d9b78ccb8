package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
	"github.com/MrSnakeDoc/websaver/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/websaver/internal/httpserver/mw"
)

func init() { Register(registerSync) }

func registerSync(r chi.Router, d deps.Deps) {
	sub := r.With(
		mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
		mw.EnforceHost(d.AllowedHosts, d.Logger),
		mw.Account(d.Coordinator),
	)
	sub.Post("/api/sync", handlers.Sync(d))
	sub.Get("/api/cache", handlers.CacheStatus(d))
	sub.Delete("/api/cache", handlers.ClearCache(d))
}
