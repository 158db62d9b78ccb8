package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
	"github.com/MrSnakeDoc/websaver/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/websaver/internal/httpserver/mw"
)

func init() { Register(registerSystem) }

func registerSystem(r chi.Router, d deps.Deps) {
	sub := r.With(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
	sub.Get("/healthz", handlers.Healthz(d))
	sub.Get("/readyz", handlers.Readyz(d))
	sub.Get("/infra", handlers.Infra(d))
}
