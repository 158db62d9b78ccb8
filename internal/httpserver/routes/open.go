package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
	"github.com/MrSnakeDoc/websaver/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/websaver/internal/httpserver/mw"
)

func init() { Register(registerOpen) }

func registerOpen(r chi.Router, d deps.Deps) {
	r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Get("/open", handlers.Open(d))
}
