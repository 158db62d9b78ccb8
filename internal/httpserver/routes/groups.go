package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/websaver/internal/httpserver/deps"
	"github.com/MrSnakeDoc/websaver/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/websaver/internal/httpserver/mw"
)

func init() { Register(registerGroups) }

func registerGroups(r chi.Router, d deps.Deps) {
	r.Route("/api/groups", func(api chi.Router) {
		api.Use(
			mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger),
			mw.EnforceHost(d.AllowedHosts, d.Logger),
			mw.Account(d.Coordinator),
		)

		api.Get("/", handlers.ListGroups(d))
		api.Post("/", handlers.CreateGroup(d))
		api.Post("/reorder", handlers.ReorderGroups(d))
		api.Put("/{index}", handlers.RenameGroup(d))
		api.Delete("/{index}", handlers.DeleteGroup(d))

		api.Post("/{index}/keywords", handlers.AddKeyword(d))
		api.Put("/{index}/keywords/{k}", handlers.EditKeyword(d))
		api.Delete("/{index}/keywords/{k}", handlers.DeleteKeyword(d))
	})
}
