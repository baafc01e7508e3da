// internal/app/features/crud/routes.go
package crud

import (
	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts an entity's pages under the path where this router is
// mounted (its Definition's slug, from bootstrap).
//
//	h := crud.NewHandler(api, roles.Definition(), deps)
//	r.Mount("/roles", crud.Routes(h, sessionMgr))
func Routes[T any](h *Handler[T], sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireConnected)

		pr.Get("/", h.ServeList)
		pr.Get("/{id}", h.ServeView)

		if h.Def.ReadOnly {
			return
		}

		pr.Get("/new", h.ServeNew)
		pr.Post("/", h.HandleCreate)

		pr.Get("/{id}/edit", h.ServeEdit)
		pr.Post("/{id}/edit", h.HandleEdit)

		pr.Get("/{id}/delete", h.ServeDelete)
		pr.Post("/{id}/delete", h.HandleDelete)

		pr.Post("/{id}/actions/{action}", h.HandleAction)
	})

	return r
}
