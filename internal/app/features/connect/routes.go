package connect

import (
	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeConnect)
	r.Post("/", h.HandleConnect)
	r.Post("/disconnect", h.HandleDisconnect)
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireConnected)
		pr.Post("/refresh", h.HandleRefresh)
	})
	return r
}
