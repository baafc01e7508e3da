package analytics

import (
	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the dashboard. Everything requires a connection.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireConnected)
		pr.Get("/", h.ServeDashboard)
		pr.Get("/charts/{name}", h.ServeChart)
	})
	return r
}
