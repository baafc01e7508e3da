// internal/app/features/home/routes.go
package home

import "github.com/go-chi/chi/v5"

// Routes serves the console root. Mounted at "/" so unknown paths fall
// through to the router's not-found handler.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeRoot)
	return r
}
