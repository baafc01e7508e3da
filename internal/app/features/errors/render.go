// internal/app/features/errors/render.go
package errors

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
)

// NotFoundHandler is the router's fallback for unknown paths.
func (e *ErrorLogger) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	e.NotFound(w, r, "", httpnav.ResolveBackURL(r, "/"))
}

// RenderNotFound shows the 404 page with a message.
// If backURL is empty, it resolves a safe back URL with a default fallback.
func RenderNotFound(e *ErrorLogger, w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	e.NotFound(w, r, msg, backURL)
}

// RenderBadRequest shows the 400 page without treating it as a failure of
// the console.
func RenderBadRequest(e *ErrorLogger, w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	e.render(w, r, http.StatusBadRequest, "Permintaan tidak valid", msg, backURL)
}

// RenderServerError shows the 500 page; the caller has already logged.
func RenderServerError(e *ErrorLogger, w http.ResponseWriter, r *http.Request, msg, backURL string) {
	if backURL == "" {
		backURL = httpnav.ResolveBackURL(r, "/")
	}
	if msg == "" {
		msg = "Terjadi kesalahan pada server."
	}
	e.render(w, r, http.StatusInternalServerError, "Kesalahan server", msg, backURL)
}
