// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/accessdeck/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// RenderFunc writes a named page template.
type RenderFunc func(w http.ResponseWriter, r *http.Request, name string, data any)

// pageData is the basic view model for error pages.
type pageData struct {
	viewdata.BaseVM

	Status  int
	Message string
	Detail  string
}

// ErrorLogger logs a failure and answers the request with a friendly page.
// Handlers hold one and call it instead of writing errors themselves.
type ErrorLogger struct {
	Log    *zap.Logger
	Render RenderFunc
}

// NewErrorLogger constructs an ErrorLogger that renders through the
// shared template engine.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorLogger{Log: logger, Render: renderPage}
}

func renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	templates.Render(w, r, name, data)
}

// LogServerError logs err at error level and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	if userMsg == "" {
		userMsg = "Terjadi kesalahan pada server."
	}
	e.render(w, r, http.StatusInternalServerError, "Kesalahan server", userMsg, backURL)
}

// LogBadRequest logs at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg, backURL string) {
	e.Log.Warn(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	if userMsg == "" {
		userMsg = "Permintaan tidak valid."
	}
	e.render(w, r, http.StatusBadRequest, "Permintaan tidak valid", userMsg, backURL)
}

// NotFound renders a 404 page without logging.
func (e *ErrorLogger) NotFound(w http.ResponseWriter, r *http.Request, userMsg, backURL string) {
	if userMsg == "" {
		userMsg = "Halaman atau data yang dicari tidak ditemukan."
	}
	e.render(w, r, http.StatusNotFound, "Tidak ditemukan", userMsg, backURL)
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, status int, title, msg, backURL string) {
	if backURL == "" {
		backURL = "/"
	}
	data := pageData{
		BaseVM:  viewdata.NewBaseVM(r, title, backURL),
		Status:  status,
		Message: msg,
	}
	w.WriteHeader(status)
	e.Render(w, r, "error_page", data)
}
