package errors_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/accessdeck/internal/app/features/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type rendered struct {
	name string
	data any
}

func newLogger(t *testing.T) (*uierrors.ErrorLogger, *observer.ObservedLogs, *rendered) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	el := uierrors.NewErrorLogger(zap.New(core))
	got := &rendered{}
	el.Render = func(w http.ResponseWriter, r *http.Request, name string, data any) {
		got.name = name
		got.data = data
	}
	return el, logs, got
}

func TestLogServerError(t *testing.T) {
	el, logs, got := newLogger(t)
	req := httptest.NewRequest(http.MethodGet, "/roles", nil)
	rec := httptest.NewRecorder()

	el.LogServerError(rec, req, "list roles failed", errors.New("boom"), "", "/roles")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got.name != "error_page" {
		t.Errorf("template = %q, want error_page", got.name)
	}
	entries := logs.FilterMessage("list roles failed").All()
	if len(entries) != 1 || entries[0].Level != zapcore.ErrorLevel {
		t.Fatalf("expected one error entry, got %v", entries)
	}
	if entries[0].ContextMap()["path"] != "/roles" {
		t.Errorf("path field = %v", entries[0].ContextMap()["path"])
	}
}

func TestLogBadRequest_WarnLevel(t *testing.T) {
	el, logs, _ := newLogger(t)
	req := httptest.NewRequest(http.MethodPost, "/users", nil)
	rec := httptest.NewRecorder()

	el.LogBadRequest(rec, req, "bad form", errors.New("parse"), "Form tidak valid.", "")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if n := logs.FilterLevelExact(zapcore.WarnLevel).Len(); n != 1 {
		t.Errorf("warn entries = %d, want 1", n)
	}
}

func TestNotFound_DoesNotLog(t *testing.T) {
	el, logs, got := newLogger(t)
	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()

	el.NotFoundHandler(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if got.name != "error_page" {
		t.Errorf("template = %q", got.name)
	}
	if logs.Len() != 0 {
		t.Errorf("not found should not log, got %d entries", logs.Len())
	}
}
