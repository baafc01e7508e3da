// internal/app/features/auditlog/handler.go
//
// Package auditlog shows the console's recorded audit events.
package auditlog

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/accessdeck/internal/app/features/errors"
	"github.com/dalemusser/accessdeck/internal/app/store/audit"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// EventStore is the part of audit.Store the list page reads.
type EventStore interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

type Handler struct {
	Store  EventStore // nil when audit persistence is disabled
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Render uierrors.RenderFunc
}

// NewHandler constructs an audit log handler. A nil store renders a notice
// instead of the table.
func NewHandler(store *audit.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	h := &Handler{
		Log:    logger,
		ErrLog: errLog,
		Render: func(w http.ResponseWriter, r *http.Request, name string, data any) {
			templates.Render(w, r, name, data)
		},
	}
	if store != nil {
		h.Store = store
	}
	return h
}
