// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/accessdeck/internal/app/store/audit"
	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Connection controls logging for connect, disconnect and token refresh.
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Connection string
	// Mutation controls logging for create, update, status and delete calls
	// sent to the backend. Same values as Connection.
	Mutation string
}

// Logger records audit events to MongoDB (via audit.Store) and to
// structured logs (via zap). A nil store means zap only.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}
	if event.Operator != "" {
		fields = append(fields, zap.String("operator", event.Operator))
	}
	if event.Resource != "" {
		fields = append(fields, zap.String("resource", event.Resource))
	}
	if event.ResourceID != "" {
		fields = append(fields, zap.String("resource_id", event.ResourceID))
	}
	if event.Method != "" {
		fields = append(fields, zap.String("method", event.Method), zap.String("path", event.Path))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryConnection:
		setting = l.config.Connection
	case audit.CategoryMutation:
		setting = l.config.Mutation
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" || l.store == nil {
		l.logToZap(event)
	}

	if l.store != nil && (setting == "all" || setting == "db") {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

func base(r *http.Request, category, eventType string) audit.Event {
	ev := audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
	if c, ok := auth.CurrentConnection(r); ok {
		ev.Operator = c.DisplayName()
		ev.Subject = c.Claims.Subject
	}
	return ev
}

// --- Connection Events ---

// Connected logs a successful connect.
func (l *Logger) Connected(ctx context.Context, r *http.Request, c auth.Connection) {
	ev := base(r, audit.CategoryConnection, audit.EventConnected)
	ev.Operator = c.DisplayName()
	ev.Subject = c.Claims.Subject
	l.Log(ctx, ev)
}

// ConnectFailed logs a rejected connect attempt.
func (l *Logger) ConnectFailed(ctx context.Context, r *http.Request, operator, reason string) {
	ev := base(r, audit.CategoryConnection, audit.EventConnectFailed)
	ev.Operator = operator
	ev.Success = false
	ev.FailureReason = reason
	l.Log(ctx, ev)
}

// Disconnected logs a disconnect.
func (l *Logger) Disconnected(ctx context.Context, r *http.Request) {
	l.Log(ctx, base(r, audit.CategoryConnection, audit.EventDisconnected))
}

// TokenRefreshed logs a manual token refresh and its outcome.
func (l *Logger) TokenRefreshed(ctx context.Context, r *http.Request, err error) {
	ev := base(r, audit.CategoryConnection, audit.EventTokenRefresh)
	if err != nil {
		ev.Success = false
		ev.FailureReason = apiclient.UserMessage(err)
	}
	l.Log(ctx, ev)
}

// --- Mutation Events ---

// Mutation describes a write sent to the backend.
type Mutation struct {
	Resource  string // console resource name, e.g. "roles"
	ID        string // empty for creates
	EventType string
	Method    string
	Path      string
	Details   map[string]string
}

// Mutated logs a mutation. A nil err records success; otherwise the
// backend status, when there is one, goes into the details.
func (l *Logger) Mutated(ctx context.Context, r *http.Request, m Mutation, err error) {
	ev := base(r, audit.CategoryMutation, m.EventType)
	ev.Resource = m.Resource
	ev.ResourceID = m.ID
	ev.Method = m.Method
	ev.Path = m.Path
	ev.Details = m.Details
	if err != nil {
		ev.Success = false
		ev.FailureReason = apiclient.UserMessage(err)
		var se *apiclient.StatusError
		if errors.As(err, &se) {
			if ev.Details == nil {
				ev.Details = map[string]string{}
			}
			ev.Details["status"] = http.StatusText(se.Status)
		}
	}
	l.Log(ctx, ev)
}
