// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like:
//   - HTTP/HTTPS ports and TLS configuration
//   - Logging level and format
//   - CORS settings
//   - Request body size limits
//
// AppConfig carries the console's own settings: where the backend lives,
// how operators' tokens are kept, and where audit events go.
type AppConfig struct {
	// Backend
	APIMode    string        // "live" talks to APIBaseURL; "mock" uses the built-in backend
	APIBaseURL string        // e.g. https://access.example.com
	APITimeout time.Duration // bound for a single list fetch or mutation

	// Lists
	ItemsPerPage int

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: accessdeck-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Cookie lifetime

	// Delete confirmation tokens
	ConfirmKey string // falls back to SessionKey when blank
	ConfirmTTL time.Duration

	// Operator passphrase (bcrypt hash); blank disables the check
	OperatorPasswordHash string

	// Dashboard data: "live" (backend) or "mock" (fixtures)
	AnalyticsSource string

	// MongoDB audit store; blank URI disables persistence
	MongoURI      string
	MongoDatabase string

	// Audit logging: "all" (db+log), "db", "log", or "off"
	AuditLog string

	SiteName string
}

// MockMode reports whether the console runs against the built-in backend.
func (c AppConfig) MockMode() bool { return c.APIMode == APIModeMock }

// AuditEnabled reports whether events are persisted to MongoDB.
func (c AppConfig) AuditEnabled() bool { return c.MongoURI != "" }
