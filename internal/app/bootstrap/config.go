// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Backend and analytics modes.
const (
	APIModeLive = "live"
	APIModeMock = "mock"
)

// appConfigKeys defines the configuration keys for AccessDeck.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: api_base_url, session_name, etc.
//   - Environment variables: ACCESSDECK_API_BASE_URL, ACCESSDECK_SESSION_NAME, etc.
//   - Command-line flags: --api_base_url, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "site_name", Default: "AccessDeck", Desc: "Name shown in the console header"},

	// Backend
	{Name: "api_mode", Default: APIModeMock, Desc: "Backend: 'live' (api_base_url) or 'mock' (built-in)"},
	{Name: "api_base_url", Default: "http://localhost:8081", Desc: "Backend root URL (live mode)"},
	{Name: "api_timeout", Default: "15s", Desc: "Timeout for a single backend call (e.g., 10s, 1m)"},
	{Name: "items_per_page", Default: 10, Desc: "Default rows per list page"},

	// Session
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "accessdeck-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Session cookie lifetime"},

	// Confirmation tokens
	{Name: "confirm_key", Default: "", Desc: "Signing key for delete confirmations (blank uses session_key)"},
	{Name: "confirm_ttl", Default: "10m", Desc: "How long a delete confirmation stays valid"},

	{Name: "operator_password_hash", Default: "", Desc: "bcrypt hash of the operator passphrase (blank disables)"},
	{Name: "analytics_source", Default: APIModeLive, Desc: "Dashboard data: 'live' (backend) or 'mock' (fixtures)"},

	// Audit persistence
	{Name: "mongo_uri", Default: "", Desc: "MongoDB connection URI for audit events (blank disables)"},
	{Name: "mongo_database", Default: "accessdeck", Desc: "MongoDB database name"},
	{Name: "audit_log", Default: "all", Desc: "Audit logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, ACCESSDECK_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ACCESSDECK", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		SiteName: appValues.String("site_name"),

		APIMode:      appValues.String("api_mode"),
		APIBaseURL:   appValues.String("api_base_url"),
		APITimeout:   appValues.Duration("api_timeout", 15*time.Second),
		ItemsPerPage: appValues.Int("items_per_page"),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),
		SessionMaxAge: appValues.Duration("session_max_age", 12*time.Hour),

		ConfirmKey: appValues.String("confirm_key"),
		ConfirmTTL: appValues.Duration("confirm_ttl", 10*time.Minute),

		OperatorPasswordHash: appValues.String("operator_password_hash"),
		AnalyticsSource:      appValues.String("analytics_source"),

		MongoURI:      appValues.String("mongo_uri"),
		MongoDatabase: appValues.String("mongo_database"),
		AuditLog:      appValues.String("audit_log"),
	}

	if appCfg.ConfirmKey == "" {
		appCfg.ConfirmKey = appCfg.SessionKey
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.APIMode {
	case APIModeLive:
		u, err := url.Parse(appCfg.APIBaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("api_base_url must be an absolute http(s) URL, got %q", appCfg.APIBaseURL)
		}
	case APIModeMock:
	default:
		return fmt.Errorf("api_mode must be 'live' or 'mock', got %q", appCfg.APIMode)
	}

	if appCfg.AnalyticsSource != APIModeLive && appCfg.AnalyticsSource != APIModeMock {
		return fmt.Errorf("analytics_source must be 'live' or 'mock', got %q", appCfg.AnalyticsSource)
	}

	if appCfg.ItemsPerPage <= 0 {
		return fmt.Errorf("items_per_page must be positive, got %d", appCfg.ItemsPerPage)
	}

	if len(appCfg.ConfirmKey) < 32 {
		return fmt.Errorf("confirm_key must be at least 32 bytes, got %d", len(appCfg.ConfirmKey))
	}

	if appCfg.OperatorPasswordHash != "" {
		if _, err := bcrypt.Cost([]byte(appCfg.OperatorPasswordHash)); err != nil {
			return fmt.Errorf("operator_password_hash is not a bcrypt hash: %w", err)
		}
	}

	switch appCfg.AuditLog {
	case "all", "db", "log", "off":
	default:
		return fmt.Errorf("audit_log must be one of all, db, log, off; got %q", appCfg.AuditLog)
	}

	if appCfg.MongoURI != "" {
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	} else if appCfg.AuditLog == "db" {
		logger.Warn("audit_log is 'db' but mongo_uri is blank; audit events will be dropped")
	}

	return nil
}
