// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/accessdeck/internal/app/resources"
	"github.com/dalemusser/accessdeck/internal/app/system/timeouts"
	"github.com/dalemusser/accessdeck/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Medium: appCfg.APITimeout,
		Long:   2 * appCfg.APITimeout,
	})
	viewdata.Init(appCfg.SiteName, appCfg.MockMode())

	logger.Info("accessdeck configured",
		zap.String("api_mode", appCfg.APIMode),
		zap.String("analytics_source", appCfg.AnalyticsSource),
		zap.Bool("audit_store", deps.MongoDatabase != nil),
		zap.Duration("api_timeout", timeouts.Medium()))
	return nil
}
