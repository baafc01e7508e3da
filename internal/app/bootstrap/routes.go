// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	accesslogsfeature "github.com/dalemusser/accessdeck/internal/app/features/accesslogs"
	addressesfeature "github.com/dalemusser/accessdeck/internal/app/features/addresses"
	analyticsfeature "github.com/dalemusser/accessdeck/internal/app/features/analytics"
	auditlogfeature "github.com/dalemusser/accessdeck/internal/app/features/auditlog"
	catalogfeature "github.com/dalemusser/accessdeck/internal/app/features/catalog"
	categoriesfeature "github.com/dalemusser/accessdeck/internal/app/features/categories"
	connectfeature "github.com/dalemusser/accessdeck/internal/app/features/connect"
	"github.com/dalemusser/accessdeck/internal/app/features/crud"
	errorsfeature "github.com/dalemusser/accessdeck/internal/app/features/errors"
	healthfeature "github.com/dalemusser/accessdeck/internal/app/features/health"
	homefeature "github.com/dalemusser/accessdeck/internal/app/features/home"
	phonesfeature "github.com/dalemusser/accessdeck/internal/app/features/phones"
	rolesfeature "github.com/dalemusser/accessdeck/internal/app/features/roles"
	routefeaturesfeature "github.com/dalemusser/accessdeck/internal/app/features/routefeatures"
	usersfeature "github.com/dalemusser/accessdeck/internal/app/features/users"
	"github.com/dalemusser/accessdeck/internal/app/store/audit"
	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"github.com/dalemusser/accessdeck/internal/app/system/auditlog"
	"github.com/dalemusser/accessdeck/internal/app/system/auth"
	"github.com/dalemusser/accessdeck/internal/app/system/confirm"
	"github.com/dalemusser/accessdeck/internal/app/system/mockapi"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// MockMount is where the built-in backend is exposed in mock mode.
const MockMount = "/mockapi"

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. AccessDeck boots the template engine,
// builds the backend client (or the in-process mock), and mounts one
// feature router per console section.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Initialize and boot the template engine once at startup.
	// Dev mode enables template reloading for faster iteration.
	eng := templates.New(coreCfg.Env == "dev")
	if err := eng.Boot(logger); err != nil {
		logger.Error("template engine boot failed", zap.Error(err))
		return nil, err
	}
	templates.UseEngine(eng, logger)

	return newRouter(appCfg, deps, coreCfg.Env == "prod", logger)
}

// backend is the API client plus, in mock mode, the server behind it.
type backend struct {
	client *apiclient.Client
	mock   *mockapi.Server
}

func newBackend(appCfg AppConfig, logger *zap.Logger) (backend, error) {
	if !appCfg.MockMode() {
		client, err := apiclient.New(apiclient.Config{
			BaseURL: appCfg.APIBaseURL,
			Logger:  logger,
		})
		if err != nil {
			return backend{}, err
		}
		return backend{client: client}, nil
	}

	srv, err := mockapi.New(mockapi.Options{
		Logger:       logger.Named("mockapi"),
		RequireToken: true,
	})
	if err != nil {
		return backend{}, fmt.Errorf("start mock backend: %w", err)
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL:    mockapi.BaseURL,
		HTTPClient: srv.Client(),
		Logger:     logger,
	})
	if err != nil {
		return backend{}, err
	}
	logger.Info("using built-in mock backend", zap.String("mount", MockMount))
	return backend{client: client, mock: srv}, nil
}

func newRouter(appCfg AppConfig, deps DBDeps, secure bool, logger *zap.Logger) (chi.Router, error) {
	be, err := newBackend(appCfg, logger)
	if err != nil {
		logger.Error("backend client init failed", zap.Error(err))
		return nil, err
	}

	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	issuer, err := confirm.NewIssuer(appCfg.ConfirmKey, appCfg.ConfirmTTL)
	if err != nil {
		logger.Error("confirmation issuer init failed", zap.Error(err))
		return nil, err
	}

	var auditStore *audit.Store
	if deps.MongoDatabase != nil {
		auditStore = audit.New(deps.MongoDatabase)
	}
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Connection: appCfg.AuditLog,
		Mutation:   appCfg.AuditLog,
	})

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()

	// Load the operator's connection, then put its token on every request
	// context so backend calls carry it.
	r.Use(sessionMgr.Load)
	r.Use(sessionMgr.AttachToken(be.client))

	r.NotFound(errLog.NotFoundHandler)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(be.client, deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Static assets with pre-compressed file support (gzip/brotli)
	r.Handle("/static/*", fileserver.Handler("/static", "public"))

	if be.mock != nil {
		r.Mount(MockMount, http.StripPrefix(MockMount, be.mock.Handler()))
	}

	homeHandler := homefeature.NewHandler(connectfeature.DefaultReturn, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Connection
	connectHandler := connectfeature.NewHandler(be.client, sessionMgr, auditLogger, errLog, appCfg.OperatorPasswordHash, logger)
	if be.mock != nil {
		connectHandler.Demo = be.mock.DemoToken
	}
	r.Mount(auth.ConnectPath, connectfeature.Routes(connectHandler, sessionMgr))

	// Dashboard
	var source analyticsfeature.Source = analyticsfeature.LiveSource{API: be.client}
	if appCfg.AnalyticsSource == APIModeMock {
		ms, err := analyticsfeature.NewMockSource(nil, logger)
		if err != nil {
			logger.Error("mock analytics source init failed", zap.Error(err))
			return nil, err
		}
		source = ms
	}
	analyticsHandler := analyticsfeature.NewHandler(source, errLog, logger)
	r.Mount("/analytics", analyticsfeature.Routes(analyticsHandler, sessionMgr))

	// Entity sections
	crudDeps := crud.Deps{
		Confirm:  issuer,
		AuditLog: auditLogger,
		ErrLog:   errLog,
		Log:      logger,
		PerPage:  appCfg.ItemsPerPage,
	}
	r.Mount("/users", crud.Routes(usersfeature.NewHandler(be.client, crudDeps), sessionMgr))
	r.Mount("/roles", crud.Routes(rolesfeature.NewHandler(be.client, crudDeps), sessionMgr))
	r.Mount("/categories", crud.Routes(categoriesfeature.NewHandler(be.client, crudDeps), sessionMgr))
	r.Mount("/features", crud.Routes(catalogfeature.NewHandler(be.client, crudDeps), sessionMgr))
	r.Mount("/route-features", crud.Routes(routefeaturesfeature.NewHandler(be.client, crudDeps), sessionMgr))
	r.Mount("/addresses", crud.Routes(addressesfeature.NewHandler(be.client, crudDeps), sessionMgr))
	r.Mount("/phones", crud.Routes(phonesfeature.NewHandler(be.client, crudDeps), sessionMgr))
	r.Mount("/access-logs", crud.Routes(accesslogsfeature.NewHandler(be.client, crudDeps), sessionMgr))

	// Audit history
	auditHandler := auditlogfeature.NewHandler(auditStore, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, sessionMgr))

	return r, nil
}
