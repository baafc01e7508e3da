// internal/app/features/analytics/source.go
//
// Package analytics is the console dashboard: stat cards and charts derived
// from the backend's users, roles, features and access logs.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/accessdeck/internal/app/features/accesslogs"
	"github.com/dalemusser/accessdeck/internal/app/features/catalog"
	"github.com/dalemusser/accessdeck/internal/app/features/roles"
	"github.com/dalemusser/accessdeck/internal/app/features/users"
	"github.com/dalemusser/accessdeck/internal/app/system/apiclient"
	"github.com/dalemusser/accessdeck/internal/app/system/mockapi"
	"github.com/dalemusser/accessdeck/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Snapshot is the raw data a dashboard is computed from.
type Snapshot struct {
	Users    []models.User
	Roles    []models.Role
	Features []models.Feature
	Logs     []models.AccessLog
}

// Source produces snapshots.
type Source interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// LiveSource reads the four collections from the backend in parallel.
type LiveSource struct {
	API apiclient.Lister
}

func (s LiveSource) Snapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Users, err = apiclient.FetchList[models.User](ctx, s.API, users.Path, nil)
		return wrap("users", err)
	})
	g.Go(func() (err error) {
		snap.Roles, err = apiclient.FetchList[models.Role](ctx, s.API, roles.Path, nil)
		return wrap("roles", err)
	})
	g.Go(func() (err error) {
		snap.Features, err = apiclient.FetchList[models.Feature](ctx, s.API, catalog.Path, nil)
		return wrap("features", err)
	})
	g.Go(func() (err error) {
		snap.Logs, err = apiclient.FetchList[models.AccessLog](ctx, s.API, accesslogs.Path, nil)
		return wrap("access logs", err)
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("analytics: fetch %s: %w", what, err)
}

// MockSource serves the built-in fixture data, independent of the
// configured backend. Access log times are relative to Now.
type MockSource struct {
	live LiveSource
}

// NewMockSource seeds a private in-memory backend.
func NewMockSource(now func() time.Time, logger *zap.Logger) (*MockSource, error) {
	if now == nil {
		now = time.Now
	}
	srv, err := mockapi.New(mockapi.Options{Logger: logger, Now: now})
	if err != nil {
		return nil, fmt.Errorf("analytics: mock source: %w", err)
	}
	api, err := apiclient.New(apiclient.Config{
		BaseURL:    mockapi.BaseURL,
		HTTPClient: srv.Client(),
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("analytics: mock source: %w", err)
	}
	return &MockSource{live: LiveSource{API: api}}, nil
}

func (s *MockSource) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.live.Snapshot(ctx)
}
