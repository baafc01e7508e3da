// cmd/mockapi runs the in-memory access-control backend on its own, for
// pointing a console started with api_mode=live at a local fixture.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dalemusser/accessdeck/internal/app/system/mockapi"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "mockapi",
	Short: "In-memory access-control backend",
	Long: `mockapi serves every endpoint the AccessDeck console uses from an
in-memory store seeded with a YAML fixture.

Examples:
  # Serve the embedded fixture on :8081 without token checks
  mockapi serve

  # Require bearer tokens and print the demo pair to paste into /connect
  mockapi serve --require-token
  mockapi token`,
	SilenceUsage: true,
}

var (
	seedPath     string
	secret       string
	tokenTTL     time.Duration
	addr         string
	requireToken bool
	latency      time.Duration
	verbose      bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&seedPath, "seed", "", "Fixture YAML file (default: embedded seed)")
	rootCmd.PersistentFlags().StringVar(&secret, "secret", mockapi.DefaultSecret, "HS256 signing key for issued tokens")
	rootCmd.PersistentFlags().DurationVar(&tokenTTL, "token-ttl", time.Hour, "Lifetime of issued access tokens")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the backend over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVarP(&addr, "addr", "a", ":8081", "Listen address")
	serveCmd.Flags().BoolVar(&requireToken, "require-token", false, "Reject requests without a valid bearer token")
	serveCmd.Flags().DurationVar(&latency, "latency", 0, "Delay every response")
	serveCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every request")

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Print the demo token pair as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := newServer(zap.NewNop(), false)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(srv.DemoToken())
		},
	}

	resourcesCmd := &cobra.Command{
		Use:   "resources",
		Short: "List seeded resources and their record counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv, err := newServer(zap.NewNop(), false)
			if err != nil {
				return err
			}
			for _, name := range srv.Resources() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-16s %d\n", name, len(srv.Records(name)))
			}
			return nil
		},
	}

	rootCmd.AddCommand(serveCmd, tokenCmd, resourcesCmd)
}

func newServer(logger *zap.Logger, require bool) (*mockapi.Server, error) {
	var seed []byte
	if seedPath != "" {
		b, err := os.ReadFile(seedPath)
		if err != nil {
			return nil, fmt.Errorf("read seed: %w", err)
		}
		seed = b
	}
	return mockapi.New(mockapi.Options{
		Logger:       logger,
		Seed:         seed,
		Secret:       secret,
		TokenTTL:     tokenTTL,
		RequireToken: require,
	})
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := zap.NewProduction()
	if verbose {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	srv, err := newServer(logger, requireToken)
	if err != nil {
		return err
	}
	srv.SetLatency(latency)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("mockapi listening", zap.String("addr", addr), zap.Bool("require_token", requireToken))
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("mockapi shutting down")
	return hs.Shutdown(shutdownCtx)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
