package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/goodsone/console/internal/ability"
	"github.com/goodsone/console/internal/config"
	"github.com/goodsone/console/internal/navigation"
	"github.com/goodsone/console/internal/server"
	"github.com/goodsone/console/internal/session"
	"github.com/goodsone/console/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the console gateway",
	Long:  `Starts the HTTP server for the admin console: session, navigation, validation, backend proxy and guarded pages.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		shutdownTelemetry, err := telemetry.Init(ctx, cfg.Observability)
		if err != nil {
			return fmt.Errorf("initialize telemetry: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTelemetry(ctx); err != nil {
				log.Printf("ERROR: %v", err)
			}
		}()

		opts, closeSessions, err := routerOptions(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeSessions()

		r, err := server.NewRouter(opts)
		if err != nil {
			return fmt.Errorf("build router: %w", err)
		}

		srv := &http.Server{
			Addr:         cfg.ServerAddr,
			Handler:      otelhttp.NewHandler(r, "consoleapi"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			log.Printf("Starting server on %s", cfg.ServerAddr)
			log.Printf("Backend API: %s", cfg.APIBaseURL)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			log.Printf("Received signal %v, shutting down gracefully", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}

			log.Printf("Server stopped")
			return nil
		}
	},
}

// routerOptions resolves everything the router needs from cfg. The returned
// func releases the session backend.
func routerOptions(ctx context.Context, cfg *config.Config) (server.RouterOptions, func(), error) {
	var opts server.RouterOptions

	httpMetrics, err := telemetry.NewServerMetrics()
	if err != nil {
		return opts, nil, fmt.Errorf("create HTTP metrics: %w", err)
	}
	navMetrics, err := telemetry.NewNavigationMetrics()
	if err != nil {
		return opts, nil, fmt.Errorf("create navigation metrics: %w", err)
	}
	backendMetrics, err := telemetry.NewBackendMetrics()
	if err != nil {
		return opts, nil, fmt.Errorf("create backend metrics: %w", err)
	}

	menus := navigation.Default()
	if cfg.NavigationFile != "" {
		if menus, err = navigation.Load(cfg.NavigationFile); err != nil {
			return opts, nil, err
		}
		log.Printf("Loaded navigation menus from %s", cfg.NavigationFile)
	}

	abilities, err := ability.NewCache(cfg.AbilityCacheSize)
	if err != nil {
		return opts, nil, err
	}

	sessions, backend, err := openSessions(ctx, cfg.Session)
	if err != nil {
		return opts, nil, err
	}
	if store, ok := backend.(*session.Bun); ok && cfg.Session.TTL > 0 {
		go pruneIdle(ctx, store, cfg.Session.TTL, time.Hour)
	}
	closeSessions := func() {
		if backend == nil {
			return
		}
		if err := backend.Close(); err != nil {
			log.Printf("ERROR: close session backend: %v", err)
		}
	}
	log.Printf("Session driver: %s", cfg.Session.Driver)

	corsOpts := server.DefaultCORSOptions()
	corsOpts.AllowedOrigins = cfg.CORSOrigins

	opts = server.RouterOptions{
		Sessions:   sessions,
		Menus:      menus,
		Abilities:  abilities,
		APIBaseURL: cfg.APIBaseURL,
		LoginPath:  cfg.LoginPath,
		HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
		PrivilegedRoles: cfg.PrivilegedRoles,
		MaxRedirects:    cfg.MaxRedirects,
		Progress:        telemetry.NewNavigationProgress(navMetrics),
		HTTPMetrics:     httpMetrics,
		BackendMetrics:  backendMetrics,
		CORSOptions:     &corsOpts,
	}
	return opts, closeSessions, nil
}
