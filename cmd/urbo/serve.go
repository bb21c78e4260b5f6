package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/urbo/internal/api/http"
	"github.com/i474232898/urbo/internal/config"
	"github.com/i474232898/urbo/internal/planning"
	"github.com/i474232898/urbo/internal/planning/providers"
	"github.com/i474232898/urbo/internal/scheduler"
	"github.com/i474232898/urbo/internal/store"
	"github.com/i474232898/urbo/internal/store/migrations"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return serve(cmd.Context(), cfg)
	},
}

func serve(parent context.Context, cfg *config.AppConfig) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	service := planning.NewService(st, buildProviders(cfg, httpClient))

	sched := scheduler.New(cfg.WarmAddresses, cfg.WarmKeywords, cfg.WarmInterval, service)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	app := httpapi.NewApp(service, httpapi.Options{
		CORSOrigins: cfg.CORSOrigins,
		AccessLog:   true,
	})

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", slog.String("port", cfg.Port), slog.String("store", cfg.StoreDriver))
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("error during shutdown", slog.Any("error", err))
	}
	return nil
}

func openStore(ctx context.Context, cfg *config.AppConfig) (planning.Store, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		slog.Warn("using in-memory store; records are lost on restart")
		return store.NewMemoryStore(), func() {}, nil
	}

	pool, err := store.NewConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.RunMigrationsUp(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	pg := store.NewPostgresStore(pool)
	return pg, pg.Close, nil
}

func buildProviders(cfg *config.AppConfig, client *http.Client) planning.Providers {
	var geocoder planning.Geocoder
	switch cfg.GeocodeProvider {
	case config.GeocodeProviderGoogle:
		geocoder = providers.NewGoogleGeocoder(cfg.GoogleAPIKey)
	default:
		geocoder = providers.NewHereGeocoder(client, cfg.HereAPIKey, cfg.GeocodeURL, cfg.ReverseGeocodeURL)
	}

	tokens := providers.NewTokenSource(client, cfg.TokenURL, cfg.ClientID, cfg.ClientSecret)
	return planning.Providers{
		Geocoder:   geocoder,
		Places:     providers.NewMapplsPlaces(client, tokens, cfg.NearbyPlacesURL),
		AirQuality: providers.NewOpenWeatherAirQuality(client, cfg.OpenWeatherAPIKey, cfg.AirPollutionURL),
		StaticMap:  providers.NewMapplsStillMap(client, cfg.StillMapAPIKey, cfg.StillMapURL),
	}
}
