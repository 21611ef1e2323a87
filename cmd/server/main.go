package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/xctimer/internal/api"
	"github.com/mcoot/xctimer/internal/config"
	"github.com/mcoot/xctimer/internal/factory"
	"github.com/mcoot/xctimer/internal/web"
)

func main() {
	cfg, err := config.Load(config.Options{
		ConfigFile: os.Getenv(config.EnvPrefix + "_CONFIG"),
		EnvFile:    ".env",
	})
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Level was checked by Load
	level, _ := cfg.Level()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := factory.New(ctx, cfg.Factory(logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	apiRouter := api.NewRouter(api.RouterConfig{
		Logger:      logger,
		Store:       app.Store,
		Navigator:   app.Navigator,
		Sharing:     app.Sharing,
		Scoring:     app.Scoring,
		Metrics:     app.Metrics,
		Hub:         app.Hub,
		Saves:       app.Persister,
		StorageType: app.StorageType,
		CORSOrigins: cfg.CORSOrigins,
	})

	webRouter := web.NewRouter(web.RouterConfig{
		Logger:    logger,
		Store:     app.Store,
		Navigator: app.Navigator,
		Sharing:   app.Sharing,
		Hub:       app.Hub,
	})

	// Combine routers
	mux := http.NewServeMux()
	mux.Handle("/api/", apiRouter)
	mux.Handle("/metrics", app.Metrics.Handler())
	mux.Handle("/", webRouter)

	server := api.NewServer(mux, cfg.Server(), logger)
	logger.Info("server configured",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.String("key", cfg.StorageKey),
	)

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		stop()
		_ = app.Close()
		os.Exit(1)
	}

	logger.Info("server stopped")
}
