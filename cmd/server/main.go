package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/brightpages/brightpages/pkg/cms/api"
	"github.com/brightpages/brightpages/pkg/cms/config"
)

func main() {
	// .env is optional; deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	setupLogger(cfg.Environment)

	ctx := context.Background()
	app, err := cfg.Build(ctx)
	if err != nil {
		slog.Error("failed to build application", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	requestLogger := httplog.NewLogger("brightpages", httplog.Options{
		LogLevel: slog.LevelInfo,
		Concise:  true,
	})

	httpServer := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.Port),
		Handler: api.NewRouter(api.RouterConfig{
			Service: app.Service,
			Auth: api.AuthConfig{
				AdminEmail:    cfg.Auth.AdminEmail,
				AdminPassword: cfg.Auth.AdminPassword,
				TokenSecret:   cfg.Auth.TokenSecret,
				TokenTTL:      cfg.Auth.TokenTTL,
			},
			AllowedOrigins: cfg.CORSAllowedOrigins,
			UploadMaxBytes: cfg.UploadMaxBytes,
			Logger:         requestLogger,
		}),
	}

	go func() {
		slog.Info("brightpages backend starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"storage_backend", cfg.Storage.Backend)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exiting")
}

// setupLogger installs the process-wide slog logger: colorized text in
// development, JSON everywhere else.
func setupLogger(environment string) {
	var handler slog.Handler
	if environment == "development" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))
}
