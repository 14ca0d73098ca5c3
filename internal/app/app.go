package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"classpick/internal/config"
	"classpick/internal/handler"
	"classpick/internal/middleware"
	"classpick/internal/repository"
	"classpick/internal/router"
	"classpick/internal/service"
	"classpick/internal/telemetry"
)

const serviceName = "classpick-mockapi"

// App is the development backend: the election API held entirely in memory.
type App struct {
	server       *http.Server
	cleanupFuncs []func(context.Context) error
}

// NewHandler assembles the backend without binding a port; tests serve it with httptest.
func NewHandler(cfg *config.MockAPIConfig) (http.Handler, error) {
	users := repository.NewUserRepository()
	campaigns := repository.NewCampaignRepository()
	votes := repository.NewVoteRepository()

	authService, err := service.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, users)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	electionService := service.NewElectionService(users, campaigns, votes)

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Campaign: handler.NewCampaignHandler(electionService),
		Vote:     handler.NewVoteHandler(electionService),
	})

	return otelhttp.NewHandler(appRouter, serviceName), nil
}

func New(cfg *config.MockAPIConfig) (*App, error) {
	shutdownTelemetry := telemetry.Setup(serviceName)

	h, err := NewHandler(cfg)
	if err != nil {
		_ = shutdownTelemetry(context.Background())
		return nil, err
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		cleanupFuncs: []func(context.Context) error{shutdownTelemetry},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		if err := cleanup(ctx); err != nil {
			slog.Warn("cleanup failed", "error", err)
		}
	}

	slog.Info("server stopped")
	return nil
}
