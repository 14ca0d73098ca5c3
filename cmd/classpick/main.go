package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"classpick/internal/cli"
	"classpick/internal/config"
	"classpick/internal/logger"
	"classpick/internal/telemetry"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	level, err := config.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		slog.Warn("unknown log level, using info", "value", cfg.LogLevel)
	}
	slog.SetDefault(slog.New(logger.NewPrettyHandler(os.Stderr, &logger.Options{
		Level:   level,
		NoColor: cfg.NoColor,
	})))

	shutdown := telemetry.Setup("classpick")
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.New(cfg, os.Stdin, os.Stdout)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}

	if err := app.Run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		slog.Debug("command failed", "error", err)
		return 1
	}

	return 0
}
