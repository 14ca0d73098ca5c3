package main

import (
	"log/slog"
	"os"

	"classpick/internal/app"
	"classpick/internal/config"
	"classpick/internal/logger"
)

func main() {
	cfg, err := config.LoadMockAPI()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	level, _ := config.ParseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(logger.NewPrettyHandler(os.Stdout, &logger.Options{
		Level:   level,
		NoColor: os.Getenv("NO_COLOR") != "",
	})))

	application, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
