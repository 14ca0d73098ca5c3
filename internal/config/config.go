package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// Config drives the classpick client.
type Config struct {
	APIBaseURL     string
	StateDir       string
	ConfigFile     string
	RequestTimeout time.Duration
	RateLimitRPM   int
	ApplyPath      string
	Locale         string
	LogLevel       string
	NoColor        bool
}

// fileConfig mirrors Config in the optional YAML file; durations are written as "30s".
type fileConfig struct {
	APIBaseURL     string `yaml:"api_url"`
	StateDir       string `yaml:"state_dir"`
	RequestTimeout string `yaml:"request_timeout"`
	RateLimitRPM   *int   `yaml:"rate_limit_rpm"`
	ApplyPath      string `yaml:"apply_path"`
	Locale         string `yaml:"locale"`
	LogLevel       string `yaml:"log_level"`
	NoColor        *bool  `yaml:"no_color"`
}

// Load reads .env, then the YAML file named by CLASSPICK_CONFIG (default <state dir>/config.yaml,
// skipped when absent), then the environment, which wins.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:   "http://localhost:3000",
		StateDir:     defaultStateDir(),
		RateLimitRPM: 120,
		ApplyPath:    "/apply-delegate",
		Locale:       "fr",
		LogLevel:     "warn",
	}
	cfg.StateDir = getEnv("CLASSPICK_STATE_DIR", cfg.StateDir)

	explicit := strings.TrimSpace(os.Getenv("CLASSPICK_CONFIG"))
	cfg.ConfigFile = explicit
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = filepath.Join(cfg.StateDir, "config.yaml")
	}
	if err := cfg.loadFile(cfg.ConfigFile, explicit != ""); err != nil {
		return nil, err
	}

	cfg.APIBaseURL = getEnv("CLASSPICK_API_URL", cfg.APIBaseURL)
	cfg.StateDir = getEnv("CLASSPICK_STATE_DIR", cfg.StateDir)
	cfg.RequestTimeout = getDuration("CLASSPICK_REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.RateLimitRPM = getInt("CLASSPICK_RATE_LIMIT_RPM", cfg.RateLimitRPM)
	cfg.ApplyPath = getEnv("CLASSPICK_APPLY_PATH", cfg.ApplyPath)
	cfg.Locale = getEnv("CLASSPICK_LOCALE", cfg.Locale)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.NoColor = cfg.NoColor || strings.TrimSpace(os.Getenv("NO_COLOR")) != ""

	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.APIBaseURL != "" {
		c.APIBaseURL = fc.APIBaseURL
	}
	if fc.StateDir != "" {
		c.StateDir = fc.StateDir
	}
	if fc.RequestTimeout != "" {
		timeout, err := time.ParseDuration(fc.RequestTimeout)
		if err != nil {
			return fmt.Errorf("config file request_timeout: %w", err)
		}
		c.RequestTimeout = timeout
	}
	if fc.RateLimitRPM != nil {
		c.RateLimitRPM = *fc.RateLimitRPM
	}
	if fc.ApplyPath != "" {
		c.ApplyPath = fc.ApplyPath
	}
	if fc.Locale != "" {
		c.Locale = fc.Locale
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.NoColor != nil {
		c.NoColor = *fc.NoColor
	}

	return nil
}

func (c *Config) Validate() error {
	parsed, err := url.Parse(c.APIBaseURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return fmt.Errorf("CLASSPICK_API_URL must be an http(s) URL, got %q", c.APIBaseURL)
	}

	if strings.TrimSpace(c.StateDir) == "" {
		return fmt.Errorf("CLASSPICK_STATE_DIR cannot be empty")
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("CLASSPICK_REQUEST_TIMEOUT cannot be negative")
	}

	if c.RateLimitRPM < 0 {
		return fmt.Errorf("CLASSPICK_RATE_LIMIT_RPM cannot be negative")
	}

	if !strings.HasPrefix(c.ApplyPath, "/") {
		return fmt.Errorf("CLASSPICK_APPLY_PATH must start with /")
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".classpick"
	}

	return filepath.Join(home, ".classpick")
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
