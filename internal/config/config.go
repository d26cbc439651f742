package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"apollonode/internal/apollo"
)

// Environment variables read by Load.
const (
	EnvAPIKey       = "APOLLO_API_KEY"
	EnvBaseURL      = "APOLLO_BASE_URL"
	EnvRateLimitRPS = "APOLLO_RATE_LIMIT_RPS"
	EnvHTTPTimeout  = "APOLLO_HTTP_TIMEOUT"
	EnvLogLevel     = "APOLLO_LOG_LEVEL"
)

// ErrMissingAPIKey is returned by RequireAPIKey when no credential is configured.
var ErrMissingAPIKey = errors.New("no Apollo API key configured (set " + EnvAPIKey + " or api_key)")

// Config is the host configuration.
type Config struct {
	APIKey       string        `yaml:"api_key"`
	BaseURL      string        `yaml:"base_url"`
	RateLimitRPS float64       `yaml:"rate_limit_rps"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"`
	LogLevel     string        `yaml:"log_level"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		BaseURL:     apollo.DefaultBaseURL,
		HTTPTimeout: 30 * time.Second,
		LogLevel:    "info",
	}
}

// Options selects the sources Load reads. Empty paths are skipped.
type Options struct {
	ConfigFile  string
	SecretsFile string

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Load builds a Config from defaults, the YAML file, the environment and the
// secrets file, each layer overriding the one before.
func Load(opts Options) (Config, error) {
	cfg := Default()
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if opts.ConfigFile != "" {
		data, err := os.ReadFile(opts.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", opts.ConfigFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file %s: %w", opts.ConfigFile, err)
		}
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}

	if opts.SecretsFile != "" {
		secrets, err := LoadSecrets(opts.SecretsFile)
		if err != nil {
			return Config{}, err
		}
		if err := cfg.applyEnv(lookupIn(secrets)); err != nil {
			return Config{}, fmt.Errorf("secrets file %s: %w", opts.SecretsFile, err)
		}
	}

	if cfg.RateLimitRPS < 0 {
		return Config{}, fmt.Errorf("rate_limit_rps must be >= 0, got %v", cfg.RateLimitRPS)
	}
	if cfg.HTTPTimeout < 0 {
		return Config{}, fmt.Errorf("http_timeout must be >= 0, got %s", cfg.HTTPTimeout)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func lookupIn(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := strings.TrimSpace(getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.LogLevel = v
	}
	if v := strings.TrimSpace(getenv(EnvRateLimitRPS)); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", EnvRateLimitRPS, v, err)
		}
		c.RateLimitRPS = f
	}
	if v := strings.TrimSpace(getenv(EnvHTTPTimeout)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", EnvHTTPTimeout, v, err)
		}
		c.HTTPTimeout = d
	}
	return nil
}

// RequireAPIKey fails when the configuration carries no credential.
func (c Config) RequireAPIKey() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
	}
}
