// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Notice lifetimes outside this window are rejected.
const (
	MinNoticeTTL = 2 * time.Second
	MaxNoticeTTL = 5 * time.Second
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Server  ServerConfig
	Backend BackendConfig
	Notice  NoticeConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds the front-end HTTP server configuration.
type ServerConfig struct {
	Port         string        // default: 8080
	ReadTimeout  time.Duration // default: 15s
	WriteTimeout time.Duration // default: 15s
	IdleTimeout  time.Duration // default: 60s
	// AllowedOrigins feeds the CORS policy of the notice endpoints. Empty means same-origin only.
	AllowedOrigins []string
	// FormRatePerMinute and FormBurst bound form submissions per client IP.
	FormRatePerMinute int
	FormBurst         int
}

// BackendConfig describes the library API the front end talks to.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// NoticeConfig holds notification settings.
type NoticeConfig struct {
	TTL time.Duration
}

// Load reads configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("library-web", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	port := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	origins := fs.String("allowed-origins", "", "Comma separated CORS origins for notice endpoints")
	formRate := fs.String("form-rate", "", "Form submissions per minute per client (default: 60)")
	backendURL := fs.String("backend-url", "", "Base URL of the library API (default: http://localhost:8081)")
	backendTimeout := fs.String("backend-timeout", "", "Timeout of one backend call (default: 10s)")
	noticeTTL := fs.String("notice-ttl", "", "How long a notification stays visible (2s..5s, default: 5s)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// A missing .env file is fine; variables already in the environment win.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:              getConfigValue(*port, "SERVER_PORT", "8080"),
			AllowedOrigins:    splitList(getConfigValue(*origins, "ALLOWED_ORIGINS", "")),
			FormRatePerMinute: getIntConfigValue(*formRate, "FORM_RATE_PER_MINUTE", 60),
			FormBurst:         getIntConfigValue("", "FORM_BURST", 10),
		},
		Backend: BackendConfig{
			BaseURL: strings.TrimSuffix(getConfigValue(*backendURL, "BACKEND_URL", "http://localhost:8081"), "/"),
			RPS:     getFloatConfigValue("", "BACKEND_RPS", 20),
			Burst:   getIntConfigValue("", "BACKEND_BURST", 40),
		},
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		dst       *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*backendTimeout, "BACKEND_TIMEOUT", "10s", &cfg.Backend.Timeout},
		{*noticeTTL, "NOTICE_TTL", "5s", &cfg.Notice.TTL},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dst = parsed
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Backend.BaseURL == "" {
		return errors.New("BACKEND_URL is required")
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend url: %q (must be an absolute http(s) url)", c.Backend.BaseURL)
	}

	if c.Backend.RPS <= 0 || c.Backend.Burst <= 0 {
		return errors.New("backend rate limit must be positive")
	}

	if c.Notice.TTL < MinNoticeTTL || c.Notice.TTL > MaxNoticeTTL {
		return fmt.Errorf("invalid notice ttl: %s (must be between %s and %s)", c.Notice.TTL, MinNoticeTTL, MaxNoticeTTL)
	}

	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result float64
	if _, err := fmt.Sscanf(strValue, "%g", &result); err != nil {
		return defaultValue
	}
	return result
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
