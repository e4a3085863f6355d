// Package config loads server settings from defaults, an optional YAML file
// and RESISTANCE_* environment variables, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/aaronzipp/distance-resistance/internal/game"
	"github.com/aaronzipp/distance-resistance/internal/log"
)

// Config holds everything main needs to run the server
type Config struct {
	ListenAddr         string        `yaml:"listen_addr" env:"RESISTANCE_LISTEN_ADDR"`
	PublicBaseURL      string        `yaml:"public_base_url" env:"RESISTANCE_PUBLIC_BASE_URL"`
	NamesFile          string        `yaml:"names_file" env:"RESISTANCE_NAMES_FILE"`
	LogLevel           string        `yaml:"log_level" env:"RESISTANCE_LOG_LEVEL"`
	SessionCodeLength  int           `yaml:"session_code_length" env:"RESISTANCE_SESSION_CODE_LENGTH"`
	SSEBufferSize      int           `yaml:"sse_buffer_size" env:"RESISTANCE_SSE_BUFFER_SIZE"`
	SSETimeout         time.Duration `yaml:"sse_timeout" env:"RESISTANCE_SSE_TIMEOUT"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute" env:"RESISTANCE_RATE_LIMIT_PER_MINUTE"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout" env:"RESISTANCE_SHUTDOWN_TIMEOUT"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ListenAddr:         ":8080",
		PublicBaseURL:      "http://localhost:8080",
		NamesFile:          "assets/names.txt",
		LogLevel:           "info",
		SessionCodeLength:  game.RoomCodeLength,
		SSEBufferSize:      game.SSEBufferSize,
		SSETimeout:         game.SSETimeoutSeconds * time.Second,
		RateLimitPerMinute: 120,
		ShutdownTimeout:    10 * time.Second,
	}
}

// Load applies the YAML file at path (skipped when empty) and the environment
// on top of Default, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := mergeFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logger := log.WithComponent("config")
	logger.Debug().
		Str("listen_addr", cfg.ListenAddr).
		Str("names_file", cfg.NamesFile).
		Str("file", path).
		Msg("configuration loaded")
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the server cannot run with
func (c Config) Validate() error {
	var errs []error
	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen_addr must not be empty"))
	}
	if c.SessionCodeLength < 4 {
		errs = append(errs, fmt.Errorf("session_code_length must be at least 4, got %d", c.SessionCodeLength))
	}
	if c.SSEBufferSize < 1 {
		errs = append(errs, fmt.Errorf("sse_buffer_size must be positive, got %d", c.SSEBufferSize))
	}
	if c.SSETimeout <= 0 {
		errs = append(errs, errors.New("sse_timeout must be positive"))
	}
	if c.RateLimitPerMinute < 0 {
		errs = append(errs, fmt.Errorf("rate_limit_per_minute must not be negative, got %d", c.RateLimitPerMinute))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
