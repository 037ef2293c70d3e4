// Package config provides configuration loading for the lightspun server:
// optional YAML file, environment-variable overrides, sane defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Search   SearchConfig   `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds Postgres connection settings. Empty DSN selects the
// in-memory store.
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int    `yaml:"max_conns"`
}

// SearchConfig holds fuzzy matching thresholds.
type SearchConfig struct {
	MinSimilarity float64 `yaml:"min_similarity"`
	SoundexBoost  float64 `yaml:"soundex_boost"`
	DefaultLimit  int     `yaml:"default_limit"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8000},
		Database: DatabaseConfig{
			DSN:      "",
			MaxConns: 10,
		},
		Search: SearchConfig{
			MinSimilarity: 0.3,
			SoundexBoost:  0.8,
			DefaultLimit:  10,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// when non-empty, then environment variables. Later sources win.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.Search.MinSimilarity < 0 || cfg.Search.MinSimilarity > 1 {
		return nil, fmt.Errorf("search.min_similarity must be between 0.0 and 1.0, got %v", cfg.Search.MinSimilarity)
	}
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return nil, fmt.Errorf("server.port %d out of range", cfg.Server.Port)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Debug = getEnvBool("LIGHTSPUN_DEBUG", cfg.Debug)
	cfg.Server.Host = getEnv("LIGHTSPUN_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvInt("LIGHTSPUN_PORT", cfg.Server.Port)
	cfg.Database.DSN = getEnv("DATABASE_URL", cfg.Database.DSN)
	cfg.Database.MaxConns = getEnvInt("LIGHTSPUN_DB_MAX_CONNS", cfg.Database.MaxConns)
	cfg.Search.MinSimilarity = getEnvFloat("LIGHTSPUN_MIN_SIMILARITY", cfg.Search.MinSimilarity)
	cfg.Search.SoundexBoost = getEnvFloat("LIGHTSPUN_SOUNDEX_BOOST", cfg.Search.SoundexBoost)
	cfg.Search.DefaultLimit = getEnvInt("LIGHTSPUN_DEFAULT_LIMIT", cfg.Search.DefaultLimit)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}
