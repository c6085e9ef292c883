// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"ANIMAP_DB_PATH" envDefault:"./data/animap.db"`
	ServerHost string `env:"ANIMAP_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"ANIMAP_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"ANIMAP_ENV" envDefault:"development"`
	LogLevel   string `env:"ANIMAP_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL    string `env:"ANIMAP_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix string `env:"ANIMAP_CACHE_PREFIX" envDefault:"animap:"` // Redis key prefix
	CacheTTL    int    `env:"ANIMAP_CACHE_TTL" envDefault:"3600"`     // Default cache TTL in seconds

	// Translation provider configuration
	OpenAIAPIKey   string  `env:"ANIMAP_OPENAI_API_KEY"`
	TranslateModel string  `env:"ANIMAP_TRANSLATE_MODEL" envDefault:"gpt-4o-mini"`
	TranslateRPS   float64 `env:"ANIMAP_TRANSLATE_RPS" envDefault:"2"` // Requests per second to the provider

	// GlossaryPath points at the YAML glossary of protected terms.
	// Empty means no term protection.
	GlossaryPath string `env:"ANIMAP_GLOSSARY_PATH"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// TranslationEnabled returns true if the translation provider is configured.
func (c Config) TranslationEnabled() bool {
	return c.OpenAIAPIKey != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("ANIMAP_SERVER_PORT out of range: %d", cfg.ServerPort)
	}
	if cfg.TranslateRPS < 0 {
		return nil, fmt.Errorf("ANIMAP_TRANSLATE_RPS must not be negative")
	}

	return cfg, nil
}
