// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

// Package config loads StarMaps configuration from defaults, an optional YAML
// file and environment variables (in that order of precedence, lowest first).
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Store     StoreConfig     `koanf:"store"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Identity  IdentityConfig  `koanf:"identity"`
	LLM       LLMConfig       `koanf:"llm"`
	Recommend RecommendConfig `koanf:"recommend"`
	Email     EmailConfig     `koanf:"email"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
	APIPrefix       string        `koanf:"api_prefix"`
	Version         string        `koanf:"version"`
}

// SecurityConfig holds session, cookie, CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	CookieName        string        `koanf:"cookie_name"`
	CookieSecure      bool          `koanf:"cookie_secure"`
	CookieDomain      string        `koanf:"cookie_domain"`
	SessionTTL        time.Duration `koanf:"session_ttl"`
	DemoSessionTTL    time.Duration `koanf:"demo_session_ttl"`
	MagicLinkTTL      time.Duration `koanf:"magic_link_ttl"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	AuthRateLimitReqs int           `koanf:"auth_rate_limit_reqs"`
}

// StoreConfig holds the embedded BadgerDB settings.
type StoreConfig struct {
	Path           string        `koanf:"path"`
	InMemory       bool          `koanf:"in_memory"`
	GCInterval     time.Duration `koanf:"gc_interval"`
	GCDiscardRatio float64       `koanf:"gc_discard_ratio"`
}

// CatalogConfig lists additional catalog sources merged after the built-in data.
type CatalogConfig struct {
	ExtraPaths []string `koanf:"extra_paths"`
}

// IdentityConfig points at the external identity provider's session exchange endpoint.
type IdentityConfig struct {
	ExchangeURL string        `koanf:"exchange_url"`
	Timeout     time.Duration `koanf:"timeout"`
}

// LLMConfig configures the OpenAI-compatible generative service.
type LLMConfig struct {
	BaseURL    string        `koanf:"base_url"`
	APIKey     string        `koanf:"api_key"`
	Model      string        `koanf:"model"`
	ImageModel string        `koanf:"image_model"`
	Timeout    time.Duration `koanf:"timeout"`

	// RequestsPerSecond paces outbound calls; 0 disables pacing.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// Enabled reports whether generative features are configured.
func (c LLMConfig) Enabled() bool {
	return c.APIKey != ""
}

// RecommendConfig tunes query validation and graph synthesis.
type RecommendConfig struct {
	MinQueryLength      int           `koanf:"min_query_length"`
	ValidationCacheSize int           `koanf:"validation_cache_size"`
	ValidationCacheTTL  time.Duration `koanf:"validation_cache_ttl"`
	ValidationTimeout   time.Duration `koanf:"validation_timeout"`
	SynthesisTimeout    time.Duration `koanf:"synthesis_timeout"`
	TopNodesMin         int           `koanf:"top_nodes_min"`
	TopNodesMax         int           `koanf:"top_nodes_max"`
	SecondaryNodesMin   int           `koanf:"secondary_nodes_min"`
	SecondaryNodesMax   int           `koanf:"secondary_nodes_max"`
	LinksMin            int           `koanf:"links_min"`
	LinksMax            int           `koanf:"links_max"`
}

// EmailConfig enables magic-link delivery through Resend.
type EmailConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	FromAddress  string `koanf:"from_address"`
	FromName     string `koanf:"from_name"`
	MagicLinkURL string `koanf:"magic_link_url"`
}

// Enabled reports whether outbound email is configured.
func (c EmailConfig) Enabled() bool {
	return c.ResendAPIKey != "" && c.FromAddress != ""
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
