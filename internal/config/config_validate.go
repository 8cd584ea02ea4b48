// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateUpstreams(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	switch c.Server.Environment {
	case "development", "staging", "production", "test":
	default:
		return fmt.Errorf("ENVIRONMENT must be one of development, staging, production, test; got %q", c.Server.Environment)
	}
	if c.Server.APIPrefix != "" && !strings.HasPrefix(c.Server.APIPrefix, "/") {
		return fmt.Errorf("API_PREFIX must start with '/', got %q", c.Server.APIPrefix)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if s.CookieName == "" {
		return fmt.Errorf("COOKIE_NAME must not be empty")
	}
	if s.SessionTTL <= 0 || s.DemoSessionTTL <= 0 || s.MagicLinkTTL <= 0 {
		return fmt.Errorf("session, demo session and magic link TTLs must be positive")
	}
	if !s.RateLimitDisabled && (s.RateLimitReqs <= 0 || s.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	if c.IsProduction() {
		if !s.CookieSecure {
			return fmt.Errorf("COOKIE_SECURE must be true in production")
		}
		for _, origin := range s.CORSOrigins {
			if origin == "*" {
				return fmt.Errorf("CORS_ORIGINS must list explicit origins in production (credentials are allowed)")
			}
		}
	}
	return nil
}

func (c *Config) validateStore() error {
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	if c.Store.GCDiscardRatio <= 0 || c.Store.GCDiscardRatio >= 1 {
		return fmt.Errorf("store.gc_discard_ratio must be in (0, 1), got %v", c.Store.GCDiscardRatio)
	}
	return nil
}

func (c *Config) validateUpstreams() error {
	if err := validateHTTPURL(c.Identity.ExchangeURL, "IDENTITY_EXCHANGE_URL"); err != nil {
		return err
	}
	if c.Identity.Timeout <= 0 {
		return fmt.Errorf("IDENTITY_TIMEOUT must be positive")
	}
	if c.LLM.Enabled() {
		if err := validateHTTPURL(c.LLM.BaseURL, "LLM_BASE_URL"); err != nil {
			return err
		}
		if c.LLM.Model == "" {
			return fmt.Errorf("LLM_MODEL is required when LLM_API_KEY is set")
		}
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	if c.LLM.BreakerFailureRatio <= 0 || c.LLM.BreakerFailureRatio > 1 {
		return fmt.Errorf("llm.breaker_failure_ratio must be in (0, 1], got %v", c.LLM.BreakerFailureRatio)
	}
	if c.Email.ResendAPIKey != "" && c.Email.FromAddress == "" {
		return fmt.Errorf("EMAIL_FROM is required when RESEND_API_KEY is set")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.MinQueryLength < 1 {
		return fmt.Errorf("MIN_QUERY_LENGTH must be at least 1, got %d", r.MinQueryLength)
	}
	if r.ValidationTimeout <= 0 || r.SynthesisTimeout <= 0 {
		return fmt.Errorf("VALIDATION_TIMEOUT and SYNTHESIS_TIMEOUT must be positive")
	}
	bounds := []struct {
		name     string
		min, max int
	}{
		{"top_nodes", r.TopNodesMin, r.TopNodesMax},
		{"secondary_nodes", r.SecondaryNodesMin, r.SecondaryNodesMax},
		{"links", r.LinksMin, r.LinksMax},
	}
	for _, b := range bounds {
		if b.min < 0 || b.max < b.min {
			return fmt.Errorf("recommend.%s bounds invalid: min=%d max=%d", b.name, b.min, b.max)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https, got %q", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s must include a host, got %q", name, raw)
	}
	return nil
}
