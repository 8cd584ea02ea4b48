// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/starmaps/config.yaml",
	"/etc/starmaps/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultIdentityExchangeURL is the hosted identity provider's session-data endpoint.
const DefaultIdentityExchangeURL = "https://demobackend.emergentagent.com/auth/v1/env/oauth/session-data"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8001,
			Host:            "0.0.0.0",
			Timeout:         60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
			APIPrefix:       "/api",
			Version:         "2.1.0",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			CookieName:        "session_token",
			CookieSecure:      true,
			SessionTTL:        7 * 24 * time.Hour,
			DemoSessionTTL:    24 * time.Hour,
			MagicLinkTTL:      time.Hour,
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			AuthRateLimitReqs: 20,
		},
		Store: StoreConfig{
			Path:           "/data/starmaps",
			GCInterval:     10 * time.Minute,
			GCDiscardRatio: 0.5,
		},
		Identity: IdentityConfig{
			ExchangeURL: DefaultIdentityExchangeURL,
			Timeout:     10 * time.Second,
		},
		LLM: LLMConfig{
			BaseURL:             "https://api.openai.com/v1",
			Model:               "gpt-4o-mini",
			ImageModel:          "gpt-image-1",
			Timeout:             45 * time.Second,
			RequestsPerSecond:   5,
			Burst:               10,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      time.Minute,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		Recommend: RecommendConfig{
			MinQueryLength:      10,
			ValidationCacheSize: 1024,
			ValidationCacheTTL:  10 * time.Minute,
			ValidationTimeout:   15 * time.Second,
			SynthesisTimeout:    40 * time.Second,
			TopNodesMin:         4,
			TopNodesMax:         5,
			SecondaryNodesMin:   10,
			SecondaryNodesMax:   15,
			LinksMin:            25,
			LinksMax:            35,
		},
		Email: EmailConfig{
			FromName: "StarMaps",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration from defaults, the optional config file
// and environment variables, then validates it.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"catalog.extra_paths",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variables to koanf paths. Unlisted variables are ignored.
var envMappings = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",
	"api_prefix":       "server.api_prefix",

	"cors_origins":         "security.cors_origins",
	"cookie_name":          "security.cookie_name",
	"cookie_secure":        "security.cookie_secure",
	"cookie_domain":        "security.cookie_domain",
	"session_ttl":          "security.session_ttl",
	"demo_session_ttl":     "security.demo_session_ttl",
	"magic_link_ttl":       "security.magic_link_ttl",
	"rate_limit_requests":  "security.rate_limit_reqs",
	"rate_limit_window":    "security.rate_limit_window",
	"disable_rate_limit":   "security.rate_limit_disabled",
	"auth_rate_limit_reqs": "security.auth_rate_limit_reqs",

	"store_path":             "store.path",
	"store_in_memory":        "store.in_memory",
	"store_gc_interval":      "store.gc_interval",
	"store_gc_discard_ratio": "store.gc_discard_ratio",

	"catalog_paths": "catalog.extra_paths",

	"identity_exchange_url": "identity.exchange_url",
	"identity_timeout":      "identity.timeout",

	"llm_base_url":            "llm.base_url",
	"llm_api_key":             "llm.api_key",
	"emergent_llm_key":        "llm.api_key",
	"llm_model":               "llm.model",
	"llm_image_model":         "llm.image_model",
	"llm_timeout":             "llm.timeout",
	"llm_requests_per_second": "llm.requests_per_second",
	"llm_burst":               "llm.burst",

	"min_query_length":      "recommend.min_query_length",
	"validation_cache_size": "recommend.validation_cache_size",
	"validation_cache_ttl":  "recommend.validation_cache_ttl",
	"validation_timeout":    "recommend.validation_timeout",
	"synthesis_timeout":     "recommend.synthesis_timeout",

	"resend_api_key":  "email.resend_api_key",
	"email_from":      "email.from_address",
	"email_from_name": "email.from_name",
	"magic_link_url":  "email.magic_link_url",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
