// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package main

import (
	"context"
	"fmt"

	"github.com/tomtom215/starmaps/internal/api"
	"github.com/tomtom215/starmaps/internal/auth"
	"github.com/tomtom215/starmaps/internal/catalog"
	"github.com/tomtom215/starmaps/internal/config"
	"github.com/tomtom215/starmaps/internal/library"
	"github.com/tomtom215/starmaps/internal/llm"
	"github.com/tomtom215/starmaps/internal/logging"
	"github.com/tomtom215/starmaps/internal/metrics"
	"github.com/tomtom215/starmaps/internal/profile"
	"github.com/tomtom215/starmaps/internal/recommend"
	"github.com/tomtom215/starmaps/internal/store"
	"github.com/tomtom215/starmaps/internal/supervisor/services"
)

// application holds the services built at startup.
type application struct {
	authStore *auth.BadgerStore
	validator *recommend.Validator
	router    *api.Router
}

func buildApp(cfg *config.Config, db *store.DB) (*application, error) {
	cat, err := catalog.LoadDefault(cfg.Catalog.ExtraPaths)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	logging.Info().Int("movies", cat.Len()).Msg("Catalog loaded")

	chat, images := initLLM(cfg)

	fallback, err := recommend.NewFallbackProvider(cat)
	if err != nil {
		return nil, fmt.Errorf("fallback graph: %w", err)
	}
	validator := recommend.NewValidator(chat, recommend.ValidatorConfig{
		MinQueryLength: cfg.Recommend.MinQueryLength,
		Timeout:        cfg.Recommend.ValidationTimeout,
		CacheSize:      cfg.Recommend.ValidationCacheSize,
		CacheTTL:       cfg.Recommend.ValidationCacheTTL,
	})
	synthesizer := recommend.NewSynthesizer(chat, cat, fallback, recommend.SynthesizerConfig{
		Timeout: cfg.Recommend.SynthesisTimeout,
		Bounds: recommend.Bounds{
			TopMin:       cfg.Recommend.TopNodesMin,
			TopMax:       cfg.Recommend.TopNodesMax,
			SecondaryMin: cfg.Recommend.SecondaryNodesMin,
			SecondaryMax: cfg.Recommend.SecondaryNodesMax,
			LinksMin:     cfg.Recommend.LinksMin,
			LinksMax:     cfg.Recommend.LinksMax,
		},
	})

	authStore := auth.NewBadgerStore(db)
	manager := auth.NewManager(authStore, authStore, authStore,
		auth.NewHTTPIdentityProvider(cfg.Identity.ExchangeURL, cfg.Identity.Timeout),
		auth.ManagerConfig{
			SessionTTL:     cfg.Security.SessionTTL,
			DemoSessionTTL: cfg.Security.DemoSessionTTL,
			MagicLinkTTL:   cfg.Security.MagicLinkTTL,
		},
		managerOptions(cfg)...,
	)

	handler := api.NewHandler(api.Deps{
		Auth: manager,
		Cookie: auth.CookieConfig{
			Name:   cfg.Security.CookieName,
			Domain: cfg.Security.CookieDomain,
			Secure: cfg.Security.CookieSecure,
		},
		Validator:   validator,
		Synthesizer: synthesizer,
		Catalog:     cat,
		History:     library.NewHistory(db),
		Favorites:   library.NewFavorites(db, cat),
		Profile:     profile.NewService(authStore, chat, images, profile.Config{}),
		Store:       db,
		Version:     cfg.Server.Version,
	})

	mw := api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins:    cfg.Security.CORSOrigins,
		CORSAllowedMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		CORSAllowedHeaders:    []string{"Content-Type", "Authorization", "X-Request-ID"},
		CORSAllowCredentials:  true,
		CORSMaxAge:            86400,
		RateLimitRequests:     cfg.Security.RateLimitReqs,
		RateLimitWindow:       cfg.Security.RateLimitWindow,
		RateLimitDisabled:     cfg.Security.RateLimitDisabled,
		AuthRateLimitRequests: cfg.Security.AuthRateLimitReqs,
	})
	authMiddleware := auth.NewMiddleware(manager, auth.DefaultExtractors(cfg.Security.CookieName))

	return &application{
		authStore: authStore,
		validator: validator,
		router:    api.NewRouter(handler, authMiddleware, mw, cfg.Server.APIPrefix),
	}, nil
}

// initLLM returns nil interfaces when the generative service is not configured.
func initLLM(cfg *config.Config) (llm.ChatClient, llm.ImageClient) {
	if !cfg.LLM.Enabled() {
		logging.Warn().Msg("LLM_API_KEY not set: validation uses the length heuristic and recommendations use the fallback graph")
		return nil, nil
	}

	client := llm.NewClient(llm.Config{
		BaseURL:           cfg.LLM.BaseURL,
		APIKey:            cfg.LLM.APIKey,
		Model:             cfg.LLM.Model,
		ImageModel:        cfg.LLM.ImageModel,
		Timeout:           cfg.LLM.Timeout,
		RequestsPerSecond: cfg.LLM.RequestsPerSecond,
		Burst:             cfg.LLM.Burst,
		Breaker: llm.BreakerConfig{
			MaxRequests:  cfg.LLM.BreakerMaxRequests,
			Interval:     cfg.LLM.BreakerInterval,
			Timeout:      cfg.LLM.BreakerTimeout,
			MinRequests:  cfg.LLM.BreakerMinRequests,
			FailureRatio: cfg.LLM.BreakerFailureRatio,
		},
	})
	logging.Info().Str("model", cfg.LLM.Model).Str("base_url", cfg.LLM.BaseURL).Msg("Generative client configured")
	return client, client
}

func managerOptions(cfg *config.Config) []auth.ManagerOption {
	if !cfg.Email.Enabled() {
		return nil
	}
	logging.Info().Str("from", cfg.Email.FromAddress).Msg("Magic-link email delivery enabled")
	return []auth.ManagerOption{
		auth.WithMailer(auth.NewResendMailer(auth.ResendConfig{
			APIKey:      cfg.Email.ResendAPIKey,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
			LinkURL:     cfg.Email.MagicLinkURL,
		})),
	}
}

func storeGCTask(db *store.DB, discardRatio float64) services.Task {
	return func(context.Context) error {
		rewritten, err := db.RunGC(discardRatio)
		switch {
		case err != nil:
			metrics.StoreGCRuns.WithLabelValues("error").Inc()
			return err
		case rewritten == 0:
			metrics.StoreGCRuns.WithLabelValues("noop").Inc()
		default:
			metrics.StoreGCRuns.WithLabelValues("rewritten").Inc()
			logging.Info().Int("files", rewritten).Msg("Store value log compacted")
		}
		return nil
	}
}
