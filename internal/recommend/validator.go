// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package recommend

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/starmaps/internal/cache"
	"github.com/tomtom215/starmaps/internal/llm"
	"github.com/tomtom215/starmaps/internal/logging"
	"github.com/tomtom215/starmaps/internal/metrics"
	"github.com/tomtom215/starmaps/internal/models"
)

// ShortQueryMessage is the heuristic rejection message.
const ShortQueryMessage = "Слишком короткий запрос"

// LongQueryMessage rejects queries over MaxQueryLength.
const LongQueryMessage = "Слишком длинный запрос"

// MaxQueryLength caps queries in code points. Longer queries never reach the
// generative service.
const MaxQueryLength = 1000

// defaultSuggestions accompany heuristic rejections.
var defaultSuggestions = []string{"Как Интерстеллар, но без космоса", "Мрачный триллер"}

// ValidatorConfig configures a Validator.
type ValidatorConfig struct {
	// MinQueryLength is the heuristic threshold in code points after trimming.
	MinQueryLength int

	Timeout   time.Duration
	CacheSize int
	CacheTTL  time.Duration
}

// DefaultValidatorConfig returns a 10 code point threshold, 15s timeout and a 1024 entry cache.
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		MinQueryLength: 10,
		Timeout:        15 * time.Second,
		CacheSize:      1024,
		CacheTTL:       10 * time.Minute,
	}
}

// Validator decides whether a query is worth a synthesis call.
type Validator struct {
	chat   llm.ChatClient
	cfg    ValidatorConfig
	cache  *cache.LRU[models.QueryValidation]
	logger zerolog.Logger
}

// NewValidator creates a Validator. A nil chat client selects the heuristic for every query.
func NewValidator(chat llm.ChatClient, cfg ValidatorConfig) *Validator {
	def := DefaultValidatorConfig()
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = def.MinQueryLength
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	return &Validator{
		chat:   chat,
		cfg:    cfg,
		cache:  cache.NewLRU[models.QueryValidation](cfg.CacheSize, cfg.CacheTTL),
		logger: logging.WithComponent("recommend"),
	}
}

// Validate returns a verdict for query. It never fails: any problem with the
// generative service degrades to Heuristic.
func (v *Validator) Validate(ctx context.Context, query string) models.QueryValidation {
	if verdict, ok := screenQuery(query); !ok {
		metrics.RecordValidation("heuristic", false)
		return verdict
	}
	if v.chat == nil {
		return v.fallbackVerdict(query)
	}

	key := cacheKey(query)
	if verdict, ok := v.cache.Get(key); ok {
		metrics.RecordValidation("cache", verdict.IsValid)
		return cloneVerdict(verdict)
	}

	verdict, err := v.ask(ctx, query)
	if err != nil {
		v.logger.Warn().Err(err).
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Str("query", logging.SanitizeValue(query)).
			Msg("Query validation degraded to heuristic")
		return v.fallbackVerdict(query)
	}

	v.cache.Add(key, verdict)
	metrics.RecordValidation("llm", verdict.IsValid)
	return cloneVerdict(verdict)
}

// PruneCache drops expired verdicts and returns how many were removed.
func (v *Validator) PruneCache() int {
	return v.cache.CleanupExpired()
}

// Heuristic applies the length rule: queries shorter than the threshold,
// counted in code points after trimming, are invalid.
func (v *Validator) Heuristic(query string) models.QueryValidation {
	return heuristicVerdict(query, v.cfg.MinQueryLength)
}

func (v *Validator) fallbackVerdict(query string) models.QueryValidation {
	verdict := v.Heuristic(query)
	metrics.RecordValidation("heuristic", verdict.IsValid)
	return verdict
}

func heuristicVerdict(query string, minLength int) models.QueryValidation {
	if verdict, ok := screenQuery(query); !ok {
		return verdict
	}
	if utf8.RuneCountInString(strings.TrimSpace(query)) < minLength {
		return rejection(ShortQueryMessage)
	}
	return models.QueryValidation{IsValid: true, Suggestions: []string{}}
}

// screenQuery rejects blank and oversized queries before any service call.
func screenQuery(query string) (models.QueryValidation, bool) {
	trimmed := strings.TrimSpace(query)
	switch {
	case trimmed == "":
		return rejection(ShortQueryMessage), false
	case utf8.RuneCountInString(trimmed) > MaxQueryLength:
		return rejection(LongQueryMessage), false
	}
	return models.QueryValidation{}, true
}

func rejection(msg string) models.QueryValidation {
	return models.QueryValidation{
		IsValid:      false,
		ErrorMessage: msg,
		Suggestions:  append([]string(nil), defaultSuggestions...),
	}
}

type rawVerdict struct {
	IsValid      *bool    `json:"is_valid"`
	ErrorMessage string   `json:"error_message"`
	Suggestions  []string `json:"suggestions"`
}

func (v *Validator) ask(ctx context.Context, query string) (models.QueryValidation, error) {
	ctx, cancel := context.WithTimeout(ctx, v.cfg.Timeout)
	defer cancel()

	text, err := v.chat.Chat(ctx,
		[]llm.Message{llm.System(validationPrompt), llm.User(query)},
		llm.WithOperation("validate"), llm.WithTemperature(0), llm.WithJSONResponse())
	if err != nil {
		return models.QueryValidation{}, err
	}
	return parseVerdict(text)
}

func parseVerdict(text string) (models.QueryValidation, error) {
	doc, err := Unwrap(text)
	if err != nil {
		return models.QueryValidation{}, err
	}
	var raw rawVerdict
	if err := json.Unmarshal(doc, &raw); err != nil {
		return models.QueryValidation{}, &ParseError{Stage: StageDecode, Reason: "malformed verdict", Err: err}
	}
	if raw.IsValid == nil {
		return models.QueryValidation{}, &ParseError{Stage: StageDecode, Reason: "missing is_valid"}
	}

	verdict := models.QueryValidation{IsValid: *raw.IsValid, Suggestions: []string{}}
	if verdict.IsValid {
		return verdict, nil
	}

	verdict.ErrorMessage = strings.TrimSpace(raw.ErrorMessage)
	if verdict.ErrorMessage == "" {
		verdict.ErrorMessage = "Запрос не подходит для подбора фильмов"
	}
	for _, s := range raw.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			verdict.Suggestions = append(verdict.Suggestions, s)
		}
	}
	if len(verdict.Suggestions) == 0 {
		verdict.Suggestions = append(verdict.Suggestions, defaultSuggestions...)
	}
	return verdict, nil
}

func cacheKey(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func cloneVerdict(v models.QueryValidation) models.QueryValidation {
	v.Suggestions = append([]string{}, v.Suggestions...)
	return v
}

// errDisabled reports whether err means the generative service is not configured.
func errDisabled(err error) bool {
	return errors.Is(err, llm.ErrDisabled)
}
