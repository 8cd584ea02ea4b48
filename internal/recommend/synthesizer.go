// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/starmaps/internal/llm"
	"github.com/tomtom215/starmaps/internal/logging"
	"github.com/tomtom215/starmaps/internal/metrics"
	"github.com/tomtom215/starmaps/internal/models"
)

// Source tells where a graph came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Degradation reasons recorded when the fallback graph is served.
const (
	ReasonDisabled = "disabled"
	ReasonTimeout  = "timeout"
	ReasonCanceled = "canceled"
	ReasonUpstream = "upstream"

	// ReasonInvalidQuery marks blank or oversized queries, which skip the service.
	ReasonInvalidQuery = "invalid_query"
)

// Outcome describes how a graph was produced.
type Outcome struct {
	Source Source
	// Reason is empty for live graphs; otherwise a Reason* constant or a parser Stage.
	Reason string
	Stats  DecodeStats
	Err    error
}

// Catalog is what the synthesizer needs from the film catalog.
type Catalog interface {
	PosterLookup
	PromptListing() string
}

// SynthesizerConfig configures a Synthesizer.
type SynthesizerConfig struct {
	Timeout time.Duration
	Bounds  Bounds
}

// DefaultSynthesizerConfig returns a 40s timeout and DefaultBounds.
func DefaultSynthesizerConfig() SynthesizerConfig {
	return SynthesizerConfig{Timeout: 40 * time.Second, Bounds: DefaultBounds()}
}

// Synthesizer produces recommendation graphs.
type Synthesizer struct {
	chat     llm.ChatClient
	catalog  Catalog
	fallback *FallbackProvider
	timeout  time.Duration
	prompt   string
	logger   zerolog.Logger
}

// NewSynthesizer creates a Synthesizer. A nil chat client serves the fallback graph for every query.
func NewSynthesizer(chat llm.ChatClient, catalog Catalog, fallback *FallbackProvider, cfg SynthesizerConfig) *Synthesizer {
	def := DefaultSynthesizerConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Bounds == (Bounds{}) {
		cfg.Bounds = def.Bounds
	}
	return &Synthesizer{
		chat:     chat,
		catalog:  catalog,
		fallback: fallback,
		timeout:  cfg.Timeout,
		prompt:   synthesisPrompt(catalog.PromptListing(), cfg.Bounds),
		logger:   logging.WithComponent("recommend"),
	}
}

// Synthesize returns a graph for query. It never fails.
func (s *Synthesizer) Synthesize(ctx context.Context, query string) models.GraphResponse {
	graph, _ := s.SynthesizeDetailed(ctx, query)
	return graph
}

// SynthesizeDetailed is Synthesize plus a description of how the graph was produced.
func (s *Synthesizer) SynthesizeDetailed(ctx context.Context, query string) (models.GraphResponse, Outcome) {
	if _, ok := screenQuery(query); !ok {
		return s.degrade(ctx, query, Outcome{Reason: ReasonInvalidQuery})
	}
	if s.chat == nil {
		return s.degrade(ctx, query, Outcome{Reason: ReasonDisabled})
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.chat.Chat(callCtx,
		[]llm.Message{llm.System(s.prompt), llm.User(query)},
		llm.WithOperation("synthesize"), llm.WithJSONResponse())
	if err != nil {
		return s.degrade(ctx, query, Outcome{Reason: callFailureReason(ctx, callCtx, err), Err: err})
	}

	graph, stats, err := ParseGraph(text, s.catalog)
	if err != nil {
		reason := string(StageDecode)
		var perr *ParseError
		if errors.As(err, &perr) {
			reason = string(perr.Stage)
		}
		return s.degrade(ctx, query, Outcome{Reason: reason, Stats: stats, Err: err})
	}

	if stats.DroppedLinks > 0 {
		metrics.GraphLinksDropped.Add(float64(stats.DroppedLinks))
	}
	metrics.RecordSynthesis(string(SourceLive), "")
	s.logger.Debug().
		Str("request_id", logging.RequestIDFromContext(ctx)).
		Int("nodes", len(graph.Nodes)).
		Int("links", len(graph.Links)).
		Int("dropped_links", stats.DroppedLinks).
		Int("duplicate_nodes", stats.DuplicateNodes).
		Msg("Graph synthesized")
	return graph, Outcome{Source: SourceLive, Stats: stats}
}

func (s *Synthesizer) degrade(ctx context.Context, query string, outcome Outcome) (models.GraphResponse, Outcome) {
	outcome.Source = SourceFallback
	metrics.RecordSynthesis(string(SourceFallback), outcome.Reason)

	if outcome.Reason != ReasonDisabled && outcome.Reason != ReasonInvalidQuery {
		s.logger.Warn().Err(outcome.Err).
			Str("request_id", logging.RequestIDFromContext(ctx)).
			Str("reason", outcome.Reason).
			Str("query", logging.SanitizeValue(query)).
			Msg("Synthesis degraded, serving fallback graph")
	}
	return s.fallback.Graph(), outcome
}

func callFailureReason(parent, call context.Context, err error) string {
	switch {
	case errDisabled(err):
		return ReasonDisabled
	case parent.Err() != nil && errors.Is(parent.Err(), context.Canceled):
		return ReasonCanceled
	case errors.Is(err, context.DeadlineExceeded), call.Err() != nil:
		return ReasonTimeout
	default:
		return ReasonUpstream
	}
}
