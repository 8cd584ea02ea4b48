// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/starmaps/internal/auth"
	"github.com/tomtom215/starmaps/internal/logging"
	"github.com/tomtom215/starmaps/internal/models"
	"github.com/tomtom215/starmaps/internal/recommend"
)

// historyWriteTimeout bounds the history write after a recommendation.
const historyWriteTimeout = 5 * time.Second

// Root describes the service.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, models.ServiceInfo{
		Message:     "StarMaps API",
		Version:     h.deps.Version,
		MoviesCount: h.deps.Catalog.Len(),
	})
}

// ValidateQuery judges whether a query can produce recommendations.
func (h *Handler) ValidateQuery(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	respondJSON(w, r, http.StatusOK, h.deps.Validator.Validate(r.Context(), req.Query))
}

// Recommend builds a recommendation graph. Authenticated callers get the
// query recorded in their history once the graph is ready; blank and
// oversized queries get the fallback graph and are not recorded.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req models.QueryRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	graph, outcome := h.deps.Synthesizer.SynthesizeDetailed(r.Context(), req.Query)

	user := auth.UserFromContext(r.Context())
	if user != nil && outcome.Reason != recommend.ReasonInvalidQuery && r.Context().Err() == nil {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), historyWriteTimeout)
		if _, err := h.deps.History.Record(ctx, user.UserID, req.Query); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Str("user_id", user.UserID).Msg("Failed to record history")
		}
		cancel()
	}

	logging.Ctx(r.Context()).Debug().
		Str("source", string(outcome.Source)).
		Str("reason", outcome.Reason).
		Int("nodes", len(graph.Nodes)).
		Int("links", len(graph.Links)).
		Msg("Recommendation served")
	respondJSON(w, r, http.StatusOK, graph)
}

// MovieDetail returns the catalog entry for {id}.
func (h *Handler) MovieDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.deps.Catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, detail)
}
