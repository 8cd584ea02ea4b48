// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package api

import (
	"context"
	"net/http"
	"time"
)

type healthStatus struct {
	Status string  `json:"status"`
	Uptime float64 `json:"uptime_seconds"`
}

// HealthLive reports that the process is serving.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, healthStatus{Status: "alive", Uptime: time.Since(h.startTime).Seconds()})
}

// HealthReady reports whether the store is reachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.deps.Store != nil {
		if err := h.deps.Store.Ping(ctx); err != nil {
			respondError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Store unavailable", err)
			return
		}
	}
	respondJSON(w, r, http.StatusOK, healthStatus{Status: "ready", Uptime: time.Since(h.startTime).Seconds()})
}
