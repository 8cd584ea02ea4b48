// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package api

import (
	"context"
	"time"

	"github.com/tomtom215/starmaps/internal/auth"
	"github.com/tomtom215/starmaps/internal/catalog"
	"github.com/tomtom215/starmaps/internal/library"
	"github.com/tomtom215/starmaps/internal/profile"
	"github.com/tomtom215/starmaps/internal/recommend"
)

// Pinger reports whether a backing store can serve requests.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the handlers call.
type Deps struct {
	Auth        *auth.Manager
	Cookie      auth.CookieConfig
	Validator   *recommend.Validator
	Synthesizer *recommend.Synthesizer
	Catalog     *catalog.Catalog
	History     *library.History
	Favorites   *library.Favorites
	Profile     *profile.Service
	Store       Pinger
	Version     string
}

// Handler holds the HTTP handlers.
type Handler struct {
	deps      Deps
	startTime time.Time
}

// NewHandler creates the handlers.
func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps, startTime: time.Now()}
}
