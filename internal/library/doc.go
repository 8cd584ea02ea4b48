// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

// Package library stores per-user search history and favorite films.
//
// History keys are "history:<user_id>:<ulid>" so a reverse prefix scan yields
// entries newest first. Favorites are keyed by "favorite:<user_id>:<movie_id>",
// which makes adding the same film twice a no-op.
package library
