// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package models

import "time"

// HistoryEntry records a query issued by an authenticated user.
type HistoryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Query     string    `json:"query"`
	CreatedAt time.Time `json:"created_at"`
}

// Favorite is a film saved by a user. At most one exists per (user, movie).
type Favorite struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	MovieID     string    `json:"movie_id"`
	MovieTitle  string    `json:"movie_title"`
	MoviePoster string    `json:"movie_poster,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FavoriteRequest is the body of an add-favorite call.
type FavoriteRequest struct {
	MovieID string `json:"movie_id" validate:"required,notblank,max=100"`
}
