// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/starmaps/internal/auth"
	"github.com/tomtom215/starmaps/internal/models"
)

const (
	historyListLimit   = 20
	favoritesListLimit = 100
)

// ListHistory returns the caller's recent queries, newest first.
func (h *Handler) ListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.deps.History.List(r.Context(), auth.UserFromContext(r.Context()).UserID, historyListLimit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, entries)
}

// ClearHistory deletes the caller's history.
func (h *Handler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if _, err := h.deps.History.Clear(r.Context(), auth.UserFromContext(r.Context()).UserID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, models.MessageResponse{Message: "History cleared"})
}

// ListFavorites returns the caller's saved films, newest first.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := h.deps.Favorites.List(r.Context(), auth.UserFromContext(r.Context()).UserID, favoritesListLimit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, favs)
}

// AddFavorite saves a film. Saving it twice returns the existing record.
func (h *Handler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var req models.FavoriteRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	fav, _, err := h.deps.Favorites.Add(r.Context(), auth.UserFromContext(r.Context()).UserID, req.MovieID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, fav)
}

// RemoveFavorite deletes a saved film. Removing an absent one succeeds.
func (h *Handler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserFromContext(r.Context()).UserID
	if _, err := h.deps.Favorites.Remove(r.Context(), userID, chi.URLParam(r, "movie_id")); err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, models.MessageResponse{Message: "Removed"})
}
