// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/starmaps/internal/auth"
	"github.com/tomtom215/starmaps/internal/catalog"
	"github.com/tomtom215/starmaps/internal/profile"
)

// errorMapping pairs a sentinel with the status and envelope it produces.
type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var errorMappings = []errorMapping{
	{auth.ErrAuthenticationRequired, http.StatusUnauthorized, ErrCodeUnauthorized, "Not authenticated"},
	{auth.ErrUpstreamAuthFailure, http.StatusUnauthorized, ErrCodeUpstreamAuth, "Invalid session"},
	{auth.ErrTokenExpired, http.StatusBadRequest, ErrCodeTokenExpired, "Token expired"},
	{auth.ErrInvalidToken, http.StatusBadRequest, ErrCodeInvalidToken, "Invalid token"},
	{auth.ErrInvalidEmail, http.StatusBadRequest, ErrCodeValidation, "email must be a valid email address"},
	{auth.ErrUserNotFound, http.StatusNotFound, ErrCodeNotFound, "User not found"},
	{catalog.ErrMovieNotFound, http.StatusNotFound, ErrCodeNotFound, "Movie not found"},
	{profile.ErrAvatarGeneration, http.StatusBadGateway, ErrCodeAvatarGeneration, "Failed to generate avatar"},
}

// respondServiceError maps err onto the error envelope. Unknown errors
// become 500 INTERNAL_ERROR with a generic message.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			respondError(w, r, m.status, m.code, m.message, err)
			return
		}
	}
	respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", err)
}
