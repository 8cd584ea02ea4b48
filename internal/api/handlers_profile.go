// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/starmaps/internal/auth"
	"github.com/tomtom215/starmaps/internal/models"
	"github.com/tomtom215/starmaps/internal/validation"
)

// Onboarding stores the caller's taste preferences and returns a compliment.
func (h *Handler) Onboarding(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if !decodeRequest(w, r, &prefs) {
		return
	}

	user := auth.UserFromContext(r.Context())
	_, compliment, err := h.deps.Profile.CompleteOnboarding(r.Context(), user.UserID, prefs)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, models.OnboardingResponse{
		Message:    "Onboarding completed",
		Compliment: compliment,
	})
}

// UpdateProfile changes the caller's name and/or avatar.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var upd models.ProfileUpdate
	if !decodeRequest(w, r, &upd) {
		return
	}

	updated, err := h.deps.Profile.Update(r.Context(), auth.UserFromContext(r.Context()).UserID, upd)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, updated)
}

// GenerateAvatar renders a new avatar for the caller. The body is optional.
func (h *Handler) GenerateAvatar(w http.ResponseWriter, r *http.Request) {
	var req models.AvatarRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, errEmptyBody) {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	if verr := validation.ValidateStruct(&req); verr != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, verr.Error(), nil)
		return
	}

	avatar, err := h.deps.Profile.GenerateAvatar(r.Context(), auth.UserFromContext(r.Context()), req.StylePrompt)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, models.AvatarResponse{Avatar: avatar})
}
