// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package api

import (
	"net/http"

	"github.com/tomtom215/starmaps/internal/auth"
	"github.com/tomtom215/starmaps/internal/logging"
	"github.com/tomtom215/starmaps/internal/models"
)

// AuthSession exchanges an identity-provider session id for a StarMaps session.
func (h *Handler) AuthSession(w http.ResponseWriter, r *http.Request) {
	var req models.SessionRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, session, err := h.deps.Auth.CreateFromExternalIdentity(r.Context(), req.SessionID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	auth.SetSessionCookie(w, h.deps.Cookie, session, h.deps.Auth.Now())
	respondJSON(w, r, http.StatusOK, user)
}

// AuthDemo creates a throwaway account and logs it in.
func (h *Handler) AuthDemo(w http.ResponseWriter, r *http.Request) {
	user, session, err := h.deps.Auth.CreateDemo(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	auth.SetSessionCookie(w, h.deps.Cookie, session, h.deps.Auth.Now())
	respondJSON(w, r, http.StatusOK, user)
}

// AuthMagicLink issues a single-use login token for an email address.
func (h *Handler) AuthMagicLink(w http.ResponseWriter, r *http.Request) {
	var req models.MagicLinkRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	token, err := h.deps.Auth.CreateMagicLink(r.Context(), req.Email)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, models.MagicLinkResponse{DemoToken: token})
}

// AuthMagicLinkVerify consumes a magic-link token and logs the user in.
func (h *Handler) AuthMagicLinkVerify(w http.ResponseWriter, r *http.Request) {
	var req models.MagicLinkVerifyRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	user, session, err := h.deps.Auth.VerifyMagicLink(r.Context(), req.Token)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	auth.SetSessionCookie(w, h.deps.Cookie, session, h.deps.Auth.Now())
	respondJSON(w, r, http.StatusOK, user)
}

// AuthMe returns the caller.
func (h *Handler) AuthMe(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, auth.UserFromContext(r.Context()))
}

// AuthLogout revokes the presented session, if any, and always clears the cookie.
func (h *Handler) AuthLogout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFromContext(r.Context()); token != "" {
		if err := h.deps.Auth.Revoke(r.Context(), token); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to revoke session on logout")
		}
	}
	auth.ClearSessionCookie(w, h.deps.Cookie)
	respondJSON(w, r, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}
