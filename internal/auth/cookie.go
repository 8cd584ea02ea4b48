// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package auth

import (
	"net/http"
	"time"

	"github.com/tomtom215/starmaps/internal/models"
)

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Domain string

	// Secure must stay true in production; SameSite=None cookies without it are dropped by browsers.
	Secure bool
}

// DefaultCookieConfig returns the production cookie settings.
func DefaultCookieConfig() CookieConfig {
	return CookieConfig{Name: "session_token", Secure: true}
}

// SetSessionCookie writes session as a cross-site HTTP-only cookie whose
// Max-Age is the session's remaining lifetime at now.
func SetSessionCookie(w http.ResponseWriter, cfg CookieConfig, session *models.Session, now time.Time) {
	maxAge := int(session.ExpiresAt.Sub(now).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    session.Token,
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   maxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(w http.ResponseWriter, cfg CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.Name,
		Value:    "",
		Path:     "/",
		Domain:   cfg.Domain,
		MaxAge:   -1,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
