// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package models

import "time"

// User is a StarMaps account. Users are created on first login and never hard-deleted.
type User struct {
	UserID              string       `json:"user_id"`
	Email               string       `json:"email"`
	Name                string       `json:"name"`
	Picture             string       `json:"picture,omitempty"`
	Avatar              string       `json:"avatar,omitempty"`
	Preferences         *Preferences `json:"preferences,omitempty"`
	OnboardingCompleted bool         `json:"onboarding_completed"`
	CreatedAt           time.Time    `json:"created_at"`
}

// Preferences are collected during onboarding.
type Preferences struct {
	FavoriteGenre     string `json:"favorite_genre" validate:"required,notblank,max=100"`
	FavoriteMood      string `json:"favorite_mood" validate:"required,notblank,max=100"`
	FavoriteEra       string `json:"favorite_era" validate:"required,notblank,max=100"`
	FavoriteCharacter string `json:"favorite_character,omitempty" validate:"omitempty,max=200"`
}

// Session binds an opaque token to a user until ExpiresAt.
type Session struct {
	Token     string    `json:"session_token"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpiredAt reports whether the session is dead at now. A session is dead from ExpiresAt onwards.
func (s *Session) ExpiredAt(now time.Time) bool {
	return !now.UTC().Before(s.ExpiresAt.UTC())
}

// MagicLink is a single-use login token.
type MagicLink struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// ExpiredAt reports whether the token can no longer be redeemed at now.
func (m *MagicLink) ExpiredAt(now time.Time) bool {
	return !now.UTC().Before(m.ExpiresAt.UTC())
}

// SessionRequest is the body of POST /auth/session.
type SessionRequest struct {
	SessionID string `json:"session_id" validate:"required,notblank,max=512"`
}

// MagicLinkRequest is the body of POST /auth/magic-link.
type MagicLinkRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

// MagicLinkVerifyRequest is the body of POST /auth/magic-link/verify.
type MagicLinkVerifyRequest struct {
	Token string `json:"token" validate:"required,notblank,max=256"`
}
