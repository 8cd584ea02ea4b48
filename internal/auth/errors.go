// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package auth

import "errors"

var (
	// ErrAuthenticationRequired is returned when an endpoint needs a caller identity.
	ErrAuthenticationRequired = errors.New("authentication required")

	// ErrUpstreamAuthFailure is returned when the identity provider rejects an exchange code.
	ErrUpstreamAuthFailure = errors.New("identity provider rejected the exchange")

	// ErrInvalidToken is returned for unknown or already consumed magic-link tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrTokenExpired is returned for magic-link tokens past their expiry.
	ErrTokenExpired = errors.New("token expired")

	// ErrSessionNotFound is returned when a session token has no record.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUserNotFound is returned when a user id or email has no record.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when creating a user whose email is already registered.
	ErrUserExists = errors.New("user already exists")
)

// ErrInvalidEmail is returned when a magic link is requested for a blank address.
var ErrInvalidEmail = errors.New("invalid email")
