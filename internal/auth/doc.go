// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

/*
Package auth is the single authority on who is calling.

The Manager issues sessions through three flows (external identity exchange,
demo accounts and single-use magic links), resolves request credentials back to
users and revokes sessions on logout. Users, sessions and magic-link tokens are
persisted in BadgerDB through the store package.

# Credentials

A request may carry its session token in the session cookie or in an
"Authorization: Bearer" header. The cookie always wins:

	extractors := []auth.CredentialExtractor{
		auth.CookieExtractor{Name: "session_token"},
		auth.BearerExtractor{},
	}

# Expiry

Sessions expire lazily. A session with ExpiresAt E resolves for any instant
strictly before E and is treated as absent from E onwards. Expired records are
left in the store; they are never resurrected because tokens are never reused.

# Middleware

Authenticate resolves the caller once per request and places the user in the
request context; RequireAuth rejects anonymous callers with a 401 envelope.

	r.Use(mw.Authenticate)
	r.With(mw.RequireAuth).Get("/auth/me", handler)
*/
package auth
