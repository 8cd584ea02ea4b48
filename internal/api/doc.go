// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

/*
Package api exposes StarMaps over HTTP using the chi router.

All routes live under a common prefix (default /api):

	GET    /                         service info
	POST   /auth/session             external identity login
	POST   /auth/demo                throwaway account
	POST   /auth/magic-link          issue a single-use token
	POST   /auth/magic-link/verify   consume it
	GET    /auth/me                  current user (401 when anonymous)
	POST   /auth/logout              revoke the presented session
	POST   /movies/validate          query verdict
	POST   /movies/recommend         recommendation graph
	GET    /movies/{id}              catalog detail
	POST   /onboarding               store preferences (auth)
	PUT    /profile                  update name/avatar (auth)
	POST   /profile/generate-avatar  image generation (auth)
	GET    /history, DELETE /history (auth)
	GET    /favorites, POST /favorites, DELETE /favorites/{movie_id} (auth)
	GET    /health/live, /health/ready
	GET    /metrics

Success bodies are the bare domain objects. Failures use the
models.ErrorResponse envelope. The validate and recommend endpoints always
answer 200 with a well-formed body once the request itself is valid.
*/
package api
