// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package auth

import (
	"net/http"
	"strings"
)

// CredentialExtractor pulls a session token out of a request.
// It returns "" when the request carries no credential of its kind.
type CredentialExtractor interface {
	Extract(r *http.Request) string
}

// CookieExtractor reads the named cookie.
type CookieExtractor struct {
	Name string
}

// Extract implements CredentialExtractor.
func (e CookieExtractor) Extract(r *http.Request) string {
	cookie, err := r.Cookie(e.Name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// BearerExtractor reads "Authorization: Bearer <token>".
type BearerExtractor struct{}

// Extract implements CredentialExtractor.
func (BearerExtractor) Extract(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// DefaultExtractors returns the cookie extractor followed by the bearer extractor.
func DefaultExtractors(cookieName string) []CredentialExtractor {
	return []CredentialExtractor{
		CookieExtractor{Name: cookieName},
		BearerExtractor{},
	}
}

// ExtractCredential returns the first non-empty credential in extractor order.
func ExtractCredential(r *http.Request, extractors []CredentialExtractor) string {
	for _, e := range extractors {
		if token := e.Extract(r); token != "" {
			return token
		}
	}
	return ""
}
