// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package auth

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPIdentityProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("X-Session-ID") {
		case "good":
			_, _ = io.WriteString(w, `{"id":"ext-1","email":"u@example.com","name":"U","picture":"https://p","session_token":"ignored"}`)
		case "noemail":
			_, _ = io.WriteString(w, `{"name":"U"}`)
		case "garbage":
			_, _ = io.WriteString(w, `<html>`)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	p := NewHTTPIdentityProvider(srv.URL, time.Second)

	identity, err := p.Exchange(context.Background(), "good")
	if err != nil {
		t.Fatalf("Exchange(good) error = %v", err)
	}
	if identity.Email != "u@example.com" || identity.Name != "U" || identity.Picture != "https://p" {
		t.Errorf("identity = %+v", identity)
	}

	for _, code := range []string{"bad", "noemail", "garbage"} {
		t.Run(code, func(t *testing.T) {
			if _, err := p.Exchange(context.Background(), code); !errors.Is(err, ErrUpstreamAuthFailure) {
				t.Errorf("Exchange(%s) error = %v, want ErrUpstreamAuthFailure", code, err)
			}
		})
	}
}

func TestMagicLinkURL(t *testing.T) {
	got, err := magicLinkURL("https://starmaps.example/auth?next=%2F", "ml_abc")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "token=ml_abc") || !strings.Contains(got, "next=%2F") {
		t.Errorf("magicLinkURL() = %q", got)
	}
	html := magicLinkHTML(`https://x/?a=1&b="2"`)
	if strings.Contains(html, `"2"`) {
		t.Errorf("link not escaped: %s", html)
	}
}
