// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package auth

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Identity is the profile returned by an external identity provider.
type Identity struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// IdentityProvider exchanges a one-time code for an identity.
type IdentityProvider interface {
	Exchange(ctx context.Context, code string) (*Identity, error)
}

// HTTPIdentityProvider calls the hosted OAuth session-data endpoint, passing
// the code in the X-Session-ID header.
type HTTPIdentityProvider struct {
	url    string
	client *http.Client
}

// NewHTTPIdentityProvider creates a provider for the given endpoint.
func NewHTTPIdentityProvider(url string, timeout time.Duration) *HTTPIdentityProvider {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPIdentityProvider{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Exchange implements IdentityProvider. Any non-200 answer, transport failure
// or profile without an email is reported as ErrUpstreamAuthFailure.
func (p *HTTPIdentityProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("X-Session-ID", code)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamAuthFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, fmt.Errorf("%w: status %d", ErrUpstreamAuthFailure, resp.StatusCode)
	}

	var identity Identity
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&identity); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", ErrUpstreamAuthFailure, err)
	}
	if strings.TrimSpace(identity.Email) == "" {
		return nil, fmt.Errorf("%w: profile has no email", ErrUpstreamAuthFailure)
	}
	return &identity, nil
}
