// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/starmaps/internal/models"
)

func sessionFixture(clock *testClock) *models.Session {
	return &models.Session{
		Token:     "sess_fixture",
		UserID:    "user_fixture",
		CreatedAt: clock.Now(),
		ExpiresAt: clock.Now().Add(7 * 24 * time.Hour),
	}
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	mgr, _ := newTestManager(t, nil)
	user, session, err := mgr.CreateDemo(ctx)
	if err != nil {
		t.Fatal(err)
	}
	mw := NewMiddleware(mgr, DefaultExtractors("session_token"))

	protected := mw.Authenticate(mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())
		_, _ = w.Write([]byte(u.UserID + "|" + TokenFromContext(r.Context())))
	})))

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{
			name:       "anonymous",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"code":"UNAUTHORIZED"`,
		},
		{
			name: "cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "session_token", Value: session.Token})
			},
			wantStatus: http.StatusOK,
			wantBody:   user.UserID + "|" + session.Token,
		},
		{
			name:       "bearer",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+session.Token) },
			wantStatus: http.StatusOK,
			wantBody:   user.UserID,
		},
		{
			name: "stale cookie shadows valid bearer",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "session_token", Value: "sess_stale"})
				r.Header.Set("Authorization", "Bearer "+session.Token)
			},
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %q, want it to contain %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestUnauthorizedEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeUnauthorized(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var resp models.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "error" || resp.Error == nil || resp.Error.Code != "UNAUTHORIZED" {
		t.Errorf("unexpected envelope: %+v", resp)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
