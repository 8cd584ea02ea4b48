// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/starmaps/internal/auth"
	"github.com/tomtom215/starmaps/internal/catalog"
	"github.com/tomtom215/starmaps/internal/library"
	"github.com/tomtom215/starmaps/internal/llm"
	"github.com/tomtom215/starmaps/internal/models"
	"github.com/tomtom215/starmaps/internal/profile"
	"github.com/tomtom215/starmaps/internal/recommend"
	"github.com/tomtom215/starmaps/internal/store"
)

const cookieName = "session_token"

type fakeChat struct {
	mu    sync.Mutex
	reply string
	err   error
	calls int
}

func (f *fakeChat) Chat(context.Context, []llm.Message, ...llm.ChatOption) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.reply, f.err
}

type fakeImages struct {
	img []byte
	err error
}

func (f *fakeImages) GenerateImage(context.Context, string) ([]byte, error) {
	return f.img, f.err
}

type fakeIdentity struct{}

func (fakeIdentity) Exchange(_ context.Context, code string) (*auth.Identity, error) {
	if code != "good-code" {
		return nil, auth.ErrUpstreamAuthFailure
	}
	return &auth.Identity{Email: "Ann@Example.com", Name: "Ann", Picture: "https://example.com/ann.png"}, nil
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return errors.New("store is closed") }

type testEnv struct {
	handler http.Handler
	manager *auth.Manager
	history *library.History
	deps    Deps
	chat    *fakeChat
	images  *fakeImages
}

type envOption func(*Deps, *ChiMiddlewareConfig)

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cat, err := catalog.LoadDefault(nil)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	fallback, err := recommend.NewFallbackProvider(cat)
	if err != nil {
		t.Fatalf("fallback: %v", err)
	}

	authStore := auth.NewBadgerStore(db)
	manager := auth.NewManager(authStore, authStore, authStore, fakeIdentity{}, auth.DefaultManagerConfig())
	chat := &fakeChat{err: errors.New("service unavailable")}
	images := &fakeImages{img: []byte("png")}

	deps := Deps{
		Auth:        manager,
		Cookie:      auth.CookieConfig{Name: cookieName, Secure: true},
		Validator:   recommend.NewValidator(nil, recommend.DefaultValidatorConfig()),
		Synthesizer: recommend.NewSynthesizer(chat, cat, fallback, recommend.DefaultSynthesizerConfig()),
		Catalog:     cat,
		History:     library.NewHistory(db),
		Favorites:   library.NewFavorites(db, cat),
		Profile:     profile.NewService(authStore, chat, images, profile.Config{}),
		Store:       db,
		Version:     "test",
	}
	mwConfig := DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = []string{"https://app.example.com"}
	mwConfig.RateLimitDisabled = true
	for _, opt := range opts {
		opt(&deps, mwConfig)
	}

	router := NewRouter(NewHandler(deps), auth.NewMiddleware(manager, auth.DefaultExtractors(cookieName)), NewChiMiddleware(mwConfig), "/api")
	return &testEnv{
		handler: router.Handler(),
		manager: manager,
		history: deps.History,
		deps:    deps,
		chat:    chat,
		images:  images,
	}
}

// do sends a request. token, when set, is presented as the session cookie.
func (e *testEnv) do(t *testing.T, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// login creates a demo session and returns its token.
func (e *testEnv) login(t *testing.T) (string, *models.User) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/auth/demo", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("demo login status = %d: %s", rec.Code, rec.Body)
	}
	var user models.User
	decodeBody(t, rec, &user)
	return sessionCookie(t, rec).Value, &user
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie in response", cookieName)
	return nil
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, status, rec.Body)
	}
	var resp models.ErrorResponse
	decodeBody(t, rec, &resp)
	if resp.Status != "error" || resp.Error == nil || resp.Error.Code != code {
		t.Errorf("envelope = %+v, want code %s", resp, code)
	}
	if resp.Metadata.Timestamp.IsZero() {
		t.Error("envelope missing timestamp")
	}
}
