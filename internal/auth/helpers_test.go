// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/starmaps/internal/store"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.now = t
	c.mu.Unlock()
}

type fakeIdentity struct {
	identity *Identity
	err      error
	codes    []string
}

func (f *fakeIdentity) Exchange(_ context.Context, code string) (*Identity, error) {
	f.codes = append(f.codes, code)
	if f.err != nil {
		return nil, f.err
	}
	id := *f.identity
	return &id, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent map[string]string
	err  error
}

func (f *fakeMailer) SendMagicLink(_ context.Context, email, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sent == nil {
		f.sent = make(map[string]string)
	}
	f.sent[email] = token
	return f.err
}

func newTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	db, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBadgerStore(db)
}

func newTestManager(t *testing.T, idp IdentityProvider, opts ...ManagerOption) (*Manager, *testClock) {
	t.Helper()
	s := newTestStore(t)
	clock := newTestClock()
	opts = append([]ManagerOption{WithClock(clock.Now)}, opts...)
	return NewManager(s, s, s, idp, DefaultManagerConfig(), opts...), clock
}
