// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package recommend

import (
	"context"
	"sync"
	"testing"

	"github.com/tomtom215/starmaps/internal/catalog"
	"github.com/tomtom215/starmaps/internal/llm"
)

type fakeChat struct {
	mu       sync.Mutex
	reply    string
	err      error
	block    bool
	calls    int
	messages []llm.Message
}

func (f *fakeChat) Chat(ctx context.Context, messages []llm.Message, _ ...llm.ChatOption) (string, error) {
	f.mu.Lock()
	f.calls++
	f.messages = messages
	reply, err, block := f.reply, f.err, f.block
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return reply, err
}

func (f *fakeChat) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadDefault(nil)
	if err != nil {
		t.Fatalf("LoadDefault() error = %v", err)
	}
	return cat
}

func newFallback(t *testing.T, cat *catalog.Catalog) *FallbackProvider {
	t.Helper()
	fb, err := NewFallbackProvider(cat)
	if err != nil {
		t.Fatalf("NewFallbackProvider() error = %v", err)
	}
	return fb
}

type staticPosters map[string]string

func (p staticPosters) Poster(id string) string { return p[id] }
