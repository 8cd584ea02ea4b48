// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, breaker BreakerConfig) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:    srv.URL + "/",
		APIKey:     "test-key",
		Model:      "test-model",
		ImageModel: "test-image",
		Timeout:    5 * time.Second,
		Breaker:    breaker,
	})
}

func TestChatSendsRequestAndReturnsContent(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`)
	}, BreakerConfig{})

	out, err := client.Chat(context.Background(),
		[]Message{System("sys"), User("hi")},
		WithOperation("validate"), WithTemperature(0.2), WithJSONResponse())
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Chat() = %q, want hello", out)
	}
	if got.Model != "test-model" || len(got.Messages) != 2 || got.Messages[1].Content != "hi" {
		t.Errorf("unexpected request: %+v", got)
	}
	if got.Temperature == nil || *got.Temperature != 0.2 {
		t.Errorf("temperature = %v", got.Temperature)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v", got.ResponseFormat)
	}
}

func TestChatErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr func(error) bool
	}{
		{
			name:   "status error",
			status: http.StatusBadGateway,
			body:   "upstream down",
			wantErr: func(err error) bool {
				var se *StatusError
				return errors.As(err, &se) && se.StatusCode == http.StatusBadGateway && se.Body == "upstream down"
			},
		},
		{
			name:    "no choices",
			status:  http.StatusOK,
			body:    `{"choices":[]}`,
			wantErr: func(err error) bool { return errors.Is(err, ErrEmptyResponse) },
		},
		{
			name:    "blank content",
			status:  http.StatusOK,
			body:    `{"choices":[{"message":{"content":"  "}}]}`,
			wantErr: func(err error) bool { return errors.Is(err, ErrEmptyResponse) },
		},
		{
			name:    "malformed body",
			status:  http.StatusOK,
			body:    `not json`,
			wantErr: func(err error) bool { return err != nil },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, BreakerConfig{})
			_, err := client.Chat(context.Background(), []Message{User("x")})
			if !tt.wantErr(err) {
				t.Errorf("Chat() error = %v", err)
			}
		})
	}
}

func TestDisabledClient(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	if client.Enabled() {
		t.Fatal("client without key should be disabled")
	}
	if _, err := client.Chat(context.Background(), []Message{User("x")}); !errors.Is(err, ErrDisabled) {
		t.Errorf("Chat() error = %v, want ErrDisabled", err)
	}
	if _, err := client.GenerateImage(context.Background(), "x"); !errors.Is(err, ErrDisabled) {
		t.Errorf("GenerateImage() error = %v, want ErrDisabled", err)
	}
}

func TestGenerateImage(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G'}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/images/generations" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req imageRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "test-image" || req.N != 1 || req.Prompt != "a cat" {
			t.Errorf("unexpected request: %+v", req)
		}
		_, _ = io.WriteString(w, `{"data":[{"b64_json":"`+base64.StdEncoding.EncodeToString(png)+`"}]}`)
	}, BreakerConfig{})

	img, err := client.GenerateImage(context.Background(), "a cat")
	if err != nil {
		t.Fatalf("GenerateImage() error = %v", err)
	}
	if !bytes.Equal(img, png) {
		t.Errorf("GenerateImage() = %v, want %v", img, png)
	}
}

func TestCircuitBreakerOpensAndRejects(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}, BreakerConfig{MinRequests: 2, FailureRatio: 0.5, Timeout: time.Hour})

	for i := 0; i < 2; i++ {
		if _, err := client.Chat(context.Background(), []Message{User("x")}); err == nil {
			t.Fatal("expected failure")
		}
	}
	_, err := client.Chat(context.Background(), []Message{User("x")})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("Chat() error = %v, want ErrOpenState", err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("upstream calls = %d, want 2", n)
	}
}

func TestChatHonoursContext(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, BreakerConfig{})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	start := time.Now()
	if _, err := client.Chat(ctx, []Message{User("x")}); err == nil {
		t.Fatal("expected error on deadline")
	}
	if time.Since(start) > 2*time.Second {
		t.Error("Chat() did not return promptly after deadline")
	}
}

func TestReadBodyForErrorTruncates(t *testing.T) {
	big := strings.Repeat("a", maxErrorBodySize+10)
	out := readBodyForError(strings.NewReader(big))
	if !strings.HasSuffix(string(out), "... (truncated)") {
		t.Error("expected truncation marker")
	}
	if got := readBodyForError(strings.NewReader("short")); string(got) != "short" {
		t.Errorf("readBodyForError() = %q", got)
	}
}

func TestStateConversions(t *testing.T) {
	tests := []struct {
		state gobreaker.State
		f     float64
		s     string
	}{
		{gobreaker.StateClosed, 0, "closed"},
		{gobreaker.StateHalfOpen, 1, "half-open"},
		{gobreaker.StateOpen, 2, "open"},
	}
	for _, tt := range tests {
		if got := stateToFloat(tt.state); got != tt.f {
			t.Errorf("stateToFloat(%v) = %v", tt.state, got)
		}
		if got := stateToString(tt.state); got != tt.s {
			t.Errorf("stateToString(%v) = %v", tt.state, got)
		}
	}
}
