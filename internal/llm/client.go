// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

// Package llm is a small client for OpenAI-compatible chat completion and
// image generation endpoints.
//
// Every call is paced by a token bucket, guarded by a circuit breaker and
// bounded by both the caller's context and a client-level timeout. The client
// never retries; callers decide how to degrade.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/starmaps/internal/metrics"
)

// maxErrorBodySize bounds how much of an error response is kept.
const maxErrorBodySize = 64 * 1024

// maxResponseSize bounds successful response bodies (images are base64 encoded).
const maxResponseSize = 32 << 20

var (
	// ErrDisabled is returned when no API key is configured.
	ErrDisabled = errors.New("llm: generative service not configured")

	// ErrEmptyResponse is returned when the service answers without content.
	ErrEmptyResponse = errors.New("llm: empty response")
)

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: service returned status %d: %s", e.StatusCode, e.Body)
}

// Message is one chat turn.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// System builds a system message.
func System(content string) Message { return Message{Role: "system", Content: content} }

// User builds a user message.
func User(content string) Message { return Message{Role: "user", Content: content} }

// ChatClient produces a single completion for a conversation.
type ChatClient interface {
	Chat(ctx context.Context, messages []Message, opts ...ChatOption) (string, error)
}

// ImageClient produces PNG bytes for a prompt.
type ImageClient interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

// Config configures Client.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	ImageModel string
	Timeout    time.Duration

	// RequestsPerSecond <= 0 disables pacing.
	RequestsPerSecond float64
	Burst             int

	Breaker BreakerConfig
}

// Client talks to an OpenAI-compatible API. Safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	imageModel string
	http       *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]byte]
}

// NewClient builds a Client. A zero Timeout defaults to 45s.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		http:       &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(limit, burst),
		cb:         newBreaker("llm-api", cfg.Breaker),
	}
}

// Enabled reports whether the client has credentials.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type chatOptions struct {
	operation   string
	temperature *float64
	jsonMode    bool
}

// ChatOption tunes a single Chat call.
type ChatOption func(*chatOptions)

// WithOperation labels the call in metrics (e.g. "synthesize", "validate").
func WithOperation(name string) ChatOption {
	return func(o *chatOptions) { o.operation = name }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ChatOption {
	return func(o *chatOptions) { o.temperature = &t }
}

// WithJSONResponse asks the service to answer with a JSON object.
func WithJSONResponse() ChatOption {
	return func(o *chatOptions) { o.jsonMode = true }
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	Temperature    *float64        `json:"temperature,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Chat returns the content of the first choice.
func (c *Client) Chat(ctx context.Context, messages []Message, opts ...ChatOption) (string, error) {
	o := chatOptions{operation: "chat"}
	for _, opt := range opts {
		opt(&o)
	}

	req := chatRequest{Model: c.model, Messages: messages, Temperature: o.temperature}
	if o.jsonMode {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, err := c.call(ctx, o.operation, "/chat/completions", req)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("llm: decode chat response: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
}

// GenerateImage returns the decoded bytes of the first generated image.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	body, err := c.call(ctx, "image", "/images/generations", imageRequest{
		Model:  c.imageModel,
		Prompt: prompt,
		N:      1,
		Size:   "1024x1024",
	})
	if err != nil {
		return nil, err
	}

	var resp imageResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("llm: decode image response: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, ErrEmptyResponse
	}
	img, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("llm: decode image payload: %w", err)
	}
	return img, nil
}

// call performs one paced, breaker-guarded POST and returns the raw body.
func (c *Client) call(ctx context.Context, operation, path string, payload interface{}) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.RecordLLMRequest(operation, "rejected", 0)
		return nil, fmt.Errorf("llm: rate limiter: %w", err)
	}

	start := time.Now()
	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.post(ctx, path, payload)
	})
	duration := time.Since(start)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordLLMRequest(operation, "rejected", duration)
		return nil, fmt.Errorf("llm: circuit breaker: %w", err)
	case err != nil:
		metrics.RecordLLMRequest(operation, "error", duration)
		return nil, err
	}
	metrics.RecordLLMRequest(operation, "success", duration)
	return body, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("llm: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(readBodyForError(resp.Body))}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("llm: read response: %w", err)
	}
	return body, nil
}

// readBodyForError reads at most maxErrorBodySize bytes of an error body.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}
