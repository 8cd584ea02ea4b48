// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestHeuristic(t *testing.T) {
	v := NewValidator(nil, DefaultValidatorConfig())

	tests := []struct {
		name  string
		query string
		valid bool
	}{
		{"short latin", "asdf", false},
		{"empty", "", false},
		{"padded short", "    asdf      ", false},
		{"seven cyrillic letters", "Мрачный", false},
		{"nine code points", "ааааааааа", false},
		{"ten code points", "аааааааааа", true},
		{"long russian", "Мрачный триллер с неожиданной концовкой", true},
		{"comparison", "Как Интерстеллар, но без космоса", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(context.Background(), tt.query)
			if got.IsValid != tt.valid {
				t.Fatalf("Validate(%q).IsValid = %v, want %v", tt.query, got.IsValid, tt.valid)
			}
			if !tt.valid {
				if got.ErrorMessage != ShortQueryMessage {
					t.Errorf("ErrorMessage = %q", got.ErrorMessage)
				}
				if len(got.Suggestions) == 0 {
					t.Error("invalid verdict must carry suggestions")
				}
			}
			if got.Suggestions == nil {
				t.Error("Suggestions must be non-nil")
			}
		})
	}
}

func TestValidateWithService(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		err       error
		query     string
		wantValid bool
		wantMsg   string
		wantSugg  int
	}{
		{
			name:      "valid verdict",
			reply:     `{"is_valid": true, "error_message": "", "suggestions": []}`,
			query:     "атмосферная фантастика",
			wantValid: true,
		},
		{
			name:      "invalid verdict with suggestions",
			reply:     "```json\n{\"is_valid\": false, \"error_message\": \"Слишком общий запрос\", \"suggestions\": [\"Мрачный детектив\", \" \", \"Фильм как Драйв\"]}\n```",
			query:     "хороший фильм",
			wantValid: false,
			wantMsg:   "Слишком общий запрос",
			wantSugg:  2,
		},
		{
			name:      "invalid verdict without suggestions",
			reply:     `{"is_valid": false}`,
			query:     "погода в москве",
			wantValid: false,
			wantSugg:  len(defaultSuggestions),
		},
		{
			name:      "service overrides heuristic for short query",
			reply:     `{"is_valid": true}`,
			query:     "нуар",
			wantValid: true,
		},
		{
			name:      "garbage degrades to heuristic",
			reply:     "Конечно! Это отличный запрос.",
			query:     "asdf",
			wantValid: false,
			wantMsg:   ShortQueryMessage,
			wantSugg:  len(defaultSuggestions),
		},
		{
			name:      "missing is_valid degrades to heuristic",
			reply:     `{"error_message": "x"}`,
			query:     "Мрачный триллер с неожиданной концовкой",
			wantValid: true,
		},
		{
			name:      "service error degrades to heuristic",
			err:       errors.New("502 bad gateway"),
			query:     "asdf",
			wantValid: false,
			wantMsg:   ShortQueryMessage,
			wantSugg:  len(defaultSuggestions),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &fakeChat{reply: tt.reply, err: tt.err}
			v := NewValidator(chat, DefaultValidatorConfig())

			got := v.Validate(context.Background(), tt.query)
			if got.IsValid != tt.wantValid {
				t.Fatalf("IsValid = %v, want %v (%+v)", got.IsValid, tt.wantValid, got)
			}
			if tt.wantMsg != "" && got.ErrorMessage != tt.wantMsg {
				t.Errorf("ErrorMessage = %q, want %q", got.ErrorMessage, tt.wantMsg)
			}
			if !tt.wantValid && got.ErrorMessage == "" {
				t.Error("invalid verdict without message")
			}
			if len(got.Suggestions) != tt.wantSugg {
				t.Errorf("suggestions = %v, want %d", got.Suggestions, tt.wantSugg)
			}
			if chat.Calls() != 1 {
				t.Errorf("service calls = %d, want 1", chat.Calls())
			}
		})
	}
}

func TestValidateScreensUnusableQueries(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{"empty", "", ShortQueryMessage},
		{"whitespace", "  \t ", ShortQueryMessage},
		{"oversized", strings.Repeat("ф", MaxQueryLength+1), LongQueryMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &fakeChat{reply: `{"is_valid": true}`}
			for _, v := range []*Validator{
				NewValidator(chat, DefaultValidatorConfig()),
				NewValidator(nil, DefaultValidatorConfig()),
			} {
				got := v.Validate(context.Background(), tt.query)
				if got.IsValid || got.ErrorMessage != tt.wantMsg || len(got.Suggestions) == 0 {
					t.Errorf("Validate() = %+v, want rejection %q with suggestions", got, tt.wantMsg)
				}
			}
			if chat.Calls() != 0 {
				t.Errorf("service calls = %d, want 0", chat.Calls())
			}
		})
	}
}

func TestValidateCachesServiceVerdicts(t *testing.T) {
	chat := &fakeChat{reply: `{"is_valid": false, "error_message": "нет", "suggestions": ["a"]}`}
	v := NewValidator(chat, DefaultValidatorConfig())
	ctx := context.Background()

	first := v.Validate(ctx, "Хороший фильм")
	first.Suggestions[0] = "mutated"
	second := v.Validate(ctx, "  хороший ФИЛЬМ ")
	if chat.Calls() != 1 {
		t.Errorf("service calls = %d, want 1", chat.Calls())
	}
	if second.Suggestions[0] != "a" {
		t.Errorf("cached verdict was mutated: %v", second.Suggestions)
	}

	// Heuristic verdicts are not cached.
	failing := &fakeChat{err: errors.New("down")}
	v = NewValidator(failing, DefaultValidatorConfig())
	v.Validate(ctx, "asdf")
	v.Validate(ctx, "asdf")
	if failing.Calls() != 2 {
		t.Errorf("service calls = %d, want 2", failing.Calls())
	}
}

func TestValidateTimeout(t *testing.T) {
	cfg := DefaultValidatorConfig()
	cfg.Timeout = 20 * time.Millisecond
	v := NewValidator(&fakeChat{block: true}, cfg)

	got := v.Validate(context.Background(), "Мрачный триллер с неожиданной концовкой")
	if !got.IsValid {
		t.Errorf("timed out validation should fall back to heuristic, got %+v", got)
	}
}
