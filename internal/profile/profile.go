// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

// Package profile manages user-editable account data: onboarding
// preferences, display name and avatar.
package profile

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/starmaps/internal/auth"
	"github.com/tomtom215/starmaps/internal/llm"
	"github.com/tomtom215/starmaps/internal/logging"
	"github.com/tomtom215/starmaps/internal/models"
)

// FallbackCompliment is returned when no compliment can be generated.
const FallbackCompliment = "У вас отличный вкус в кино! Мы подберём для вас идеальные фильмы."

const (
	defaultGenre     = "драма"
	defaultMood      = "атмосферный"
	defaultCharacter = "загадочный герой"

	complimentPrompt = "Ты - дружелюбный киноэксперт. Сгенерируй короткий (1-2 предложения) тёплый и приятный комплимент пользователю на основе его вкусов в кино. Будь искренним и позитивным."
)

// ErrAvatarGeneration is returned when the image service produced no avatar.
var ErrAvatarGeneration = errors.New("avatar generation failed")

// Config configures Service.
type Config struct {
	ComplimentTimeout time.Duration
	AvatarTimeout     time.Duration
}

// Service implements profile operations. chat and images may be nil when
// the generative service is not configured.
type Service struct {
	users  auth.UserStore
	chat   llm.ChatClient
	images llm.ImageClient
	cfg    Config
	logger zerolog.Logger
}

// NewService creates a profile service.
func NewService(users auth.UserStore, chat llm.ChatClient, images llm.ImageClient, cfg Config) *Service {
	if cfg.ComplimentTimeout <= 0 {
		cfg.ComplimentTimeout = 15 * time.Second
	}
	if cfg.AvatarTimeout <= 0 {
		cfg.AvatarTimeout = 60 * time.Second
	}
	return &Service{
		users:  users,
		chat:   chat,
		images: images,
		cfg:    cfg,
		logger: logging.WithComponent("profile"),
	}
}

// CompleteOnboarding stores prefs, marks the user onboarded and returns a
// compliment. Compliment generation never fails the call.
func (s *Service) CompleteOnboarding(ctx context.Context, userID string, prefs models.Preferences) (*models.User, string, error) {
	user, err := s.users.UpdateUser(ctx, userID, func(u *models.User) {
		p := prefs
		u.Preferences = &p
		u.OnboardingCompleted = true
	})
	if err != nil {
		return nil, "", fmt.Errorf("save preferences: %w", err)
	}
	return user, s.compliment(ctx, prefs), nil
}

func (s *Service) compliment(ctx context.Context, prefs models.Preferences) string {
	if s.chat == nil {
		return FallbackCompliment
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ComplimentTimeout)
	defer cancel()

	prompt := fmt.Sprintf("Пользователь любит: жанр - %s, настроение - %s, эпоха - %s. Сгенерируй комплимент.",
		prefs.FavoriteGenre, prefs.FavoriteMood, prefs.FavoriteEra)
	text, err := s.chat.Chat(ctx,
		[]llm.Message{llm.System(complimentPrompt), llm.User(prompt)},
		llm.WithOperation("compliment"), llm.WithTemperature(0.8))
	if err != nil {
		s.logger.Warn().Err(err).Str("request_id", logging.RequestIDFromContext(ctx)).Msg("Compliment generation failed")
		return FallbackCompliment
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return FallbackCompliment
	}
	return text
}

// Update applies the non-nil fields of upd.
func (s *Service) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	user, err := s.users.UpdateUser(ctx, userID, func(u *models.User) {
		if upd.Name != nil {
			u.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Avatar != nil {
			u.Avatar = *upd.Avatar
		}
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// GenerateAvatar renders an avatar from the user's preferences, or from
// stylePrompt when given, and stores it as a PNG data URL.
func (s *Service) GenerateAvatar(ctx context.Context, user *models.User, stylePrompt string) (string, error) {
	if s.images == nil {
		return "", fmt.Errorf("%w: image service not configured", ErrAvatarGeneration)
	}

	prompt := strings.TrimSpace(stylePrompt)
	if prompt == "" {
		prompt = AvatarPrompt(user.Preferences)
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.AvatarTimeout)
	defer cancel()

	img, err := s.images.GenerateImage(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAvatarGeneration, err)
	}
	if len(img) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrAvatarGeneration)
	}

	avatar := "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
	if _, err := s.users.UpdateUser(ctx, user.UserID, func(u *models.User) {
		u.Avatar = avatar
	}); err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}
	return avatar, nil
}

// AvatarPrompt builds the default image prompt from preferences.
func AvatarPrompt(prefs *models.Preferences) string {
	genre, mood, character := defaultGenre, defaultMood, defaultCharacter
	if prefs != nil {
		if prefs.FavoriteGenre != "" {
			genre = prefs.FavoriteGenre
		}
		if prefs.FavoriteMood != "" {
			mood = prefs.FavoriteMood
		}
		if prefs.FavoriteCharacter != "" {
			character = prefs.FavoriteCharacter
		}
	}
	return fmt.Sprintf("Professional cinematic portrait of a person as a %s character from a %s film. %s lighting, movie poster style, dramatic composition, high quality, elegant.",
		character, genre, mood)
}
