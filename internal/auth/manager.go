// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/starmaps/internal/logging"
	"github.com/tomtom215/starmaps/internal/metrics"
	"github.com/tomtom215/starmaps/internal/models"
)

const (
	demoUserName = "Гость"

	methodIdentity  = "external"
	methodDemo      = "demo"
	methodMagicLink = "magic_link"
)

// ManagerConfig holds session lifetimes.
type ManagerConfig struct {
	SessionTTL     time.Duration
	DemoSessionTTL time.Duration
	MagicLinkTTL   time.Duration
}

// DefaultManagerConfig returns 7-day sessions, 1-day demo sessions and 1-hour magic links.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		SessionTTL:     7 * 24 * time.Hour,
		DemoSessionTTL: 24 * time.Hour,
		MagicLinkTTL:   time.Hour,
	}
}

// Manager issues, resolves and revokes sessions.
type Manager struct {
	users    UserStore
	sessions SessionStore
	links    MagicLinkStore
	identity IdentityProvider
	mailer   Mailer
	cfg      ManagerConfig
	now      func() time.Time
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithMailer delivers magic links by email in addition to returning them.
func WithMailer(m Mailer) ManagerOption {
	return func(mgr *Manager) { mgr.mailer = m }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ManagerOption {
	return func(mgr *Manager) { mgr.now = now }
}

// NewManager creates a Manager. Zero TTLs take the defaults.
func NewManager(users UserStore, sessions SessionStore, links MagicLinkStore, identity IdentityProvider, cfg ManagerConfig, opts ...ManagerOption) *Manager {
	def := DefaultManagerConfig()
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = def.SessionTTL
	}
	if cfg.DemoSessionTTL <= 0 {
		cfg.DemoSessionTTL = def.DemoSessionTTL
	}
	if cfg.MagicLinkTTL <= 0 {
		cfg.MagicLinkTTL = def.MagicLinkTTL
	}

	m := &Manager{
		users:    users,
		sessions: sessions,
		links:    links,
		identity: identity,
		cfg:      cfg,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// CreateFromExternalIdentity exchanges code with the identity provider and
// logs the matching user in, creating the account on first login.
func (m *Manager) CreateFromExternalIdentity(ctx context.Context, code string) (*models.User, *models.Session, error) {
	if strings.TrimSpace(code) == "" {
		metrics.AuthFailures.WithLabelValues("missing_code").Inc()
		return nil, nil, ErrUpstreamAuthFailure
	}

	identity, err := m.identity.Exchange(ctx, code)
	if err != nil {
		metrics.AuthFailures.WithLabelValues("upstream").Inc()
		if errors.Is(err, ErrUpstreamAuthFailure) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrUpstreamAuthFailure, err)
	}

	now := m.now().UTC()
	candidate := &models.User{
		UserID:    newUserID(),
		Email:     NormalizeEmail(identity.Email),
		Name:      identity.Name,
		Picture:   identity.Picture,
		CreatedAt: now,
	}
	user, created, err := m.users.FindOrCreateByEmail(ctx, candidate, func(existing *models.User) {
		existing.Name = identity.Name
		existing.Picture = identity.Picture
	})
	if err != nil {
		return nil, nil, fmt.Errorf("store user: %w", err)
	}

	session, err := m.issueSession(ctx, user.UserID, m.cfg.SessionTTL, methodIdentity)
	if err != nil {
		return nil, nil, err
	}

	logging.Ctx(ctx).Info().
		Str("user_id", user.UserID).
		Bool("new_user", created).
		Msg("User logged in via identity provider")
	return user, session, nil
}

// CreateDemo creates a throwaway account with a short session.
func (m *Manager) CreateDemo(ctx context.Context) (*models.User, *models.Session, error) {
	user := &models.User{
		UserID:    newUserID(),
		Email:     demoEmail(),
		Name:      demoUserName,
		CreatedAt: m.now().UTC(),
	}
	if err := m.users.CreateUser(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("store demo user: %w", err)
	}

	session, err := m.issueSession(ctx, user.UserID, m.cfg.DemoSessionTTL, methodDemo)
	if err != nil {
		return nil, nil, err
	}

	logging.Ctx(ctx).Info().Str("user_id", user.UserID).Msg("Demo user created")
	return user, session, nil
}

// CreateMagicLink finds or creates the user for email and returns a
// single-use login token. When a Mailer is configured the token is also sent
// by email; delivery failures are logged and do not fail the call.
func (m *Manager) CreateMagicLink(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", ErrInvalidEmail
	}

	now := m.now().UTC()
	name, _, _ := strings.Cut(email, "@")
	user, _, err := m.users.FindOrCreateByEmail(ctx, &models.User{
		UserID:    newUserID(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("store user: %w", err)
	}

	token, err := newMagicToken()
	if err != nil {
		return "", err
	}
	link := &models.MagicLink{
		Token:     token,
		UserID:    user.UserID,
		Email:     email,
		ExpiresAt: now.Add(m.cfg.MagicLinkTTL),
		CreatedAt: now,
	}
	if err := m.links.CreateMagicLink(ctx, link); err != nil {
		return "", fmt.Errorf("store magic link: %w", err)
	}

	if m.mailer != nil {
		if err := m.mailer.SendMagicLink(ctx, email, token); err != nil {
			logging.Ctx(ctx).Warn().Err(err).
				Str("email", logging.SanitizeEmail(email)).
				Msg("Magic link delivery failed")
		}
	}

	logging.Ctx(ctx).Info().
		Str("user_id", user.UserID).
		Str("token", logging.SanitizeToken(token)).
		Msg("Magic link issued")
	return token, nil
}

// VerifyMagicLink consumes token and logs its user in. The token is
// consumed even when it turns out to be expired.
func (m *Manager) VerifyMagicLink(ctx context.Context, token string) (*models.User, *models.Session, error) {
	link, err := m.links.ConsumeMagicLink(ctx, token)
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			metrics.AuthFailures.WithLabelValues("invalid_token").Inc()
		}
		return nil, nil, err
	}
	if link.ExpiredAt(m.now()) {
		metrics.AuthFailures.WithLabelValues("token_expired").Inc()
		return nil, nil, ErrTokenExpired
	}

	user, err := m.users.GetUser(ctx, link.UserID)
	if errors.Is(err, ErrUserNotFound) {
		metrics.AuthFailures.WithLabelValues("orphaned_token").Inc()
		return nil, nil, ErrInvalidToken
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	session, err := m.issueSession(ctx, user.UserID, m.cfg.SessionTTL, methodMagicLink)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Resolve returns the user owning token, or nil when the token is empty,
// unknown, expired or orphaned. It never fails; store errors are logged and
// treated as absence.
func (m *Manager) Resolve(ctx context.Context, token string) *models.User {
	if token == "" {
		return nil
	}

	session, err := m.sessions.GetSession(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			logging.Ctx(ctx).Error().Err(err).Msg("Session lookup failed")
		}
		return nil
	}
	if session.ExpiredAt(m.now()) {
		return nil
	}

	user, err := m.users.GetUser(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, ErrUserNotFound) {
			logging.Ctx(ctx).Error().Err(err).Msg("Session user lookup failed")
		}
		return nil
	}
	return user
}

// RequireAuth is Resolve with absence turned into ErrAuthenticationRequired.
func (m *Manager) RequireAuth(ctx context.Context, token string) (*models.User, error) {
	user := m.Resolve(ctx, token)
	if user == nil {
		return nil, ErrAuthenticationRequired
	}
	return user, nil
}

// Revoke deletes the session for token. Revoking an unknown or already
// revoked token is not an error.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.sessions.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeAll deletes every session of userID.
func (m *Manager) RevokeAll(ctx context.Context, userID string) (int, error) {
	n, err := m.sessions.DeleteUserSessions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions: %w", err)
	}
	return n, nil
}

// Users exposes the user store for profile updates.
func (m *Manager) Users() UserStore {
	return m.users
}

// Now returns the manager's clock reading.
func (m *Manager) Now() time.Time {
	return m.now()
}

func (m *Manager) issueSession(ctx context.Context, userID string, ttl time.Duration, method string) (*models.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}
	now := m.now().UTC()
	session := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	if err := m.sessions.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	metrics.SessionsIssued.WithLabelValues(method).Inc()
	return session, nil
}
