// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package auth

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/resendlabs/resend-go"
)

// Mailer delivers magic-link tokens to users.
type Mailer interface {
	SendMagicLink(ctx context.Context, email, token string) error
}

// ResendConfig configures ResendMailer.
type ResendConfig struct {
	APIKey      string
	FromAddress string
	FromName    string

	// LinkURL is the frontend page that redeems tokens; the token is added
	// as the "token" query parameter.
	LinkURL string
}

// ResendMailer sends magic links through the Resend API.
type ResendMailer struct {
	client  *resend.Client
	from    string
	linkURL string
}

// NewResendMailer creates a mailer.
func NewResendMailer(cfg ResendConfig) *ResendMailer {
	from := cfg.FromAddress
	if cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromAddress)
	}
	return &ResendMailer{
		client:  resend.NewClient(cfg.APIKey),
		from:    from,
		linkURL: cfg.LinkURL,
	}
}

// SendMagicLink implements Mailer.
func (m *ResendMailer) SendMagicLink(ctx context.Context, email, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	link, err := magicLinkURL(m.linkURL, token)
	if err != nil {
		return err
	}

	_, err = m.client.Emails.Send(&resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email},
		Subject: "Вход в StarMaps",
		Html:    magicLinkHTML(link),
	})
	if err != nil {
		return fmt.Errorf("send magic link: %w", err)
	}
	return nil
}

func magicLinkURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse magic link url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func magicLinkHTML(link string) string {
	var b strings.Builder
	b.WriteString(`<p>Здравствуйте!</p>`)
	b.WriteString(`<p>Чтобы войти в StarMaps, перейдите по ссылке:</p>`)
	b.WriteString(`<p><a href="` + html.EscapeString(link) + `">Войти</a></p>`)
	b.WriteString(`<p>Ссылка действует один час и может быть использована только один раз.</p>`)
	return b.String()
}
