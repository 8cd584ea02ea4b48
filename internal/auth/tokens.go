// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	userIDPrefix       = "user_"
	sessionTokenPrefix = "sess_"
	magicTokenPrefix   = "ml_"
	tokenBytes         = 32
)

// newUserID returns "user_" followed by 12 hex characters of a random UUID.
func newUserID() string {
	return userIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

func newSessionToken() (string, error) {
	return randomToken(sessionTokenPrefix)
}

func newMagicToken() (string, error) {
	return randomToken(magicTokenPrefix)
}

func randomToken(prefix string) (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return prefix + hex.EncodeToString(b), nil
}

// demoEmail returns a recognizable placeholder address.
func demoEmail() string {
	return "demo_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + "@demo.starmaps.local"
}

// IsDemoEmail reports whether email was minted for a demo account.
func IsDemoEmail(email string) bool {
	return strings.HasPrefix(email, "demo_") && strings.HasSuffix(email, "@demo.starmaps.local")
}

// NormalizeEmail trims and lower-cases an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
