// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package logging

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxLoggedValue bounds user-controlled strings in log entries.
const maxLoggedValue = 200

// SanitizeValue strips control characters and truncates user input for logging.
func SanitizeValue(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	if utf8.RuneCountInString(s) > maxLoggedValue {
		runes := []rune(s)
		s = string(runes[:maxLoggedValue]) + "..."
	}
	return s
}

// SanitizeToken keeps only the recognizable prefix of a credential.
//
//	SanitizeToken("sess_3fa9c0...") == "sess_3fa..."
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	keep := 8
	if len(token) <= keep {
		return "***"
	}
	return token[:keep] + "..."
}

// SanitizeEmail masks the local part of an address.
//
//	SanitizeEmail("alice@example.com") == "a***@example.com"
func SanitizeEmail(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 {
		return "***"
	}
	r, _ := utf8.DecodeRuneInString(email)
	return string(r) + "***" + email[at:]
}
