// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package models

import "time"

// ErrorResponse is the envelope for every non-2xx response.
//
//	{
//	  "status": "error",
//	  "error": {"code": "NOT_FOUND", "message": "Movie not found"},
//	  "metadata": {"timestamp": "2026-01-02T15:04:05Z"}
//	}
type ErrorResponse struct {
	Status   string    `json:"status"`
	Error    *APIError `json:"error"`
	Metadata Metadata  `json:"metadata"`
}

// Metadata carries response bookkeeping.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable error.
//
// Codes: VALIDATION_ERROR, UNAUTHORIZED, UPSTREAM_AUTH_FAILED, INVALID_TOKEN,
// TOKEN_EXPIRED, NOT_FOUND, RATE_LIMIT_EXCEEDED, AVATAR_GENERATION_FAILED,
// INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// MagicLinkResponse carries a freshly issued magic-link token.
type MagicLinkResponse struct {
	DemoToken string `json:"demo_token"`
}

// ServiceInfo is returned from the API root.
type ServiceInfo struct {
	Message     string `json:"message"`
	Version     string `json:"version"`
	MoviesCount int    `json:"movies_count"`
}
