// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package models

// ProfileUpdate is the body of PUT /profile. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Avatar *string `json:"avatar,omitempty" validate:"omitempty,max=4000000"`
}

// AvatarRequest is the body of POST /profile/generate-avatar.
type AvatarRequest struct {
	StylePrompt string `json:"style_prompt,omitempty" validate:"max=1000"`
}

// AvatarResponse carries a generated avatar as a data URL.
type AvatarResponse struct {
	Avatar string `json:"avatar"`
}

// OnboardingResponse acknowledges saved preferences.
type OnboardingResponse struct {
	Message    string `json:"message"`
	Compliment string `json:"compliment"`
}
