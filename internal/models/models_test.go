// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package models

import (
	"testing"
	"time"
)

func TestSessionExpiredAt(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: expires}

	moscow := time.FixedZone("MSK", 3*60*60)
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before", expires.Add(-time.Nanosecond), false},
		{"exactly at expiry", expires, true},
		{"after", expires.Add(time.Second), true},
		{"same instant in another zone", expires.In(moscow), true},
		{"earlier instant in another zone", expires.Add(-time.Minute).In(moscow), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ExpiredAt(tt.now); got != tt.want {
				t.Errorf("ExpiredAt(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestMagicLinkExpiredAt(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := &MagicLink{ExpiresAt: expires}
	if m.ExpiredAt(expires.Add(-time.Second)) {
		t.Error("token should be live before expiry")
	}
	if !m.ExpiredAt(expires) {
		t.Error("token should be dead at expiry")
	}
}

func TestGraphCloneIsDeep(t *testing.T) {
	g := GraphResponse{
		Nodes:        []GraphNode{{ID: "a", Title: "A", Year: 2000, Vibe: "x"}},
		Links:        []GraphLink{{Source: "a", Target: "a", Strength: 0.5}},
		QuerySummary: "s",
	}
	c := g.Clone()
	c.Nodes[0].Title = "changed"
	c.Links[0].Strength = 1
	if g.Nodes[0].Title != "A" || g.Links[0].Strength != 0.5 {
		t.Error("Clone shares backing arrays with the original")
	}
	if _, ok := g.NodeIDs()["a"]; !ok {
		t.Error("NodeIDs missing a")
	}
}
