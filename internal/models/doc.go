// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

// Package models defines the JSON wire types shared by the store, the
// recommendation pipeline and the HTTP API.
//
// Timestamps are always UTC. Success responses are the bare domain objects;
// failures use the ErrorResponse envelope.
package models
