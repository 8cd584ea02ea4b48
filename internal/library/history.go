// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package library

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/oklog/ulid/v2"

	"github.com/tomtom215/starmaps/internal/models"
	"github.com/tomtom215/starmaps/internal/store"
)

const (
	historyKeyPrefix = "history:"

	// DefaultHistoryLimit is the number of entries returned by List when limit <= 0.
	DefaultHistoryLimit = 20
)

// History records queries issued by authenticated users.
type History struct {
	db  *store.DB
	now func() time.Time
}

// NewHistory creates a BadgerDB-backed history recorder.
func NewHistory(db *store.DB) *History {
	return &History{db: db, now: time.Now}
}

// SetClock replaces time.Now. Intended for tests.
func (h *History) SetClock(now func() time.Time) {
	h.now = now
}

// Record appends query to the user's history.
func (h *History) Record(ctx context.Context, userID, query string) (*models.HistoryEntry, error) {
	now := h.now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), ulid.DefaultEntropy())
	if err != nil {
		return nil, fmt.Errorf("generate history id: %w", err)
	}

	entry := &models.HistoryEntry{
		ID:        id.String(),
		UserID:    userID,
		Query:     query,
		CreatedAt: now,
	}
	err = h.db.Update(ctx, func(txn *badger.Txn) error {
		return store.SetJSON(txn, historyKey(userID)+entry.ID, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}
	return entry, nil
}

// List returns up to limit entries, newest first.
func (h *History) List(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var entries []models.HistoryEntry
	err := h.db.View(ctx, func(txn *badger.Txn) error {
		var err error
		entries, err = store.ScanPrefix[models.HistoryEntry](txn, historyKey(userID), store.ScanOptions{Reverse: true, Limit: limit})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// Clear deletes the user's history and returns the number of removed entries.
func (h *History) Clear(ctx context.Context, userID string) (int, error) {
	var n int
	err := h.db.Update(ctx, func(txn *badger.Txn) error {
		var err error
		n, err = store.DeletePrefix(txn, historyKey(userID))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return n, nil
}

func historyKey(userID string) string {
	return historyKeyPrefix + userID + ":"
}
