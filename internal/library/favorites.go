// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package library

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/oklog/ulid/v2"

	"github.com/tomtom215/starmaps/internal/catalog"
	"github.com/tomtom215/starmaps/internal/models"
	"github.com/tomtom215/starmaps/internal/store"
)

const (
	favoriteKeyPrefix = "favorite:"

	// DefaultFavoritesLimit is the number of favorites returned by List when limit <= 0.
	DefaultFavoritesLimit = 100
)

// MovieLookup resolves catalog entries.
type MovieLookup interface {
	Lookup(id string) (catalog.Entry, bool)
}

// Favorites manages saved films.
type Favorites struct {
	db     *store.DB
	movies MovieLookup
	now    func() time.Time
}

// NewFavorites creates a BadgerDB-backed favorites store.
func NewFavorites(db *store.DB, movies MovieLookup) *Favorites {
	return &Favorites{db: db, movies: movies, now: time.Now}
}

// SetClock replaces time.Now. Intended for tests.
func (f *Favorites) SetClock(now func() time.Time) {
	f.now = now
}

// Add saves movieID for the user. Adding a film twice returns the original
// record; the boolean reports whether a new record was created. Unknown
// films yield catalog.ErrMovieNotFound.
func (f *Favorites) Add(ctx context.Context, userID, movieID string) (*models.Favorite, bool, error) {
	movie, ok := f.movies.Lookup(movieID)
	if !ok {
		return nil, false, fmt.Errorf("%w: %s", catalog.ErrMovieNotFound, movieID)
	}

	now := f.now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), ulid.DefaultEntropy())
	if err != nil {
		return nil, false, fmt.Errorf("generate favorite id: %w", err)
	}

	var (
		result  *models.Favorite
		created bool
	)
	key := favoriteKey(userID, movieID)
	err = f.db.Update(ctx, func(txn *badger.Txn) error {
		existing, err := store.GetJSON[models.Favorite](txn, key)
		if err == nil {
			result, created = existing, false
			return nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		fav := &models.Favorite{
			ID:          id.String(),
			UserID:      userID,
			MovieID:     movie.ID,
			MovieTitle:  movie.DisplayTitle(),
			MoviePoster: movie.Poster,
			CreatedAt:   now,
		}
		if err := store.SetJSON(txn, key, fav); err != nil {
			return err
		}
		result, created = fav, true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("add favorite: %w", err)
	}
	return result, created, nil
}

// List returns up to limit favorites, newest first.
func (f *Favorites) List(ctx context.Context, userID string, limit int) ([]models.Favorite, error) {
	if limit <= 0 {
		limit = DefaultFavoritesLimit
	}
	var favs []models.Favorite
	err := f.db.View(ctx, func(txn *badger.Txn) error {
		var err error
		favs, err = store.ScanPrefix[models.Favorite](txn, favoriteKeyPrefix+userID+":", store.ScanOptions{})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	sort.SliceStable(favs, func(i, j int) bool {
		if !favs[i].CreatedAt.Equal(favs[j].CreatedAt) {
			return favs[i].CreatedAt.After(favs[j].CreatedAt)
		}
		return favs[i].ID > favs[j].ID
	})
	if len(favs) > limit {
		favs = favs[:limit]
	}
	return favs, nil
}

// Remove deletes movieID from the user's favorites. Removing a film that is
// not saved is not an error; the boolean reports whether anything was removed.
func (f *Favorites) Remove(ctx context.Context, userID, movieID string) (bool, error) {
	var removed bool
	key := favoriteKey(userID, movieID)
	err := f.db.Update(ctx, func(txn *badger.Txn) error {
		exists, err := store.Exists(txn, key)
		if err != nil || !exists {
			removed = false
			return err
		}
		removed = true
		return store.Delete(txn, key)
	})
	if err != nil {
		return false, fmt.Errorf("remove favorite: %w", err)
	}
	return removed, nil
}

func favoriteKey(userID, movieID string) string {
	return favoriteKeyPrefix + userID + ":" + movieID
}
