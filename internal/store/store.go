// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

// Package store wraps an embedded BadgerDB holding every persisted StarMaps
// collection: users, sessions, magic links, search history and favorites.
//
// Each collection owns a key prefix and stores documents as JSON. Callers
// compose reads and writes inside View/Update transactions using the typed
// helpers GetJSON, SetJSON and ScanPrefix.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("store: not found")

// maxConflictRetries bounds retries of Update after a serialization conflict.
const maxConflictRetries = 3

// Options configures Open.
type Options struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in RAM; nothing survives a restart.
	InMemory bool
}

// DB is a handle to the document store. Safe for concurrent use.
type DB struct {
	db       *badger.DB
	inMemory bool
}

// Open opens (creating if needed) the store.
func Open(opts Options) (*DB, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, fmt.Errorf("store path is required")
		}
		bopts = badger.DefaultOptions(opts.Path)
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger db: %w", err)
	}
	return &DB{db: db, inMemory: opts.InMemory}, nil
}

// OpenInMemory opens a throwaway store, mainly for tests.
func OpenInMemory() (*DB, error) {
	return Open(Options{InMemory: true})
}

// Close flushes and closes the store.
func (d *DB) Close() error {
	return d.db.Close()
}

// View runs fn in a read-only transaction.
func (d *DB) View(ctx context.Context, fn func(txn *badger.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.db.View(fn)
}

// Update runs fn in a read-write transaction, retrying on conflicts with
// concurrent writers. fn must be safe to re-run.
func (d *DB) Update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = d.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return err
}

// Ping verifies the store can serve reads.
func (d *DB) Ping(ctx context.Context) error {
	if d.db.IsClosed() {
		return errors.New("store is closed")
	}
	return d.View(ctx, func(txn *badger.Txn) error {
		_, err := txn.Get([]byte("__ping__"))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// RunGC reclaims value log space until nothing more can be rewritten.
// Returns the number of files rewritten.
func (d *DB) RunGC(discardRatio float64) (int, error) {
	if d.inMemory {
		return 0, nil
	}
	rewritten := 0
	for {
		err := d.db.RunValueLogGC(discardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
			return rewritten, nil
		}
		if err != nil {
			return rewritten, fmt.Errorf("value log gc: %w", err)
		}
		rewritten++
	}
}

// GetJSON loads and decodes the document at key.
func GetJSON[T any](txn *badger.Txn, key string) (*T, error) {
	item, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	var v T
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &v)
	}); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &v, nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(txn *badger.Txn, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := txn.Set([]byte(key), data); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Exists reports whether key is present.
func Exists(txn *badger.Txn, key string) (bool, error) {
	_, err := txn.Get([]byte(key))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	return true, nil
}

// Delete removes key. Missing keys are not an error.
func Delete(txn *badger.Txn, key string) error {
	if err := txn.Delete([]byte(key)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// ScanOptions control ScanPrefix.
type ScanOptions struct {
	// Reverse iterates from the largest key down.
	Reverse bool

	// Limit caps the number of results; 0 means unlimited.
	Limit int
}

// ScanPrefix decodes every document whose key starts with prefix, in key order.
func ScanPrefix[T any](txn *badger.Txn, prefix string, opts ScanOptions) ([]T, error) {
	iopts := badger.DefaultIteratorOptions
	iopts.Prefix = []byte(prefix)
	iopts.Reverse = opts.Reverse
	it := txn.NewIterator(iopts)
	defer it.Close()

	out := make([]T, 0)
	p := []byte(prefix)
	for it.Seek(seekKey(p, opts.Reverse)); it.ValidForPrefix(p); it.Next() {
		var v T
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &v)
		}); err != nil {
			return nil, fmt.Errorf("decode %s: %w", it.Item().Key(), err)
		}
		out = append(out, v)
		if opts.Limit > 0 && len(out) >= opts.Limit {
			break
		}
	}
	return out, nil
}

// DeletePrefix removes every key starting with prefix and returns the count.
func DeletePrefix(txn *badger.Txn, prefix string) (int, error) {
	iopts := badger.DefaultIteratorOptions
	iopts.PrefetchValues = false
	iopts.Prefix = []byte(prefix)
	it := txn.NewIterator(iopts)

	var keys [][]byte
	p := []byte(prefix)
	for it.Seek(p); it.ValidForPrefix(p); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	it.Close()

	for _, k := range keys {
		if err := txn.Delete(k); err != nil {
			return 0, fmt.Errorf("delete %s: %w", k, err)
		}
	}
	return len(keys), nil
}

// seekKey positions a reverse iterator after the last key with prefix.
func seekKey(prefix []byte, reverse bool) []byte {
	if !reverse {
		return prefix
	}
	k := make([]byte, len(prefix)+1)
	copy(k, prefix)
	k[len(prefix)] = 0xFF
	return k
}
