// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/starmaps/internal/models"
	"github.com/tomtom215/starmaps/internal/store"
)

// Key prefixes for BadgerDB storage
const (
	userKeyPrefix        = "user:"
	userEmailKeyPrefix   = "user_email:"
	sessionKeyPrefix     = "session:"
	sessionUserKeyPrefix = "session_user:"
	magicLinkKeyPrefix   = "magic:"
)

// UserStore persists user accounts.
type UserStore interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// CreateUser stores a new user. Returns ErrUserExists if the email is taken.
	CreateUser(ctx context.Context, user *models.User) error

	// FindOrCreateByEmail atomically returns the user registered under
	// candidate.Email after applying update to it, or stores candidate when
	// no such user exists. The boolean reports whether candidate was stored.
	FindOrCreateByEmail(ctx context.Context, candidate *models.User, update func(existing *models.User)) (*models.User, bool, error)

	// UpdateUser atomically applies fn to the stored user and returns the result.
	UpdateUser(ctx context.Context, userID string, fn func(user *models.User)) (*models.User, error)
}

// SessionStore persists sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession returns the stored session regardless of expiry.
	GetSession(ctx context.Context, token string) (*models.Session, error)

	// DeleteSession is idempotent.
	DeleteSession(ctx context.Context, token string) error

	DeleteUserSessions(ctx context.Context, userID string) (int, error)
}

// MagicLinkStore persists single-use login tokens.
type MagicLinkStore interface {
	CreateMagicLink(ctx context.Context, link *models.MagicLink) error

	// ConsumeMagicLink atomically loads and deletes the token.
	// Returns ErrInvalidToken when no such token exists.
	ConsumeMagicLink(ctx context.Context, token string) (*models.MagicLink, error)
}

// BadgerStore implements UserStore, SessionStore and MagicLinkStore on BadgerDB.
type BadgerStore struct {
	db         *store.DB
	purgeBatch int
}

// defaultPurgeBatch keeps a purge transaction well below badger's size limit.
const defaultPurgeBatch = 1000

// NewBadgerStore creates a BadgerDB-backed auth store.
func NewBadgerStore(db *store.DB) *BadgerStore {
	return &BadgerStore{db: db, purgeBatch: defaultPurgeBatch}
}

// GetUser retrieves a user by ID.
func (s *BadgerStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	var user *models.User
	err := s.db.View(ctx, func(txn *badger.Txn) error {
		var err error
		user, err = getUser(txn, userID)
		return err
	})
	return user, err
}

// GetUserByEmail retrieves a user by normalized email.
func (s *BadgerStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	err := s.db.View(ctx, func(txn *badger.Txn) error {
		var err error
		user, err = getUserByEmail(txn, NormalizeEmail(email))
		return err
	})
	return user, err
}

// CreateUser stores a new user and its email index.
func (s *BadgerStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.db.Update(ctx, func(txn *badger.Txn) error {
		exists, err := store.Exists(txn, userEmailKeyPrefix+user.Email)
		if err != nil {
			return err
		}
		if exists {
			return ErrUserExists
		}
		return insertUser(txn, user)
	})
}

// FindOrCreateByEmail implements UserStore.
func (s *BadgerStore) FindOrCreateByEmail(ctx context.Context, candidate *models.User, update func(existing *models.User)) (*models.User, bool, error) {
	var (
		result  *models.User
		created bool
	)
	err := s.db.Update(ctx, func(txn *badger.Txn) error {
		existing, err := getUserByEmail(txn, candidate.Email)
		switch {
		case errors.Is(err, ErrUserNotFound):
			if err := insertUser(txn, candidate); err != nil {
				return err
			}
			result, created = candidate, true
			return nil
		case err != nil:
			return err
		}

		if update != nil {
			update(existing)
			if err := store.SetJSON(txn, userKeyPrefix+existing.UserID, existing); err != nil {
				return err
			}
		}
		result, created = existing, false
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, created, nil
}

// UpdateUser implements UserStore. The user id and email are immutable.
func (s *BadgerStore) UpdateUser(ctx context.Context, userID string, fn func(user *models.User)) (*models.User, error) {
	var updated *models.User
	err := s.db.Update(ctx, func(txn *badger.Txn) error {
		user, err := getUser(txn, userID)
		if err != nil {
			return err
		}
		id, email := user.UserID, user.Email
		fn(user)
		user.UserID, user.Email = id, email
		if err := store.SetJSON(txn, userKeyPrefix+userID, user); err != nil {
			return err
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// CreateSession stores a session and the user-to-session mapping.
func (s *BadgerStore) CreateSession(ctx context.Context, session *models.Session) error {
	return s.db.Update(ctx, func(txn *badger.Txn) error {
		if err := store.SetJSON(txn, sessionKeyPrefix+session.Token, session); err != nil {
			return err
		}
		userKey := sessionUserKeyPrefix + session.UserID + ":" + session.Token
		if err := txn.Set([]byte(userKey), []byte(session.Token)); err != nil {
			return fmt.Errorf("set user mapping: %w", err)
		}
		return nil
	})
}

// GetSession retrieves a session by token.
func (s *BadgerStore) GetSession(ctx context.Context, token string) (*models.Session, error) {
	var session *models.Session
	err := s.db.View(ctx, func(txn *badger.Txn) error {
		var err error
		session, err = store.GetJSON[models.Session](txn, sessionKeyPrefix+token)
		if errors.Is(err, store.ErrNotFound) {
			return ErrSessionNotFound
		}
		return err
	})
	return session, err
}

// DeleteSession removes a session and its user mapping. Missing sessions are ignored.
func (s *BadgerStore) DeleteSession(ctx context.Context, token string) error {
	return s.db.Update(ctx, func(txn *badger.Txn) error {
		session, err := store.GetJSON[models.Session](txn, sessionKeyPrefix+token)
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := store.Delete(txn, sessionKeyPrefix+token); err != nil {
			return err
		}
		return store.Delete(txn, sessionUserKeyPrefix+session.UserID+":"+token)
	})
}

// DeleteUserSessions removes every session belonging to userID.
func (s *BadgerStore) DeleteUserSessions(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.Update(ctx, func(txn *badger.Txn) error {
		prefix := sessionUserKeyPrefix + userID + ":"
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)

		var tokens []string
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			tokens = append(tokens, strings.TrimPrefix(string(it.Item().Key()), prefix))
		}
		it.Close()

		for _, token := range tokens {
			if err := store.Delete(txn, sessionKeyPrefix+token); err != nil {
				return err
			}
			if err := store.Delete(txn, prefix+token); err != nil {
				return err
			}
		}
		count = len(tokens)
		return nil
	})
	return count, err
}

// CreateMagicLink stores a magic-link token.
func (s *BadgerStore) CreateMagicLink(ctx context.Context, link *models.MagicLink) error {
	return s.db.Update(ctx, func(txn *badger.Txn) error {
		return store.SetJSON(txn, magicLinkKeyPrefix+link.Token, link)
	})
}

// ConsumeMagicLink loads and deletes a token in one transaction, so
// concurrent verifications of the same token cannot both succeed.
func (s *BadgerStore) ConsumeMagicLink(ctx context.Context, token string) (*models.MagicLink, error) {
	var link *models.MagicLink
	err := s.db.Update(ctx, func(txn *badger.Txn) error {
		var err error
		link, err = store.GetJSON[models.MagicLink](txn, magicLinkKeyPrefix+token)
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}
		return store.Delete(txn, magicLinkKeyPrefix+token)
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

// PurgeExpired removes sessions and magic links that expired before now.
// Expired records are collected in one read and deleted in batches of
// purgeBatch records, one transaction per batch.
func (s *BadgerStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	var expired [][]string
	err := s.db.View(ctx, func(txn *badger.Txn) error {
		sessions, err := store.ScanPrefix[models.Session](txn, sessionKeyPrefix, store.ScanOptions{})
		if err != nil {
			return err
		}
		for i := range sessions {
			if sessions[i].ExpiredAt(now) {
				expired = append(expired, []string{
					sessionKeyPrefix + sessions[i].Token,
					sessionUserKeyPrefix + sessions[i].UserID + ":" + sessions[i].Token,
				})
			}
		}

		links, err := store.ScanPrefix[models.MagicLink](txn, magicLinkKeyPrefix, store.ScanOptions{})
		if err != nil {
			return err
		}
		for i := range links {
			if links[i].ExpiredAt(now) {
				expired = append(expired, []string{magicLinkKeyPrefix + links[i].Token})
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	purged := 0
	for len(expired) > 0 {
		n := min(s.purgeBatch, len(expired))
		batch := expired[:n]
		err := s.db.Update(ctx, func(txn *badger.Txn) error {
			for _, keys := range batch {
				for _, key := range keys {
					if err := store.Delete(txn, key); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return purged, fmt.Errorf("purge batch: %w", err)
		}
		purged += n
		expired = expired[n:]
	}
	return purged, nil
}

func getUser(txn *badger.Txn, userID string) (*models.User, error) {
	user, err := store.GetJSON[models.User](txn, userKeyPrefix+userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func getUserByEmail(txn *badger.Txn, email string) (*models.User, error) {
	item, err := txn.Get([]byte(userEmailKeyPrefix + email))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get email index: %w", err)
	}
	userID, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("read email index: %w", err)
	}
	return getUser(txn, string(userID))
}

// insertUser stores a new user, refusing ids that are already taken.
func insertUser(txn *badger.Txn, user *models.User) error {
	taken, err := store.Exists(txn, userKeyPrefix+user.UserID)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%w: id %s", ErrUserExists, user.UserID)
	}
	return putUser(txn, user)
}

func putUser(txn *badger.Txn, user *models.User) error {
	if err := store.SetJSON(txn, userKeyPrefix+user.UserID, user); err != nil {
		return err
	}
	if err := txn.Set([]byte(userEmailKeyPrefix+user.Email), []byte(user.UserID)); err != nil {
		return fmt.Errorf("set email index: %w", err)
	}
	return nil
}
