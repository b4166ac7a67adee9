// Package store persists the client's durable state: the bearer token that
// survives process restarts, and a cached copy of the last verified profile.
// It plays the role browser local storage played for the web client.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/pkittipat/feedloop/models"
)

const (
	// tokenKey is the fixed name the token is stored under.
	tokenKey   = "token"
	profileKey = "profile"
)

// CredentialStore is read once at session bootstrap and written on every
// login and logout.
type CredentialStore interface {
	// Token returns the persisted bearer token, or "" when none is stored.
	Token(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	// DeleteToken removes the persisted token. Deleting an absent token is
	// not an error.
	DeleteToken(ctx context.Context) error

	// Profile returns the cached profile of the last verified user, or nil
	// when none is cached.
	Profile(ctx context.Context) (*models.User, error)
	SaveProfile(ctx context.Context, user models.User) error
	DeleteProfile(ctx context.Context) error
}

type SQLiteCredentialStore struct {
	db *sql.DB
}

func NewSQLiteCredentialStore(db *sql.DB) *SQLiteCredentialStore {
	return &SQLiteCredentialStore{db: db}
}

func (s *SQLiteCredentialStore) get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteCredentialStore) put(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteCredentialStore) delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteCredentialStore) Token(ctx context.Context) (string, error) {
	return s.get(ctx, tokenKey)
}

func (s *SQLiteCredentialStore) SaveToken(ctx context.Context, token string) error {
	return s.put(ctx, tokenKey, token)
}

func (s *SQLiteCredentialStore) DeleteToken(ctx context.Context) error {
	return s.delete(ctx, tokenKey)
}

func (s *SQLiteCredentialStore) Profile(ctx context.Context) (*models.User, error) {
	value, err := s.get(ctx, profileKey)
	if err != nil {
		return nil, err
	}
	if value == "" {
		return nil, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		return nil, fmt.Errorf("decode cached profile: %w", err)
	}
	return &user, nil
}

func (s *SQLiteCredentialStore) SaveProfile(ctx context.Context, user models.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.put(ctx, profileKey, string(encoded))
}

func (s *SQLiteCredentialStore) DeleteProfile(ctx context.Context) error {
	return s.delete(ctx, profileKey)
}
