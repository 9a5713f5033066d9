package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mattn/go-sqlite3"

	"github.com/pocketledger/pocketledger/internal/common"
	"github.com/pocketledger/pocketledger/internal/model"
)

// CreateUser inserts a new user row. A username collision surfaces as
// common.ErrDuplicateEntry.
func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	return s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO users (id, username, email) VALUES (?, ?, ?)`,
			user.ID, user.Username, nullable(user.Email))
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return fmt.Errorf("%w: username %s", common.ErrDuplicateEntry, user.Username)
		}
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		slog.Info("created user", "id", user.ID, "username", user.Username)
		return nil
	})
}

// GetUser returns a user by id, or ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id string) (*model.User, error) {
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var user model.User
	err := s.withDB(ctx, func(db *sql.DB) error {
		var email sql.NullString
		err := db.QueryRowContext(ctx,
			`SELECT id, username, email, created_at FROM users WHERE id = ?`, id).
			Scan(&user.ID, &user.Username, &email, &user.CreatedAt)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: user %s", ErrNotFound, id)
		}
		if err != nil {
			return fmt.Errorf("failed to query user: %w", err)
		}
		user.Email = email.String
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername returns a user by username, or ErrNotFound.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := validateString(username, "username"); err != nil {
		return nil, err
	}

	var user model.User
	err := s.withDB(ctx, func(db *sql.DB) error {
		var email sql.NullString
		err := db.QueryRowContext(ctx,
			`SELECT id, username, email, created_at FROM users WHERE username = ?`, username).
			Scan(&user.ID, &user.Username, &email, &user.CreatedAt)
		if err == sql.ErrNoRows {
			return fmt.Errorf("%w: user %s", ErrNotFound, username)
		}
		if err != nil {
			return fmt.Errorf("failed to query user: %w", err)
		}
		user.Email = email.String
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
