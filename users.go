package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

func (s *Store) CreateUser(ctx context.Context, username, passwordHash, email string) (*User, error) {
	user := &User{
		ID:        uuid.NewString(),
		Username:  username,
		Password:  passwordHash,
		Email:     email,
		CreatedAt: s.now(),
	}

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, username, password, email, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		user.ID, user.Username, user.Password, user.Email, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	return user, nil
}

// GetUserByEmail matches the email exactly. Emails are not unique, so the
// earliest registration wins.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, s.q(`
		SELECT id, username, password, email, created_at
		FROM users
		WHERE email = ?
		ORDER BY created_at ASC, id ASC
		LIMIT 1`), email)

	var user User
	err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Email, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	return &user, nil
}
