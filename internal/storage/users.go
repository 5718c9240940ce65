package storage

import (
	"context"
	"fmt"
	"time"
)

// User is one account row. Premium gates access to premium-flagged
// stretches.
type User struct {
	ID          int       `json:"id"`
	Login       string    `json:"login"`
	DisplayName string    `json:"displayName"`
	Premium     bool      `json:"premium"`
	CreatedAt   time.Time `json:"createdAt"`
	LastSeen    time.Time `json:"lastSeen"`
}

// GetOrCreateUser finds or creates a user by Tailscale login name.
// Returns the user ID. Updates last_seen and display_name on each call.
func (db *DB) GetOrCreateUser(ctx context.Context, login, displayName string) (int, error) {
	var id int
	err := db.Pool.QueryRow(ctx, `
		INSERT INTO users (login, display_name)
		VALUES ($1, $2)
		ON CONFLICT (login) DO UPDATE
			SET last_seen = NOW(), display_name = COALESCE(NULLIF($2, ''), users.display_name)
		RETURNING id
	`, login, displayName).Scan(&id)
	return id, err
}

// GetUser retrieves a single user row.
func (db *DB) GetUser(ctx context.Context, userID int) (*User, error) {
	var u User
	err := db.Pool.QueryRow(ctx, `
		SELECT id, login, display_name, premium, created_at, last_seen
		FROM users WHERE id = $1
	`, userID).Scan(&u.ID, &u.Login, &u.DisplayName, &u.Premium, &u.CreatedAt, &u.LastSeen)
	if err != nil {
		return nil, fmt.Errorf("querying user %d: %w", userID, err)
	}
	return &u, nil
}

// IsPremium reports whether the user may receive premium stretches. It
// is resolved once per generation request, before the pipeline runs.
func (db *DB) IsPremium(ctx context.Context, userID int) (bool, error) {
	var premium bool
	err := db.Pool.QueryRow(ctx,
		`SELECT premium FROM users WHERE id = $1`, userID,
	).Scan(&premium)
	if err != nil {
		return false, fmt.Errorf("querying premium flag for user %d: %w", userID, err)
	}
	return premium, nil
}

// SetPremium flips the premium entitlement for a user.
func (db *DB) SetPremium(ctx context.Context, userID int, premium bool) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE users SET premium = $2 WHERE id = $1`, userID, premium)
	if err != nil {
		return fmt.Errorf("updating premium flag for user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no user with id %d", userID)
	}
	return nil
}
