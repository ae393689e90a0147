// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/tomtom215/linkpulse/internal/models"
)

const userColumns = `id, username, email, password_hash, is_admin, created_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts an account. A taken username or email yields
// models.ErrUserExists.
func (db *DB) CreateUser(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO users (username, email, password_hash, is_admin, created_at)
		VALUES ($1, $2, $3, false, $4)
		RETURNING id`,
		username, email, passwordHash, user.CreatedAt,
	).Scan(&user.ID)
	observe("INSERT", "users", start, err)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrUserExists
		}
		return nil, db.storeError(ctx, "create user", err)
	}
	return user, nil
}

// GetUserByEmail returns the account registered with email.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return db.getUser(ctx, "email", email)
}

// GetUserByID returns the account with id.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return db.getUser(ctx, "id", id)
}

func (db *DB) getUser(ctx context.Context, column string, value any) (*models.User, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	start := time.Now()
	user, err := scanUser(db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value)) //nolint:gosec
	if errors.Is(err, sql.ErrNoRows) {
		observe("SELECT", "users", start, nil)
		return nil, models.ErrNotFound
	}
	observe("SELECT", "users", start, err)
	if err != nil {
		return nil, db.storeError(ctx, "get user", err)
	}
	return user, nil
}

// PromoteAdmin sets is_admin for the account registered with email.
func (db *DB) PromoteAdmin(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	start := time.Now()
	user, err := scanUser(db.conn.QueryRowContext(ctx,
		`UPDATE users SET is_admin = true WHERE email = $1 RETURNING `+userColumns, email))
	if errors.Is(err, sql.ErrNoRows) {
		observe("UPDATE", "users", start, nil)
		return nil, models.ErrNotFound
	}
	observe("UPDATE", "users", start, err)
	if err != nil {
		return nil, db.storeError(ctx, "promote admin", err)
	}
	return user, nil
}

// ListUsersWithStats returns a page of accounts with their link count and
// total clicks, newest first.
func (db *DB) ListUsersWithStats(ctx context.Context, limit, offset int) ([]models.AdminUser, int64, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	start := time.Now()
	var total int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		observe("SELECT", "users", start, err)
		return nil, 0, db.storeError(ctx, "count users", err)
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.username, u.email, u.is_admin, u.created_at,
		       COUNT(l.id) AS url_count,
		       CAST(COALESCE(SUM(l.clicks), 0) AS BIGINT) AS total_clicks
		FROM users u
		LEFT JOIN urls l ON u.id = l.user_id
		GROUP BY u.id, u.username, u.email, u.is_admin, u.created_at
		ORDER BY u.created_at DESC, u.id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		observe("SELECT", "users", start, err)
		return nil, 0, db.storeError(ctx, "list users", err)
	}
	defer closeWithLog(rows, "rows")

	users := make([]models.AdminUser, 0)
	for rows.Next() {
		var u models.AdminUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.IsAdmin, &u.CreatedAt, &u.URLCount, &u.TotalClicks); err != nil {
			return nil, 0, db.storeError(ctx, "scan user", err)
		}
		users = append(users, u)
	}
	err = rows.Err()
	observe("SELECT", "users", start, err)
	if err != nil {
		return nil, 0, db.storeError(ctx, "list users", err)
	}
	return users, total, nil
}
