// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/linkpulse/internal/logging"
	"github.com/tomtom215/linkpulse/internal/metrics"
	"github.com/tomtom215/linkpulse/internal/models"
)

const linkColumns = `id, user_id, short_code, original_url, title, description, clicks, created_at, expires_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLink(row rowScanner) (*models.ShortLink, error) {
	var link models.ShortLink
	if err := row.Scan(
		&link.ID, &link.UserID, &link.ShortCode, &link.OriginalURL,
		&link.Title, &link.Description, &link.Clicks, &link.CreatedAt, &link.ExpiresAt,
	); err != nil {
		return nil, err
	}
	return &link, nil
}

// CreateLink inserts a short link owned by ownerID. The UNIQUE constraint on
// short_code is authoritative: a duplicate yields models.ErrCodeAlreadyTaken.
func (db *DB) CreateLink(ctx context.Context, ownerID int64, target, code string, opts models.LinkOptions) (*models.ShortLink, error) {
	if err := models.ValidateTargetURL(target); err != nil {
		return nil, err
	}

	unlock := db.lockCode(code)
	defer unlock()

	ctx, cancel := db.opContext(ctx)
	defer cancel()

	link := &models.ShortLink{
		UserID:      ownerID,
		ShortCode:   code,
		OriginalURL: target,
		Title:       opts.Title,
		Description: opts.Description,
		ExpiresAt:   opts.ExpiresAt,
		CreatedAt:   time.Now().UTC(),
	}

	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO urls (user_id, short_code, original_url, title, description, clicks, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7)
		RETURNING id`,
		ownerID, code, target, nullString(opts.Title), nullString(opts.Description), link.CreatedAt, nullTime(opts.ExpiresAt),
	).Scan(&link.ID)
	observe("INSERT", "urls", start, err)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s", models.ErrCodeAlreadyTaken, code)
		}
		return nil, db.storeError(ctx, "create link", err)
	}
	return link, nil
}

// LinkCodeExists reports whether code is taken. It is advisory only; the
// insert still enforces uniqueness.
func (db *DB) LinkCodeExists(ctx context.Context, code string) (bool, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	var exists bool
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM urls WHERE short_code = $1)`, code).Scan(&exists)
	observe("SELECT", "urls", start, err)
	if err != nil {
		return false, db.storeError(ctx, "check short code", err)
	}
	return exists, nil
}

// GetLinkByCode returns the link for code (case-sensitive exact match).
func (db *DB) GetLinkByCode(ctx context.Context, code string) (*models.ShortLink, error) {
	return db.getLink(ctx, "short_code", code)
}

// GetLinkByID returns the link with id.
func (db *DB) GetLinkByID(ctx context.Context, id int64) (*models.ShortLink, error) {
	return db.getLink(ctx, "id", id)
}

func (db *DB) getLink(ctx context.Context, column string, value any) (*models.ShortLink, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	start := time.Now()
	// column is one of two constants above, never user input.
	link, err := scanLink(db.conn.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM urls WHERE `+column+` = $1`, value)) //nolint:gosec
	if errors.Is(err, sql.ErrNoRows) {
		observe("SELECT", "urls", start, nil)
		return nil, models.ErrNotFound
	}
	observe("SELECT", "urls", start, err)
	if err != nil {
		return nil, db.storeError(ctx, "get link", err)
	}
	return link, nil
}

// ListLinksByOwner returns the owner's links, newest first.
func (db *DB) ListLinksByOwner(ctx context.Context, ownerID int64) ([]models.ShortLink, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM urls WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, ownerID)
	if err != nil {
		observe("SELECT", "urls", start, err)
		return nil, db.storeError(ctx, "list links", err)
	}
	defer closeWithLog(rows, "rows")

	links := make([]models.ShortLink, 0)
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, db.storeError(ctx, "scan link", err)
		}
		links = append(links, *link)
	}
	err = rows.Err()
	observe("SELECT", "urls", start, err)
	if err != nil {
		return nil, db.storeError(ctx, "list links", err)
	}
	return links, nil
}

// DeleteOwnedLink deletes the link only when ownerID owns it. Another
// owner's link is reported as models.ErrNotFound.
func (db *DB) DeleteOwnedLink(ctx context.Context, ownerID, id int64) error {
	_, err := db.deleteLink(ctx, id, &ownerID)
	return err
}

// DeleteLink deletes any link. Used by admins.
func (db *DB) DeleteLink(ctx context.Context, id int64) (*models.DeletedLink, error) {
	return db.deleteLink(ctx, id, nil)
}

// deleteLink removes the link and its click events in one transaction.
func (db *DB) deleteLink(ctx context.Context, id int64, ownerID *int64) (*models.DeletedLink, error) {
	unlock := db.lockLink(id)
	defer unlock()

	ctx, cancel := db.opContext(ctx)
	defer cancel()

	var deleted *models.DeletedLink
	start := time.Now()
	err := withConflictRetry(ctx, "delete_link", func() error {
		var err error
		deleted, err = db.doDeleteLink(ctx, id, ownerID)
		return err
	})
	if errors.Is(err, models.ErrNotFound) {
		observe("DELETE", "urls", start, nil)
		return nil, err
	}
	observe("DELETE", "urls", start, err)
	if err != nil {
		return nil, db.storeError(ctx, "delete link", err)
	}
	return deleted, nil
}

func (db *DB) doDeleteLink(ctx context.Context, id int64, ownerID *int64) (*models.DeletedLink, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	query := `DELETE FROM urls WHERE id = $1 RETURNING id, short_code`
	args := []any{id}
	if ownerID != nil {
		query = `DELETE FROM urls WHERE id = $1 AND user_id = $2 RETURNING id, short_code`
		args = append(args, *ownerID)
	}

	var deleted models.DeletedLink
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&deleted.ID, &deleted.ShortCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("delete url: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM clicks WHERE url_id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete clicks: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return &deleted, nil
}

// IncrementClicks adds one to the link's counter in a single UPDATE.
func (db *DB) IncrementClicks(ctx context.Context, id int64) error {
	unlock := db.lockLink(id)
	defer unlock()

	ctx, cancel := db.opContext(ctx)
	defer cancel()

	start := time.Now()
	err := withConflictRetry(ctx, "increment_clicks", func() error {
		res, err := db.conn.ExecContext(ctx, `UPDATE urls SET clicks = clicks + 1 WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return models.ErrNotFound
		}
		return nil
	})
	if errors.Is(err, models.ErrNotFound) {
		observe("UPDATE", "urls", start, nil)
		return err
	}
	observe("UPDATE", "urls", start, err)
	return db.storeError(ctx, "increment clicks", err)
}

// DeleteLinksByUser removes every link owned by userID and their clicks.
// It returns the number of links removed.
func (db *DB) DeleteLinksByUser(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	var removed int64
	start := time.Now()
	err := withConflictRetry(ctx, "delete_user_links", func() error {
		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer rollbackQuietly(tx)

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM clicks WHERE url_id IN (SELECT id FROM urls WHERE user_id = $1)`, userID); err != nil {
			return fmt.Errorf("delete clicks: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM urls WHERE user_id = $1`, userID)
		if err != nil {
			return fmt.Errorf("delete urls: %w", err)
		}
		if removed, err = res.RowsAffected(); err != nil {
			return err
		}
		return tx.Commit()
	})
	observe("DELETE", "urls", start, err)
	if err != nil {
		return 0, db.storeError(ctx, "delete user links", err)
	}
	return removed, nil
}

// CleanupExpired deletes links whose expiry is before now, with their
// clicks, and returns what was removed.
func (db *DB) CleanupExpired(ctx context.Context, now time.Time) ([]models.DeletedLink, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	removed := make([]models.DeletedLink, 0)
	start := time.Now()
	err := withConflictRetry(ctx, "cleanup_expired", func() error {
		removed = removed[:0]

		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", err)
		}
		defer rollbackQuietly(tx)

		if _, err := tx.ExecContext(ctx, `DELETE FROM clicks WHERE url_id IN (
				SELECT id FROM urls WHERE expires_at IS NOT NULL AND expires_at < $1)`, now.UTC()); err != nil {
			return fmt.Errorf("delete clicks: %w", err)
		}

		rows, err := tx.QueryContext(ctx,
			`DELETE FROM urls WHERE expires_at IS NOT NULL AND expires_at < $1 RETURNING id, short_code`, now.UTC())
		if err != nil {
			return fmt.Errorf("delete urls: %w", err)
		}
		for rows.Next() {
			var d models.DeletedLink
			if err := rows.Scan(&d.ID, &d.ShortCode); err != nil {
				closeQuietly(rows)
				return err
			}
			removed = append(removed, d)
		}
		if err := rows.Err(); err != nil {
			closeQuietly(rows)
			return err
		}
		closeQuietly(rows)

		return tx.Commit()
	})
	observe("DELETE", "urls", start, err)
	if err != nil {
		return nil, db.storeError(ctx, "cleanup expired links", err)
	}

	metrics.ExpiredLinksDeleted.Add(float64(len(removed)))
	logging.Info().Int("removed", len(removed)).Msg("Expired links cleaned up")
	return removed, nil
}

// ListAllLinks returns a page of every link joined with its owner, newest first.
func (db *DB) ListAllLinks(ctx context.Context, limit, offset int) ([]models.AdminLink, int64, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	start := time.Now()
	var total int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM urls`).Scan(&total); err != nil {
		observe("SELECT", "urls", start, err)
		return nil, 0, db.storeError(ctx, "count links", err)
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT l.id, l.short_code, l.original_url, l.title, l.clicks, l.created_at, l.expires_at,
		       u.username, u.email
		FROM urls l
		JOIN users u ON l.user_id = u.id
		ORDER BY l.created_at DESC, l.id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		observe("SELECT", "urls", start, err)
		return nil, 0, db.storeError(ctx, "list all links", err)
	}
	defer closeWithLog(rows, "rows")

	links := make([]models.AdminLink, 0)
	for rows.Next() {
		var l models.AdminLink
		if err := rows.Scan(&l.ID, &l.ShortCode, &l.OriginalURL, &l.Title, &l.Clicks,
			&l.CreatedAt, &l.ExpiresAt, &l.Username, &l.Email); err != nil {
			return nil, 0, db.storeError(ctx, "scan link", err)
		}
		links = append(links, l)
	}
	err = rows.Err()
	observe("SELECT", "urls", start, err)
	if err != nil {
		return nil, 0, db.storeError(ctx, "list all links", err)
	}
	return links, total, nil
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
