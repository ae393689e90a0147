// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/linkpulse/internal/models"
)

const clickColumns = `id, url_id, clicked_at, user_agent, ip_address, referer, country, city, browser, os, device_type`

func scanClick(row rowScanner, extra ...any) (*models.ClickEvent, error) {
	var c models.ClickEvent
	dest := []any{
		&c.ID, &c.URLID, &c.ClickedAt, &c.UserAgent, &c.IPAddress,
		&c.Referer, &c.Country, &c.City, &c.Browser, &c.OS, &c.DeviceType,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &c, nil
}

// RecordClick increments the link's counter and inserts the click event in
// one transaction: either both are visible or neither is. click.ID and
// click.ClickedAt are filled in. A missing link yields models.ErrNotFound.
//
// Under DuckDB writers on the same link are serialized and transaction
// conflicts are retried.
func (db *DB) RecordClick(ctx context.Context, click *models.ClickEvent) error {
	unlock := db.lockLink(click.URLID)
	defer unlock()

	ctx, cancel := db.opContext(ctx)
	defer cancel()

	if click.ClickedAt.IsZero() {
		click.ClickedAt = time.Now().UTC()
	}
	if click.DeviceType == "" {
		click.DeviceType = models.DeviceDesktop
	}

	start := time.Now()
	err := withConflictRetry(ctx, "record_click", func() error {
		return db.doRecordClick(ctx, click)
	})
	if errors.Is(err, models.ErrNotFound) {
		observe("INSERT", "clicks", start, nil)
		return err
	}
	observe("INSERT", "clicks", start, err)
	return db.storeError(ctx, "record click", err)
}

func (db *DB) doRecordClick(ctx context.Context, click *models.ClickEvent) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollbackQuietly(tx)

	res, err := tx.ExecContext(ctx, `UPDATE urls SET clicks = clicks + 1 WHERE id = $1`, click.URLID)
	if err != nil {
		return fmt.Errorf("increment clicks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment clicks: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}

	err = tx.QueryRowContext(ctx, `
		INSERT INTO clicks (url_id, user_agent, ip_address, referer, country, city, browser, os, device_type, clicked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		click.URLID, click.UserAgent, click.IPAddress, nullString(click.Referer),
		nullString(click.Country), nullString(click.City),
		click.Browser, click.OS, click.DeviceType, click.ClickedAt.UTC(),
	).Scan(&click.ID)
	if err != nil {
		return fmt.Errorf("insert click: %w", err)
	}

	return tx.Commit()
}

// ListAllClicks returns a page of every click joined with its link and the
// link owner, newest first.
func (db *DB) ListAllClicks(ctx context.Context, limit, offset int) ([]models.AdminClick, int64, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	start := time.Now()
	var total int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM clicks`).Scan(&total); err != nil {
		observe("SELECT", "clicks", start, err)
		return nil, 0, db.storeError(ctx, "count clicks", err)
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT c.id, c.url_id, c.clicked_at, c.user_agent, c.ip_address, c.referer, c.country, c.city,
		       c.browser, c.os, c.device_type,
		       l.short_code, l.original_url, u.id, u.username, u.email
		FROM clicks c
		JOIN urls l ON c.url_id = l.id
		JOIN users u ON l.user_id = u.id
		ORDER BY c.clicked_at DESC, c.id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		observe("SELECT", "clicks", start, err)
		return nil, 0, db.storeError(ctx, "list clicks", err)
	}
	defer closeWithLog(rows, "rows")

	clicks := make([]models.AdminClick, 0)
	for rows.Next() {
		var ac models.AdminClick
		c, err := scanClick(rows, &ac.ShortCode, &ac.OriginalURL, &ac.UserID, &ac.Username, &ac.Email)
		if err != nil {
			return nil, 0, db.storeError(ctx, "scan click", err)
		}
		ac.ClickEvent = *c
		clicks = append(clicks, ac)
	}
	err = rows.Err()
	observe("SELECT", "clicks", start, err)
	if err != nil {
		return nil, 0, db.storeError(ctx, "list clicks", err)
	}
	return clicks, total, nil
}
