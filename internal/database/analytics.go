// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/linkpulse/internal/models"
)

// Buckets rank by count, ties broken by the earliest click in the bucket.
// NULL and empty values group under models.UnknownLabel.
const bucketOrder = `ORDER BY cnt DESC, MIN(id) ASC`

func unknownIfEmpty(column string) string {
	return fmt.Sprintf(`COALESCE(NULLIF(%s, ''), '%s')`, column, models.UnknownLabel)
}

// RecentClicks returns up to limit click events for the link, newest first.
func (db *DB) RecentClicks(ctx context.Context, linkID int64, limit int) ([]models.ClickEvent, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+clickColumns+` FROM clicks WHERE url_id = $1 ORDER BY clicked_at DESC, id DESC LIMIT $2`,
		linkID, limit)
	if err != nil {
		observe("SELECT", "clicks", start, err)
		return nil, db.storeError(ctx, "recent clicks", err)
	}
	defer closeWithLog(rows, "rows")

	clicks := make([]models.ClickEvent, 0)
	for rows.Next() {
		c, err := scanClick(rows)
		if err != nil {
			return nil, db.storeError(ctx, "scan click", err)
		}
		clicks = append(clicks, *c)
	}
	err = rows.Err()
	observe("SELECT", "clicks", start, err)
	if err != nil {
		return nil, db.storeError(ctx, "recent clicks", err)
	}
	return clicks, nil
}

// TopLocations groups the link's clicks by (country, city).
func (db *DB) TopLocations(ctx context.Context, linkID int64, limit int) ([]models.LocationCount, error) {
	query := fmt.Sprintf(`
		SELECT %s AS country, %s AS city, COUNT(*) AS cnt
		FROM clicks
		WHERE url_id = $1
		GROUP BY 1, 2
		%s
		LIMIT $2`, unknownIfEmpty("country"), unknownIfEmpty("city"), bucketOrder)

	out := make([]models.LocationCount, 0)
	err := db.queryBuckets(ctx, "top locations", query, []any{linkID, limit}, func(row rowScanner) error {
		var lc models.LocationCount
		if err := row.Scan(&lc.Country, &lc.City, &lc.Count); err != nil {
			return err
		}
		out = append(out, lc)
		return nil
	})
	return out, err
}

// TopBrowsers groups the link's clicks by browser.
func (db *DB) TopBrowsers(ctx context.Context, linkID int64, limit int) ([]models.BrowserCount, error) {
	out := make([]models.BrowserCount, 0)
	err := db.queryBuckets(ctx, "top browsers", singleBucketQuery("browser", true), []any{linkID, limit}, func(row rowScanner) error {
		var bc models.BrowserCount
		if err := row.Scan(&bc.Browser, &bc.Count); err != nil {
			return err
		}
		out = append(out, bc)
		return nil
	})
	return out, err
}

// TopOS groups the link's clicks by operating system.
func (db *DB) TopOS(ctx context.Context, linkID int64, limit int) ([]models.OSCount, error) {
	out := make([]models.OSCount, 0)
	err := db.queryBuckets(ctx, "top os", singleBucketQuery("os", true), []any{linkID, limit}, func(row rowScanner) error {
		var oc models.OSCount
		if err := row.Scan(&oc.OS, &oc.Count); err != nil {
			return err
		}
		out = append(out, oc)
		return nil
	})
	return out, err
}

// TopDevices groups all of the link's clicks by device type.
func (db *DB) TopDevices(ctx context.Context, linkID int64) ([]models.DeviceCount, error) {
	out := make([]models.DeviceCount, 0)
	err := db.queryBuckets(ctx, "top devices", singleBucketQuery("device_type", false), []any{linkID}, func(row rowScanner) error {
		var dc models.DeviceCount
		if err := row.Scan(&dc.DeviceType, &dc.Count); err != nil {
			return err
		}
		out = append(out, dc)
		return nil
	})
	return out, err
}

func singleBucketQuery(column string, limited bool) string {
	query := fmt.Sprintf(`
		SELECT %s AS bucket, COUNT(*) AS cnt
		FROM clicks
		WHERE url_id = $1
		GROUP BY 1
		%s`, unknownIfEmpty(column), bucketOrder)
	if limited {
		query += ` LIMIT $2`
	}
	return query
}

func (db *DB) queryBuckets(ctx context.Context, op, query string, args []any, scan func(rowScanner) error) error {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		observe("SELECT", "clicks", start, err)
		return db.storeError(ctx, op, err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		if err := scan(rows); err != nil {
			return db.storeError(ctx, op, err)
		}
	}
	err = rows.Err()
	observe("SELECT", "clicks", start, err)
	return db.storeError(ctx, op, err)
}

// SystemStats returns system-wide totals. Links are active when they have no
// expiry or expire after now.
func (db *DB) SystemStats(ctx context.Context, now time.Time) (*models.SystemStats, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	now = now.UTC()
	stats := &models.SystemStats{
		TopUsers:    make([]models.UserURLCount, 0),
		RecentUsers: make([]models.RecentUser, 0),
	}

	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM urls),
			(SELECT COUNT(*) FROM clicks),
			(SELECT COUNT(*) FROM urls WHERE expires_at IS NULL OR expires_at >= $1),
			(SELECT COUNT(*) FROM urls WHERE expires_at IS NOT NULL AND expires_at < $1)`, now,
	).Scan(&stats.TotalUsers, &stats.TotalURLs, &stats.TotalClicks, &stats.ActiveURLs, &stats.ExpiredURLs)
	observe("SELECT", "urls", start, err)
	if err != nil {
		return nil, db.storeError(ctx, "system totals", err)
	}

	start = time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT u.id, u.username, u.email, COUNT(l.id) AS url_count
		FROM users u
		LEFT JOIN urls l ON u.id = l.user_id
		GROUP BY u.id, u.username, u.email
		ORDER BY url_count DESC, u.id ASC
		LIMIT $1`, models.TopBucketLimit)
	if err != nil {
		observe("SELECT", "users", start, err)
		return nil, db.storeError(ctx, "top users", err)
	}
	for rows.Next() {
		var u models.UserURLCount
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.URLCount); err != nil {
			closeQuietly(rows)
			return nil, db.storeError(ctx, "scan top user", err)
		}
		stats.TopUsers = append(stats.TopUsers, u)
	}
	err = rows.Err()
	closeQuietly(rows)
	observe("SELECT", "users", start, err)
	if err != nil {
		return nil, db.storeError(ctx, "top users", err)
	}

	start = time.Now()
	rows, err = db.conn.QueryContext(ctx, `
		SELECT id, username, email, created_at
		FROM users
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, models.TopBucketLimit)
	if err != nil {
		observe("SELECT", "users", start, err)
		return nil, db.storeError(ctx, "recent users", err)
	}
	defer closeWithLog(rows, "rows")
	for rows.Next() {
		var u models.RecentUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt); err != nil {
			return nil, db.storeError(ctx, "scan recent user", err)
		}
		stats.RecentUsers = append(stats.RecentUsers, u)
	}
	err = rows.Err()
	observe("SELECT", "users", start, err)
	if err != nil {
		return nil, db.storeError(ctx, "recent users", err)
	}

	return stats, nil
}
