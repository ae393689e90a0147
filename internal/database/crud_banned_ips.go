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

// IsIPBanned reports whether ip is on the ban list.
func (db *DB) IsIPBanned(ctx context.Context, ip string) (bool, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	var banned bool
	start := time.Now()
	err := db.conn.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM banned_ips WHERE ip_address = $1)`, ip).Scan(&banned)
	observe("SELECT", "banned_ips", start, err)
	if err != nil {
		return false, db.storeError(ctx, "check banned ip", err)
	}
	return banned, nil
}

// BanIP adds ip to the ban list. An address already listed yields
// models.ErrConflict.
func (db *DB) BanIP(ctx context.Context, ip string, reason *string, bannedBy *int64) (*models.BannedIP, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	entry := &models.BannedIP{
		IPAddress: ip,
		Reason:    reason,
		BannedAt:  time.Now().UTC(),
		BannedBy:  bannedBy,
	}

	start := time.Now()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO banned_ips (ip_address, reason, banned_at, banned_by)
		VALUES ($1, $2, $3, $4)`,
		ip, nullString(reason), entry.BannedAt, nullInt64(bannedBy))
	observe("INSERT", "banned_ips", start, err)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: %s is already banned", models.ErrConflict, ip)
		}
		return nil, db.storeError(ctx, "ban ip", err)
	}
	return entry, nil
}

// UnbanIP removes ip from the ban list.
func (db *DB) UnbanIP(ctx context.Context, ip string) error {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, `DELETE FROM banned_ips WHERE ip_address = $1`, ip)
	observe("DELETE", "banned_ips", start, err)
	if err != nil {
		return db.storeError(ctx, "unban ip", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return db.storeError(ctx, "unban ip", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListBannedIPs returns the ban list, most recent first.
func (db *DB) ListBannedIPs(ctx context.Context) ([]models.BannedIP, error) {
	ctx, cancel := db.opContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT ip_address, reason, banned_at, banned_by FROM banned_ips ORDER BY banned_at DESC, id DESC`)
	if err != nil {
		observe("SELECT", "banned_ips", start, err)
		return nil, db.storeError(ctx, "list banned ips", err)
	}
	defer closeWithLog(rows, "rows")

	list := make([]models.BannedIP, 0)
	for rows.Next() {
		var b models.BannedIP
		if err := rows.Scan(&b.IPAddress, &b.Reason, &b.BannedAt, &b.BannedBy); err != nil {
			return nil, db.storeError(ctx, "scan banned ip", err)
		}
		list = append(list, b)
	}
	err = rows.Err()
	observe("SELECT", "banned_ips", start, err)
	if err != nil {
		return nil, db.storeError(ctx, "list banned ips", err)
	}
	return list, nil
}
