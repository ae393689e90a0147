// Linkpulse - URL Shortener with Click Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/linkpulse

package models

import "time"

// User is an account that owns short links.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublicUser is the user shape returned by signup and login.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public strips everything but the identity fields.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

// AdminUser is a user row with link totals for the admin listing.
type AdminUser struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	IsAdmin     bool      `json:"is_admin"`
	CreatedAt   time.Time `json:"created_at"`
	URLCount    int64     `json:"url_count"`
	TotalClicks int64     `json:"total_clicks"`
}

// BannedIP blocks signups from an address.
type BannedIP struct {
	IPAddress string    `json:"ip_address"`
	Reason    *string   `json:"reason"`
	BannedAt  time.Time `json:"banned_at"`
	BannedBy  *int64    `json:"banned_by"`
}
