// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package models

import "time"

// Author is a poem or feedback author. The site owner is an author row with
// IsOwner set and a password hash; regular authors have neither.
type Author struct { //nolint:govet // fieldalignment: readability over optimization
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Name         string    `db:"name" json:"name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsOwner      int64     `db:"is_owner" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}
