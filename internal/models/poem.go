// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package models

import "time"

// PoemStatus is the moderation lifecycle state of a poem.
type PoemStatus string

const (
	PoemPending   PoemStatus = "pending"
	PoemApproved  PoemStatus = "approved"
	PoemRejected  PoemStatus = "rejected"
	PoemSuspended PoemStatus = "suspended"
)

// ParsePoemStatus maps a wire string onto the closed status vocabulary.
func ParsePoemStatus(s string) (PoemStatus, bool) {
	switch PoemStatus(s) {
	case PoemPending, PoemApproved, PoemRejected, PoemSuspended:
		return PoemStatus(s), true
	}
	return "", false
}

// Poem is a submitted poem. Status is owned by the moderation state machine;
// transport code never writes it directly.
type Poem struct { //nolint:govet // fieldalignment: readability over optimization
	ID              string     `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	Content         string     `db:"content" json:"content"`
	AuthorID        int64      `db:"author_id" json:"author_id"`
	ImageKey        string     `db:"image_key" json:"-"`
	Status          PoemStatus `db:"status" json:"status"`
	RejectionReason string     `db:"rejection_reason" json:"rejection_reason,omitempty"`
	SubmittedAt     time.Time  `db:"submitted_at" json:"submitted_at"`
	ApprovedAt      *time.Time `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}
