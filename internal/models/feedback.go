// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package models

import "time"

// Feedback is a reader response to a poem. Feedback rows are removed together
// with their poem.
type Feedback struct { //nolint:govet // fieldalignment: readability over optimization
	ID        int64     `db:"id" json:"id"`
	PoemID    string    `db:"poem_id" json:"poem_id"`
	AuthorID  int64     `db:"author_id" json:"author_id"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
