// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/silentvoice/sanctuary/internal/models"
)

// CreateFeedback inserts a feedback entry for a poem.
func (r *Repository) CreateFeedback(ctx context.Context, feedback *models.Feedback) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO feedback (poem_id, author_id, content) VALUES (?, ?, ?)`,
		feedback.PoemID, feedback.AuthorID, feedback.Content)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	feedback.ID = id
	return nil
}

// ListPoemFeedback returns a poem's feedback, newest first.
func (r *Repository) ListPoemFeedback(ctx context.Context, poemID string) ([]models.Feedback, error) {
	var entries []models.Feedback
	err := r.db.SelectContext(ctx, &entries,
		`SELECT * FROM feedback WHERE poem_id = ? ORDER BY created_at DESC`, poemID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// CountPoemFeedback counts a poem's feedback entries.
func (r *Repository) CountPoemFeedback(ctx context.Context, poemID string) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM feedback WHERE poem_id = ?`, poemID); err != nil {
		return 0, err
	}
	return count, nil
}
