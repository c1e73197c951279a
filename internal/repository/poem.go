// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/silentvoice/sanctuary/internal/models"
)

// CreatePoem inserts a new poem in pending status.
func (r *Repository) CreatePoem(ctx context.Context, poem *models.Poem) error {
	if poem.Status == "" {
		poem.Status = models.PoemPending
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO poems (id, title, content, author_id, image_key, status) VALUES (?, ?, ?, ?, ?, ?)`,
		poem.ID, poem.Title, poem.Content, poem.AuthorID, poem.ImageKey, poem.Status)
	return err
}

// GetPoem retrieves a poem by ID.
func (r *Repository) GetPoem(ctx context.Context, id string) (*models.Poem, error) {
	var poem models.Poem
	if err := r.db.GetContext(ctx, &poem, `SELECT * FROM poems WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &poem, nil
}

// ListApprovedPoems returns approved poems, newest approval first.
func (r *Repository) ListApprovedPoems(ctx context.Context, limit, offset int) ([]models.Poem, error) {
	var poems []models.Poem
	err := r.db.SelectContext(ctx, &poems,
		`SELECT * FROM poems WHERE status = ? ORDER BY approved_at DESC LIMIT ? OFFSET ?`,
		models.PoemApproved, limit, offset)
	if err != nil {
		return nil, err
	}
	return poems, nil
}

// ListPoemsByStatus returns poems with the given status, newest submission
// first. An empty status returns poems of every status.
func (r *Repository) ListPoemsByStatus(ctx context.Context, status models.PoemStatus, limit, offset int) ([]models.Poem, error) {
	var poems []models.Poem
	var err error
	if status == "" {
		err = r.db.SelectContext(ctx, &poems,
			`SELECT * FROM poems ORDER BY submitted_at DESC LIMIT ? OFFSET ?`, limit, offset)
	} else {
		err = r.db.SelectContext(ctx, &poems,
			`SELECT * FROM poems WHERE status = ? ORDER BY submitted_at DESC LIMIT ? OFFSET ?`,
			status, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	return poems, nil
}

// CountPoemsByStatus counts poems with the given status; empty counts all.
func (r *Repository) CountPoemsByStatus(ctx context.Context, status models.PoemStatus) (int64, error) {
	var count int64
	var err error
	if status == "" {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM poems`)
	} else {
		err = r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM poems WHERE status = ?`, status)
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ApprovePoem sets a poem to approved, stamps approved_at, and clears any
// rejection reason, but only if the poem still has the expected status.
// Returns ErrConflict when the compare-and-set loses its race and ErrNotFound
// when no such poem exists.
func (r *Repository) ApprovePoem(ctx context.Context, id string, expected models.PoemStatus, approvedAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE poems SET status = ?, approved_at = ?, rejection_reason = '', updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		models.PoemApproved, approvedAt, id, expected)
	return r.casResult(ctx, res, err, id)
}

// RejectPoem sets a poem to rejected with the given reason under the same
// compare-and-set contract as ApprovePoem.
func (r *Repository) RejectPoem(ctx context.Context, id string, expected models.PoemStatus, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE poems SET status = ?, rejection_reason = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		models.PoemRejected, reason, id, expected)
	return r.casResult(ctx, res, err, id)
}

// SetPoemStatus moves a poem between statuses without touching side data
// (suspend, restore) under the same compare-and-set contract as ApprovePoem.
func (r *Repository) SetPoemStatus(ctx context.Context, id string, expected, next models.PoemStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE poems SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND status = ?`,
		next, id, expected)
	return r.casResult(ctx, res, err, id)
}

// DeletePoem removes a poem and its feedback in one transaction. Returns
// ErrNotFound when the poem does not exist.
func (r *Repository) DeletePoem(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM feedback WHERE poem_id = ?`, id); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM poems WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return tx.Commit()
}

// casResult distinguishes a lost compare-and-set race from a missing poem.
func (r *Repository) casResult(ctx context.Context, res sql.Result, err error, id string) error {
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var exists int64
	if err := r.db.GetContext(ctx, &exists, `SELECT COUNT(*) FROM poems WHERE id = ?`, id); err != nil {
		return err
	}
	if exists == 0 {
		return ErrNotFound
	}
	return ErrConflict
}
