// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/silentvoice/sanctuary/internal/models"
)

// UpsertAuthor creates an author for the given email or refreshes the name of
// an existing one, and returns the resulting row. Submission and feedback
// intake both identify authors by email.
func (r *Repository) UpsertAuthor(ctx context.Context, email, name string) (*models.Author, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO authors (email, name) VALUES (?, ?)
		 ON CONFLICT(email) DO UPDATE SET name = excluded.name, updated_at = CURRENT_TIMESTAMP`,
		email, name)
	if err != nil {
		return nil, err
	}
	return r.GetAuthorByEmail(ctx, email)
}

// GetAuthorByID retrieves an author by ID.
func (r *Repository) GetAuthorByID(ctx context.Context, id int64) (*models.Author, error) {
	var author models.Author
	if err := r.db.GetContext(ctx, &author, `SELECT * FROM authors WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &author, nil
}

// GetAuthorByEmail retrieves an author by email address.
func (r *Repository) GetAuthorByEmail(ctx context.Context, email string) (*models.Author, error) {
	var author models.Author
	if err := r.db.GetContext(ctx, &author, `SELECT * FROM authors WHERE email = ?`, email); err != nil {
		return nil, wrapError(err)
	}
	return &author, nil
}

// CreateOwner creates an owner (admin) author with the given password hash.
func (r *Repository) CreateOwner(ctx context.Context, email, name, passwordHash string) (*models.Author, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO authors (email, name, password_hash, is_owner) VALUES (?, ?, ?, 1)
		 ON CONFLICT(email) DO UPDATE SET password_hash = excluded.password_hash, is_owner = 1, updated_at = CURRENT_TIMESTAMP`,
		email, name, passwordHash)
	if err != nil {
		return nil, err
	}
	return r.GetAuthorByEmail(ctx, email)
}

// CountOwners returns the number of owner accounts.
func (r *Repository) CountOwners(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM authors WHERE is_owner = 1`); err != nil {
		return 0, err
	}
	return count, nil
}
