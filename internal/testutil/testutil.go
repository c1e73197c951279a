// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"

	"github.com/silentvoice/sanctuary/internal/database"
	"github.com/silentvoice/sanctuary/internal/models"
	"github.com/silentvoice/sanctuary/internal/repository"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestAuthor creates a test author in the database.
func NewTestAuthor(t *testing.T, repo *repository.Repository, email, name string) *models.Author {
	t.Helper()
	author, err := repo.UpsertAuthor(context.Background(), email, name)
	require.NoError(t, err)
	return author
}

// NewTestPoem creates a test poem for an author, in the given status.
func NewTestPoem(t *testing.T, repo *repository.Repository, authorID int64, status models.PoemStatus) *models.Poem {
	t.Helper()
	ctx := context.Background()
	poem := &models.Poem{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Title:    "Whispers",
		Content:  "A quiet line\nfalls into evening.",
		Status:   models.PoemPending,
	}
	err := repo.CreatePoem(ctx, poem)
	require.NoError(t, err)
	switch status {
	case models.PoemPending:
	case models.PoemApproved:
		require.NoError(t, repo.ApprovePoem(ctx, poem.ID, models.PoemPending, time.Now().UTC()))
	default:
		require.NoError(t, repo.SetPoemStatus(ctx, poem.ID, models.PoemPending, status))
	}
	if status != models.PoemPending {
		poem.Status = status
	}
	return poem
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// NewEchoContextWithHeaders creates an Echo context with custom headers.
func NewEchoContextWithHeaders(e *echo.Echo, method, path string, body io.Reader, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}

// FixedTime returns a stable timestamp for deterministic token tests.
func FixedTime() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}
