// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentvoice/sanctuary/internal/models"
	"github.com/silentvoice/sanctuary/internal/testutil"
)

func TestCreateFeedback(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	author := testutil.NewTestAuthor(t, repo, "reader@example.test", "Reader")
	poem := testutil.NewTestPoem(t, repo, author.ID, models.PoemApproved)

	fb := &models.Feedback{PoemID: poem.ID, AuthorID: author.ID, Content: "This stayed with me."}
	err := repo.CreateFeedback(ctx, fb)

	require.NoError(t, err)
	assert.NotZero(t, fb.ID)
}

func TestListPoemFeedback(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()
	author := testutil.NewTestAuthor(t, repo, "reader@example.test", "Reader")
	poem := testutil.NewTestPoem(t, repo, author.ID, models.PoemApproved)
	other := testutil.NewTestPoem(t, repo, author.ID, models.PoemApproved)

	require.NoError(t, repo.CreateFeedback(ctx, &models.Feedback{PoemID: poem.ID, AuthorID: author.ID, Content: "One."}))
	require.NoError(t, repo.CreateFeedback(ctx, &models.Feedback{PoemID: poem.ID, AuthorID: author.ID, Content: "Two."}))
	require.NoError(t, repo.CreateFeedback(ctx, &models.Feedback{PoemID: other.ID, AuthorID: author.ID, Content: "Elsewhere."}))

	entries, err := repo.ListPoemFeedback(ctx, poem.ID)

	require.NoError(t, err)
	assert.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, poem.ID, entry.PoemID)
	}

	count, err := repo.CountPoemFeedback(ctx, poem.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
