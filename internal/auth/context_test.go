// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentvoice/sanctuary/internal/auth"
)

func TestWithPrincipal(t *testing.T) {
	principal := &auth.Principal{AuthorID: 1, Email: "owner@example.test", IsOwner: true}

	ctx := auth.WithPrincipal(context.Background(), principal)

	got := auth.FromContext(ctx)
	require.NotNil(t, got)
	assert.Equal(t, principal, got)
}

func TestFromContext_Empty(t *testing.T) {
	assert.Nil(t, auth.FromContext(context.Background()))
}
