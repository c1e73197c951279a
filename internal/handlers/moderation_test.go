// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentvoice/sanctuary/internal/auth"
	"github.com/silentvoice/sanctuary/internal/models"
	"github.com/silentvoice/sanctuary/internal/moderation"
	"github.com/silentvoice/sanctuary/internal/testutil"
)

func linkContext(e *echo.Echo, token string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/moderation/link?token="+token, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestModerateLink_ApproveRedirectsToSuccess(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()
	author := testutil.NewTestAuthor(t, repo, "poet@example.test", "Poet")
	poem := testutil.NewTestPoem(t, repo, author.ID, models.PoemPending)

	token := moderation.EncodeToken(testSecret, poem.ID, moderation.ActionApprove, time.Now())
	c, rec := linkContext(e, token)

	require.NoError(t, h.ModerateLink(c))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/moderation/success", rec.Header().Get(echo.HeaderLocation))

	stored, err := repo.GetPoem(context.Background(), poem.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PoemApproved, stored.Status)
}

func TestModerateLink_RejectRedirectsToReject(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()
	author := testutil.NewTestAuthor(t, repo, "poet@example.test", "Poet")
	poem := testutil.NewTestPoem(t, repo, author.ID, models.PoemPending)

	token := moderation.EncodeToken(testSecret, poem.ID, moderation.ActionReject, time.Now())
	c, rec := linkContext(e, token)

	require.NoError(t, h.ModerateLink(c))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/moderation/reject", rec.Header().Get(echo.HeaderLocation))

	stored, err := repo.GetPoem(context.Background(), poem.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PoemRejected, stored.Status)
	assert.Equal(t, moderation.DefaultRejectionReason, stored.RejectionReason)
}

func TestModerateLink_ErrorRedirects(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()

	tests := []struct {
		name     string
		token    string
		location string
	}{
		{"missing token", "", "/moderation/error?reason=missing-token"},
		{"garbage token", "garbage", "/moderation/error?reason=invalid-token"},
		{"forged token", moderation.EncodeToken("other-secret", "poem-1", moderation.ActionApprove, time.Now()), "/moderation/error?reason=invalid-token"},
		{"expired token", moderation.EncodeToken(testSecret, "poem-1", moderation.ActionApprove, time.Now().Add(-8*24*time.Hour)), "/moderation/error?reason=expired"},
		{"unknown poem", moderation.EncodeToken(testSecret, "no-such-poem", moderation.ActionApprove, time.Now()), "/moderation/error?reason=not-found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := linkContext(e, tt.token)
			require.NoError(t, h.ModerateLink(c))
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.location, rec.Header().Get(echo.HeaderLocation))
		})
	}
}

func ownerContext(c echo.Context) echo.Context {
	req := c.Request()
	principal := &auth.Principal{AuthorID: 1, Email: "owner@example.test", IsOwner: true}
	c.SetRequest(req.WithContext(auth.WithPrincipal(req.Context(), principal)))
	return c
}

func TestAdminModerate_Approve(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()
	author := testutil.NewTestAuthor(t, repo, "poet@example.test", "Poet")
	poem := testutil.NewTestPoem(t, repo, author.ID, models.PoemPending)

	c, rec := newJSONContext(e, http.MethodPost, "/api/admin/poems/:id/moderate", `{"action":"approve"}`)
	c.SetParamNames("id")
	c.SetParamValues(poem.ID)
	ownerContext(c)

	require.NoError(t, h.AdminModerate(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"result":"approved"`)
	assert.Contains(t, rec.Body.String(), `"status":"approved"`)
}

func TestAdminModerate_RejectWithReason(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()
	author := testutil.NewTestAuthor(t, repo, "poet@example.test", "Poet")
	poem := testutil.NewTestPoem(t, repo, author.ID, models.PoemPending)

	c, rec := newJSONContext(e, http.MethodPost, "/api/admin/poems/:id/moderate", `{"action":"reject","rejectionReason":"Too long for the front page."}`)
	c.SetParamNames("id")
	c.SetParamValues(poem.ID)
	ownerContext(c)

	require.NoError(t, h.AdminModerate(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	stored, err := repo.GetPoem(context.Background(), poem.ID)
	require.NoError(t, err)
	assert.Equal(t, "Too long for the front page.", stored.RejectionReason)
}

func TestAdminModerate_WithoutPrincipal(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()
	author := testutil.NewTestAuthor(t, repo, "poet@example.test", "Poet")
	poem := testutil.NewTestPoem(t, repo, author.ID, models.PoemPending)

	c, rec := newJSONContext(e, http.MethodPost, "/api/admin/poems/:id/moderate", `{"action":"approve"}`)
	c.SetParamNames("id")
	c.SetParamValues(poem.ID)

	require.NoError(t, h.AdminModerate(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminModerate_UnknownAction(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/api/admin/poems/:id/moderate", `{"action":"publish"}`)
	c.SetParamNames("id")
	c.SetParamValues("whatever")
	ownerContext(c)

	require.NoError(t, h.AdminModerate(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminModerate_InvalidTransition(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()
	author := testutil.NewTestAuthor(t, repo, "poet@example.test", "Poet")
	poem := testutil.NewTestPoem(t, repo, author.ID, models.PoemPending)

	c, rec := newJSONContext(e, http.MethodPost, "/api/admin/poems/:id/moderate", `{"action":"suspend"}`)
	c.SetParamNames("id")
	c.SetParamValues(poem.ID)
	ownerContext(c)

	require.NoError(t, h.AdminModerate(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminModerate_NotFound(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/api/admin/poems/:id/moderate", `{"action":"approve"}`)
	c.SetParamNames("id")
	c.SetParamValues("no-such-poem")
	ownerContext(c)

	require.NoError(t, h.AdminModerate(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminModerate_Delete(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()
	author := testutil.NewTestAuthor(t, repo, "poet@example.test", "Poet")
	poem := testutil.NewTestPoem(t, repo, author.ID, models.PoemApproved)

	c, rec := newJSONContext(e, http.MethodPost, "/api/admin/poems/:id/moderate", `{"action":"delete"}`)
	c.SetParamNames("id")
	c.SetParamValues(poem.ID)
	ownerContext(c)

	require.NoError(t, h.AdminModerate(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"result":"deleted"`)

	_, err := repo.GetPoem(context.Background(), poem.ID)
	assert.Error(t, err)
}

func TestAdminListPoems(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()
	author := testutil.NewTestAuthor(t, repo, "poet@example.test", "Poet")
	testutil.NewTestPoem(t, repo, author.ID, models.PoemPending)
	testutil.NewTestPoem(t, repo, author.ID, models.PoemApproved)

	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/api/admin/poems?status=pending", nil)
	require.NoError(t, h.AdminListPoems(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	c, rec = testutil.NewEchoContext(e, http.MethodGet, "/api/admin/poems?status=all", nil)
	require.NoError(t, h.AdminListPoems(c))
	assert.Contains(t, rec.Body.String(), `"total":2`)
}

func TestAdminListPoems_InvalidStatus(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()

	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/api/admin/poems?status=published", nil)
	require.NoError(t, h.AdminListPoems(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
