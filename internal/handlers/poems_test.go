// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentvoice/sanctuary/internal/models"
	"github.com/silentvoice/sanctuary/internal/testutil"
)

func TestListPoems_OnlyApproved(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()
	author := testutil.NewTestAuthor(t, repo, "poet@example.test", "Poet")

	approved := testutil.NewTestPoem(t, repo, author.ID, models.PoemApproved)
	testutil.NewTestPoem(t, repo, author.ID, models.PoemPending)
	testutil.NewTestPoem(t, repo, author.ID, models.PoemRejected)
	testutil.NewTestPoem(t, repo, author.ID, models.PoemSuspended)

	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/api/poems", nil)
	require.NoError(t, h.ListPoems(c))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Poems []struct {
			ID         string `json:"id"`
			AuthorName string `json:"author_name"`
		} `json:"poems"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Poems, 1)
	assert.Equal(t, approved.ID, resp.Poems[0].ID)
	assert.Equal(t, "Poet", resp.Poems[0].AuthorName)
	assert.EqualValues(t, 1, resp.Pagination.Total)
}

func TestGetPoem_Approved(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()
	author := testutil.NewTestAuthor(t, repo, "poet@example.test", "Poet")
	poem := testutil.NewTestPoem(t, repo, author.ID, models.PoemApproved)

	require.NoError(t, repo.CreateFeedback(context.Background(),
		&models.Feedback{PoemID: poem.ID, AuthorID: author.ID, Content: "Beautiful."}))

	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/api/poems/"+poem.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(poem.ID)

	require.NoError(t, h.GetPoem(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Beautiful.")
	assert.Equal(t, "no-store, max-age=0", rec.Header().Get("Cache-Control"))
}

func TestGetPoem_NotPublicUnlessApproved(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()
	author := testutil.NewTestAuthor(t, repo, "poet@example.test", "Poet")

	for _, status := range []models.PoemStatus{models.PoemPending, models.PoemRejected, models.PoemSuspended} {
		poem := testutil.NewTestPoem(t, repo, author.ID, status)

		c, rec := testutil.NewEchoContext(e, http.MethodGet, "/api/poems/"+poem.ID, nil)
		c.SetParamNames("id")
		c.SetParamValues(poem.ID)

		require.NoError(t, h.GetPoem(c))
		assert.Equal(t, http.StatusForbidden, rec.Code, "status %s", status)
	}
}

func TestGetPoem_NotFound(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()

	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/api/poems/no-such-poem", nil)
	c.SetParamNames("id")
	c.SetParamValues("no-such-poem")

	require.NoError(t, h.GetPoem(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func submitForm(t *testing.T, fields map[string]string, imageName, imageType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if imageName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="image"; filename="`+imageName+`"`)
		header.Set("Content-Type", imageType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake image bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func poemFields() map[string]string {
	return map[string]string{
		"title":      "Evening",
		"content":    "The long shadows\nsettle into the grass.",
		"authorName": "Poet",
		"email":      "poet@example.test",
	}
}

func TestSubmitPoem(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()

	body, contentType := submitForm(t, poemFields(), "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/poems", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SubmitPoem(c))

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Poem struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"poem"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.Poem.Status)

	stored, err := repo.GetPoem(context.Background(), resp.Poem.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PoemPending, stored.Status)

	author, err := repo.GetAuthorByEmail(context.Background(), "poet@example.test")
	require.NoError(t, err)
	assert.Equal(t, author.ID, stored.AuthorID)
}

func TestSubmitPoem_WithImage(t *testing.T) {
	h, repo, store := newTestHandlers(t)
	e := echo.New()

	body, contentType := submitForm(t, poemFields(), "photo.webp", "image/webp")
	req := httptest.NewRequest(http.MethodPost, "/api/poems", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SubmitPoem(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Poem struct {
			ID       string `json:"id"`
			ImageURL string `json:"image_url"`
		} `json:"poem"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Poem.ImageURL, "https://img.example.test/poems/")

	stored, err := repo.GetPoem(context.Background(), resp.Poem.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ImageKey)
	assert.True(t, store.Has(stored.ImageKey))
}

func TestSubmitPoem_UnsupportedImage(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()

	body, contentType := submitForm(t, poemFields(), "script", "application/octet-stream")
	req := httptest.NewRequest(http.MethodPost, "/api/poems", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SubmitPoem(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitPoem_MissingFields(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()

	fields := poemFields()
	delete(fields, "content")
	body, contentType := submitForm(t, fields, "", "")
	req := httptest.NewRequest(http.MethodPost, "/api/poems", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.SubmitPoem(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateFeedback(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()
	author := testutil.NewTestAuthor(t, repo, "poet@example.test", "Poet")
	poem := testutil.NewTestPoem(t, repo, author.ID, models.PoemApproved)

	c, rec := newJSONContext(e, http.MethodPost, "/api/poems/:id/feedback",
		`{"content":"This stayed with me.","authorName":"Reader","email":"reader@example.test"}`)
	c.SetParamNames("id")
	c.SetParamValues(poem.ID)

	require.NoError(t, h.CreateFeedback(c))

	assert.Equal(t, http.StatusCreated, rec.Code)

	count, err := repo.CountPoemFeedback(context.Background(), poem.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCreateFeedback_PoemNotFound(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/api/poems/:id/feedback",
		`{"content":"Hello","authorName":"Reader","email":"reader@example.test"}`)
	c.SetParamNames("id")
	c.SetParamValues("no-such-poem")

	require.NoError(t, h.CreateFeedback(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
