// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/silentvoice/sanctuary/internal/models"
	"github.com/silentvoice/sanctuary/internal/repository"
	"github.com/silentvoice/sanctuary/internal/storage"
)

// ListPoems returns approved poems, newest approval first.
func (h *Handlers) ListPoems(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit, offset := paginate(c, 10)

	poems, err := h.repo.ListApprovedPoems(ctx, limit, offset)
	if err != nil {
		return err
	}
	total, err := h.repo.CountPoemsByStatus(ctx, models.PoemApproved)
	if err != nil {
		return err
	}

	views := make([]poemView, 0, len(poems))
	for _, poem := range poems {
		authorName := ""
		if author, err := h.repo.GetAuthorByID(ctx, poem.AuthorID); err == nil {
			authorName = author.Name
		}
		views = append(views, h.poemView(poem, authorName))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"poems":      views,
		"pagination": newPagination(page, limit, total),
	})
}

// GetPoem returns a single approved poem with its feedback.
func (h *Handlers) GetPoem(c echo.Context) error {
	ctx := c.Request().Context()

	poem, err := h.repo.GetPoem(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "Poem not found")
		}
		return err
	}

	// Only approved poems are public
	if poem.Status != models.PoemApproved {
		return jsonError(c, http.StatusForbidden, "Poem is not yet curated")
	}

	authorName := ""
	if author, err := h.repo.GetAuthorByID(ctx, poem.AuthorID); err == nil {
		authorName = author.Name
	}

	feedback, err := h.repo.ListPoemFeedback(ctx, poem.ID)
	if err != nil {
		return err
	}

	c.Response().Header().Set("Cache-Control", "no-store, max-age=0")
	return c.JSON(http.StatusOK, map[string]any{
		"poem":     h.poemView(*poem, authorName),
		"feedback": feedback,
	})
}

type submitPoemForm struct {
	Title      string
	Content    string
	AuthorName string
	Email      string
}

// SubmitPoem handles a new poem submission: upsert the author, store the
// image if one was attached, create the poem in pending status, and send the
// moderation request with its capability links. Email failure never fails
// the submission.
func (h *Handlers) SubmitPoem(c echo.Context) error {
	ctx := c.Request().Context()

	form := submitPoemForm{
		Title:      c.FormValue("title"),
		Content:    c.FormValue("content"),
		AuthorName: c.FormValue("authorName"),
		Email:      c.FormValue("email"),
	}
	if form.Title == "" || form.Content == "" || form.AuthorName == "" || form.Email == "" {
		return jsonError(c, http.StatusBadRequest, "Title, content, author name, and email are required")
	}

	author, err := h.repo.UpsertAuthor(ctx, form.Email, form.AuthorName)
	if err != nil {
		return err
	}

	imageKey, err := h.storeImage(c)
	if err != nil {
		if errors.Is(err, errUnsupportedImage) {
			return jsonError(c, http.StatusBadRequest, "Unsupported image type")
		}
		return err
	}

	poem := &models.Poem{
		ID:       uuid.NewString(),
		Title:    form.Title,
		Content:  form.Content,
		AuthorID: author.ID,
		ImageKey: imageKey,
		Status:   models.PoemPending,
	}
	if err := h.repo.CreatePoem(ctx, poem); err != nil {
		return err
	}

	if h.emails != nil && h.adminEmail != "" {
		links := h.moderation.IssueLinks(poem.ID)
		if err := h.emails.SendModerationRequest(ctx, h.adminEmail, poem, author, links.ApproveURL, links.RejectURL); err != nil {
			slog.Error("moderation_request_email_failed", "poem_id", poem.ID, "error", err)
		}
	}

	created, err := h.repo.GetPoem(ctx, poem.ID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"poem":    h.poemView(*created, author.Name),
	})
}

var errUnsupportedImage = errors.New("unsupported image type")

// storeImage uploads an attached image and returns its object key, or ""
// when the submission has no image.
func (h *Handlers) storeImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// No image attached
		return "", nil
	}
	if file.Size == 0 {
		return "", nil
	}

	contentType := file.Header.Get("Content-Type")
	ext := extensionFromMimeType(contentType)
	if ext == "" {
		ext = extensionFromFilename(file.Filename)
	}
	if ext == "" {
		return "", errUnsupportedImage
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := storage.ImageKey(ext, time.Now())
	if err := h.store.Put(c.Request().Context(), key, contentType, src); err != nil {
		return "", err
	}
	return key, nil
}

type feedbackRequest struct {
	Content    string `json:"content"`
	AuthorName string `json:"authorName"`
	Email      string `json:"email"`
}

// CreateFeedback records reader feedback on a poem.
func (h *Handlers) CreateFeedback(c echo.Context) error {
	ctx := c.Request().Context()

	var req feedbackRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Content == "" || req.AuthorName == "" || req.Email == "" {
		return jsonError(c, http.StatusBadRequest, "Content, author name, and email are required")
	}

	poem, err := h.repo.GetPoem(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return jsonError(c, http.StatusNotFound, "Poem not found")
		}
		return err
	}

	author, err := h.repo.UpsertAuthor(ctx, req.Email, req.AuthorName)
	if err != nil {
		return err
	}

	feedback := &models.Feedback{
		PoemID:   poem.ID,
		AuthorID: author.ID,
		Content:  req.Content,
	}
	if err := h.repo.CreateFeedback(ctx, feedback); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"success":  true,
		"feedback": feedback,
	})
}
