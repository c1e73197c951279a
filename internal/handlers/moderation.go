// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/silentvoice/sanctuary/internal/auth"
	"github.com/silentvoice/sanctuary/internal/models"
	"github.com/silentvoice/sanctuary/internal/moderation"
)

// ModerateLink handles a click on an emailed moderation link and redirects
// to the matching human-facing page.
func (h *Handlers) ModerateLink(c echo.Context) error {
	outcome := h.moderation.ModerateViaLink(c.Request().Context(), c.QueryParam("token"))

	switch outcome.Result {
	case moderation.ResultApproved:
		return c.Redirect(http.StatusFound, "/moderation/success")
	case moderation.ResultRejected:
		return c.Redirect(http.StatusFound, "/moderation/reject")
	default:
		return c.Redirect(http.StatusFound, "/moderation/error?reason="+outcome.Reason)
	}
}

type moderateRequest struct {
	Action          string `json:"action"`
	RejectionReason string `json:"rejectionReason"`
}

// AdminModerate applies a moderation action on behalf of the logged-in
// owner. Unlike the link path it supports the full action vocabulary.
func (h *Handlers) AdminModerate(c echo.Context) error {
	var req moderateRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}

	action, err := moderation.ParseAction(req.Action)
	if err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid action")
	}

	principal := auth.FromContext(c.Request().Context())
	outcome := h.moderation.ModerateViaConsole(c.Request().Context(), principal, c.Param("id"), action, req.RejectionReason)

	if outcome.OK() {
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"result":  outcome.Result,
			"status":  outcome.Status,
		})
	}

	switch outcome.Reason {
	case moderation.ReasonNotFound:
		return jsonError(c, http.StatusNotFound, "Poem not found")
	case moderation.ReasonInvalidAction:
		return jsonError(c, http.StatusBadRequest, "Action not permitted from current status")
	case moderation.ReasonConflict:
		return jsonError(c, http.StatusConflict, "Poem was moderated concurrently, reload and retry")
	case moderation.ReasonForbidden:
		return jsonError(c, http.StatusForbidden, "Forbidden")
	default:
		return outcome.Err
	}
}

// AdminListPoems lists poems for the moderation dashboard, filtered by
// status. `status=all` (or empty) lists every poem.
func (h *Handlers) AdminListPoems(c echo.Context) error {
	ctx := c.Request().Context()
	page, limit, offset := paginate(c, 20)

	var status models.PoemStatus
	raw := c.QueryParam("status")
	switch raw {
	case "", "all":
		status = ""
	default:
		parsed, ok := models.ParsePoemStatus(raw)
		if !ok {
			return jsonError(c, http.StatusBadRequest, "Invalid status filter")
		}
		status = parsed
	}

	poems, err := h.repo.ListPoemsByStatus(ctx, status, limit, offset)
	if err != nil {
		return err
	}
	total, err := h.repo.CountPoemsByStatus(ctx, status)
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
