// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package handlers

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/silentvoice/sanctuary/internal/models"
)

// pagination is the envelope returned with every list response.
type pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func paginate(c echo.Context, defaultLimit int) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 || limit > 100 {
		limit = defaultLimit
	}
	return page, limit, (page - 1) * limit
}

func newPagination(page, limit int, total int64) pagination {
	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}
	return pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

func jsonError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// poemView is the API shape of a poem: the stored image key is resolved to a
// public URL and never exposed raw.
type poemView struct {
	*models.Poem
	AuthorName string `json:"author_name,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

func (h *Handlers) poemView(p models.Poem, authorName string) poemView {
	view := poemView{Poem: &p, AuthorName: authorName}
	if p.ImageKey != "" && h.store != nil {
		view.ImageURL = h.store.PublicURL(p.ImageKey)
	}
	return view
}

// extensionFromMimeType maps the accepted image types to file extensions.
func extensionFromMimeType(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	}
	return ""
}

// extensionFromFilename extracts a sanitized lowercase extension.
func extensionFromFilename(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx == -1 || idx == len(filename)-1 {
		return ""
	}
	ext := strings.ToLower(strings.TrimSpace(filename[idx+1:]))
	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
