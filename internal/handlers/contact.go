// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Contact relays a contact form message to the owner.
func (h *Handlers) Contact(c echo.Context) error {
	var req contactRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return jsonError(c, http.StatusBadRequest, "Name, email, and message are required")
	}

	if h.emails == nil || h.adminEmail == "" {
		return jsonError(c, http.StatusServiceUnavailable, "Contact form is not available")
	}

	if err := h.emails.SendContactMessage(c.Request().Context(), h.adminEmail, req.Name, req.Email, req.Message); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
