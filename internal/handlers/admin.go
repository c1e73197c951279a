// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/silentvoice/sanctuary/internal/auth"
	authsvc "github.com/silentvoice/sanctuary/internal/services/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLogin authenticates the owner and issues the session cookie.
func (h *Handlers) AdminLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return jsonError(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" {
		return jsonError(c, http.StatusBadRequest, "Email and password are required")
	}

	owner, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrInvalidCredentials) {
			return jsonError(c, http.StatusUnauthorized, "Invalid credentials")
		}
		return err
	}

	principal := &auth.Principal{
		AuthorID: owner.ID,
		Email:    owner.Email,
		IsOwner:  true,
	}
	if err := h.sessions.Issue(c, principal); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{"success": true})
}

// AdminLogout clears the session cookie.
func (h *Handlers) AdminLogout(c echo.Context) error {
	h.sessions.Clear(c)
	return c.JSON(http.StatusOK, map[string]any{"success": true})
}
