// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers for the public API, the
// moderation link endpoint, and the admin console API.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/silentvoice/sanctuary/internal/moderation"
	"github.com/silentvoice/sanctuary/internal/repository"
	authsvc "github.com/silentvoice/sanctuary/internal/services/auth"
	"github.com/silentvoice/sanctuary/internal/services/email"
	"github.com/silentvoice/sanctuary/internal/services/session"
	"github.com/silentvoice/sanctuary/internal/storage"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	repo       *repository.Repository
	moderation *moderation.Service
	emails     *email.Service
	auth       *authsvc.Service
	sessions   *session.Service
	store      storage.ObjectStore
	adminEmail string
}

// New creates a new Handlers instance. emails may be nil when SMTP is not
// configured; notification sending is then skipped.
func New(repo *repository.Repository, mod *moderation.Service, emails *email.Service, auth *authsvc.Service, sessions *session.Service, store storage.ObjectStore, adminEmail string) *Handlers {
	return &Handlers{
		repo:       repo,
		moderation: mod,
		emails:     emails,
		auth:       auth,
		sessions:   sessions,
		store:      store,
		adminEmail: adminEmail,
	}
}

// Sessions exposes the session service for middleware wiring.
func (h *Handlers) Sessions() *session.Service {
	return h.sessions
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
