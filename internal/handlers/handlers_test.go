// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silentvoice/sanctuary/internal/config"
	"github.com/silentvoice/sanctuary/internal/handlers"
	"github.com/silentvoice/sanctuary/internal/moderation"
	"github.com/silentvoice/sanctuary/internal/repository"
	authsvc "github.com/silentvoice/sanctuary/internal/services/auth"
	"github.com/silentvoice/sanctuary/internal/services/session"
	"github.com/silentvoice/sanctuary/internal/storage"
	"github.com/silentvoice/sanctuary/internal/testutil"
)

const testSecret = "test-moderation-secret"

func newTestHandlers(t *testing.T) (*handlers.Handlers, *repository.Repository, *storage.MemStore) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)

	store := storage.NewMemStore("https://img.example.test")
	mod := moderation.NewService(repo, nil, store, testSecret, "https://sanctuary.example.test", moderation.LinkMaxAge)
	auth := authsvc.NewService(repo)
	sessions, err := session.NewService(&config.SessionConfig{CookieName: "sv_session", MaxAge: 3600}, false)
	require.NoError(t, err)

	h := handlers.New(repo, mod, nil, auth, sessions, store, "owner@example.test")
	return h, repo, store
}

func newJSONContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	return testutil.NewEchoContext(e, method, path, strings.NewReader(body))
}

func TestHealth(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()
	c, rec := testutil.NewEchoContext(e, http.MethodGet, "/health", nil)

	require.NoError(t, h.Health(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestAdminLogin(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()

	auth := authsvc.NewService(repo)
	require.NoError(t, auth.EnsureOwner(context.Background(), "owner@example.test", "Owner", "correct horse battery staple"))

	c, rec := newJSONContext(e, http.MethodPost, "/api/admin/login", `{"email":"owner@example.test","password":"correct horse battery staple"}`)
	require.NoError(t, h.AdminLogin(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sv_session", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
}

func TestAdminLogin_InvalidCredentials(t *testing.T) {
	h, repo, _ := newTestHandlers(t)
	e := echo.New()

	auth := authsvc.NewService(repo)
	require.NoError(t, auth.EnsureOwner(context.Background(), "owner@example.test", "Owner", "correct horse battery staple"))

	c, rec := newJSONContext(e, http.MethodPost, "/api/admin/login", `{"email":"owner@example.test","password":"wrong"}`)
	require.NoError(t, h.AdminLogin(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestAdminLogin_MissingFields(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/api/admin/login", `{"email":"owner@example.test"}`)
	require.NoError(t, h.AdminLogin(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminLogout(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()

	c, rec := testutil.NewEchoContext(e, http.MethodPost, "/api/admin/logout", nil)
	require.NoError(t, h.AdminLogout(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestContact_UnavailableWithoutSMTP(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/api/contact", `{"name":"Reader","email":"reader@example.test","message":"Hello"}`)
	require.NoError(t, h.Contact(c))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestContact_MissingFields(t *testing.T) {
	h, _, _ := newTestHandlers(t)
	e := echo.New()

	c, rec := newJSONContext(e, http.MethodPost, "/api/contact", `{"name":"Reader"}`)
	require.NoError(t, h.Contact(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
