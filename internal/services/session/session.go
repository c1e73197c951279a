// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

// Package session issues and reads the signed admin session cookie.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/labstack/echo/v4"

	"github.com/silentvoice/sanctuary/internal/auth"
	"github.com/silentvoice/sanctuary/internal/config"
)

// sessionPayload is what gets signed into the cookie.
type sessionPayload struct {
	AuthorID int64
	Email    string
	IsOwner  bool
}

// Service wraps securecookie for the admin session. The cookie is HMAC
// signed; when a block key is configured it is also encrypted.
type Service struct {
	sc     *securecookie.SecureCookie
	name   string
	maxAge int
	secure bool
}

// NewService creates the session service. When no hash key is configured a
// random one is generated, which invalidates sessions on restart; fine for
// development, logged as a warning.
func NewService(cfg *config.SessionConfig, secure bool) (*Service, error) {
	hashKey, err := keyFromHex(cfg.HashKey)
	if err != nil {
		return nil, fmt.Errorf("invalid session hash key: %w", err)
	}
	if hashKey == nil {
		hashKey = securecookie.GenerateRandomKey(32)
		slog.Warn("session hash key not configured, generated a volatile one")
	}

	var blockKey []byte
	if cfg.BlockKey != "" {
		blockKey, err = keyFromHex(cfg.BlockKey)
		if err != nil {
			return nil, fmt.Errorf("invalid session block key: %w", err)
		}
	}

	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(cfg.MaxAge)

	return &Service{
		sc:     sc,
		name:   cfg.CookieName,
		maxAge: cfg.MaxAge,
		secure: secure,
	}, nil
}

// Issue sets a session cookie for the given principal.
func (s *Service) Issue(c echo.Context, p *auth.Principal) error {
	encoded, err := s.sc.Encode(s.name, sessionPayload{
		AuthorID: p.AuthorID,
		Email:    p.Email,
		IsOwner:  p.IsOwner,
	})
	if err != nil {
		return fmt.Errorf("encoding session cookie: %w", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     s.name,
		Value:    encoded,
		Path:     "/",
		MaxAge:   s.maxAge,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (s *Service) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     s.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Principal decodes the session cookie. Returns nil for missing, expired, or
// tampered cookies.
func (s *Service) Principal(c echo.Context) *auth.Principal {
	cookie, err := c.Cookie(s.name)
	if err != nil {
		return nil
	}

	var payload sessionPayload
	if err := s.sc.Decode(s.name, cookie.Value, &payload); err != nil {
		return nil
	}

	return &auth.Principal{
		AuthorID: payload.AuthorID,
		Email:    payload.Email,
		IsOwner:  payload.IsOwner,
	}
}

// keyFromHex decodes a 32-byte hex key; empty input yields nil.
func keyFromHex(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("expected 32 bytes, got %d", len(key))
	}
	return key, nil
}

// GenerateKey returns a fresh 32-byte key as hex, for provisioning.
func GenerateKey() (string, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return "", err
	}
	return hex.EncodeToString(key), nil
}
