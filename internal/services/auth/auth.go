// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/silentvoice/sanctuary/internal/models"
	"github.com/silentvoice/sanctuary/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Service authenticates the site owner for the admin console.
type Service struct {
	repo *repository.Repository
}

func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// Login authenticates an owner account. Only authors with is_owner set and a
// password hash can log in; everyone else gets ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Author, error) {
	author, err := s.repo.GetAuthorByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get author: %w", err)
	}

	if author.IsOwner == 0 || author.PasswordHash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		slog.Warn("login_failed", "email", email, "reason", "not_owner")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(author.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	slog.Info("login_success", "author_id", author.ID, "email", email)
	return author, nil
}

// EnsureOwner creates or refreshes the owner account at startup when an
// admin password is configured.
func (s *Service) EnsureOwner(ctx context.Context, email, name, password string) error {
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	owner, err := s.repo.CreateOwner(ctx, email, name, string(passwordHash))
	if err != nil {
		return fmt.Errorf("failed to create owner: %w", err)
	}

	slog.Info("owner_ensured", "author_id", owner.ID, "email", email)
	return nil
}
