// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

// Package server wires configuration, storage, services, and routes into the
// running HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"

	"github.com/silentvoice/sanctuary/internal/config"
	"github.com/silentvoice/sanctuary/internal/database"
	"github.com/silentvoice/sanctuary/internal/handlers"
	"github.com/silentvoice/sanctuary/internal/i18n"
	"github.com/silentvoice/sanctuary/internal/moderation"
	"github.com/silentvoice/sanctuary/internal/repository"
	authsvc "github.com/silentvoice/sanctuary/internal/services/auth"
	"github.com/silentvoice/sanctuary/internal/services/email"
	"github.com/silentvoice/sanctuary/internal/services/session"
	"github.com/silentvoice/sanctuary/internal/storage"
)

// Run starts the server with the given CLI command.
func Run(ctx context.Context, cmd *cli.Command) error {
	cfg := config.NewFromCLI(cmd)
	setupLogger(cfg.Log.Level, cfg.Log.Format)

	slog.Info("starting server",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
		"base_url", cfg.Server.BaseURL,
	)

	if cfg.Moderation.Secret == "" {
		return fmt.Errorf("moderation secret is required (set MODERATION_SECRET)")
	}

	// Database
	db, err := database.Open(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database", "error", closeErr)
		}
	}()

	// i18n
	if initErr := i18n.Init(); initErr != nil {
		return fmt.Errorf("failed to init i18n: %w", initErr)
	}

	// Repository
	repo := repository.New(db)

	// Object storage for poem images
	var store storage.ObjectStore = storage.NoopStore{}
	if cfg.Storage.Endpoint != "" {
		s3Store, storeErr := storage.NewS3Store(ctx, &cfg.Storage)
		if storeErr != nil {
			return fmt.Errorf("failed to create object store: %w", storeErr)
		}
		store = s3Store
	} else {
		slog.Warn("no storage endpoint configured, poem images are discarded")
	}

	// Email
	var emails *email.Service
	if cfg.SMTP.Host != "" {
		emails, err = email.NewService(&cfg.SMTP, cfg.Server.BaseURL)
		if err != nil {
			return fmt.Errorf("failed to create email service: %w", err)
		}
	} else {
		slog.Warn("SMTP not configured, notifications are disabled")
	}

	// Moderation orchestrator. The *email.Service is handed over as the
	// Notifier only when configured; a typed nil would dodge the nil checks.
	var notifier moderation.Notifier
	if emails != nil {
		notifier = emails
	}
	mod := moderation.NewService(repo, notifier, store, cfg.Moderation.Secret, cfg.Server.BaseURL, cfg.Moderation.LinkMaxAge)

	// Auth and session
	authService := authsvc.NewService(repo)
	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if ownerErr := authService.EnsureOwner(ctx, cfg.Admin.Email, cfg.Admin.Name, cfg.Admin.Password); ownerErr != nil {
			return fmt.Errorf("failed to ensure owner account: %w", ownerErr)
		}
	}

	secureCookies := strings.HasPrefix(cfg.Server.BaseURL, "https://")
	sessions, err := session.NewService(&cfg.Session, secureCookies)
	if err != nil {
		return fmt.Errorf("failed to create session service: %w", err)
	}

	// Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	h := handlers.New(repo, mod, emails, authService, sessions, store, cfg.Admin.Email)

	setupMiddleware(e, cfg, sessions)
	setupRoutes(e, h)

	return startWithGracefulShutdown(e, cfg)
}

func setupRoutes(e *echo.Echo, h *handlers.Handlers) {
	e.GET("/health", h.Health)

	// Public API
	e.GET("/api/poems", h.ListPoems)
	e.POST("/api/poems", h.SubmitPoem)
	e.GET("/api/poems/:id", h.GetPoem)
	e.POST("/api/poems/:id/feedback", h.CreateFeedback)
	e.POST("/api/contact", h.Contact)

	// One-click moderation from email links
	e.GET("/moderation/link", h.ModerateLink)

	// Admin console
	e.POST("/api/admin/login", h.AdminLogin)
	e.POST("/api/admin/logout", h.AdminLogout)

	admin := e.Group("/api/admin", requireOwner())
	admin.GET("/poems", h.AdminListPoems)
	admin.POST("/poems/:id/moderate", h.AdminModerate)
}

func startWithGracefulShutdown(e *echo.Echo, cfg *config.Config) error {
	errChan := make(chan error, 1)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		slog.Info("Server running", "url", cfg.Server.BaseURL)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	// Wait for interrupt signal or error
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		slog.Info("shutting down server")
	case err := <-errChan:
		slog.Error("server error", "error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shutdown server", "error", err)
	}

	slog.Info("server stopped")
	return nil
}
