// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package config

import (
	"fmt"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server     ServerConfig
	Log        LogConfig
	Database   DatabaseConfig
	SMTP       SMTPConfig
	Storage    StorageConfig
	Moderation ModerationConfig
	Admin      AdminConfig
	Session    SessionConfig
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type SMTPConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      bool
}

// StorageConfig points at the S3-compatible bucket holding poem images.
// PublicURL is the public base under which stored keys are reachable; when
// empty, image URLs are omitted from API responses.
type StorageConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PublicURL string
}

// ModerationConfig holds the capability link settings. Secret must be stable
// across restarts: rotating it invalidates all outstanding moderation links.
type ModerationConfig struct {
	Secret     string
	LinkMaxAge time.Duration
}

// AdminConfig identifies the site owner. Email receives moderation request
// notifications; when Password is set, the owner account is created or
// updated at startup.
type AdminConfig struct {
	Email    string
	Name     string
	Password string
}

type SessionConfig struct { //nolint:govet // fieldalignment not critical
	CookieName string // Session cookie name
	MaxAge     int    // Session max age in seconds
	HashKey    string // 32-byte hex string for HMAC signing
	BlockKey   string // 32-byte hex string for AES encryption (optional)
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		SMTP: SMTPConfig{
			Host:     cmd.String("smtp-host"),
			Port:     int(cmd.Int("smtp-port")),
			Username: cmd.String("smtp-username"),
			Password: cmd.String("smtp-password"),
			From:     cmd.String("smtp-from"),
			FromName: cmd.String("smtp-from-name"),
			TLS:      cmd.Bool("smtp-tls"),
		},
		Storage: StorageConfig{
			Endpoint:  cmd.String("storage-endpoint"),
			Region:    cmd.String("storage-region"),
			Bucket:    cmd.String("storage-bucket"),
			AccessKey: cmd.String("storage-access-key"),
			SecretKey: cmd.String("storage-secret-key"),
			PublicURL: cmd.String("storage-public-url"),
		},
		Moderation: ModerationConfig{
			Secret:     cmd.String("moderation-secret"),
			LinkMaxAge: cmd.Duration("moderation-link-max-age"),
		},
		Admin: AdminConfig{
			Email:    cmd.String("admin-email"),
			Name:     cmd.String("admin-name"),
			Password: cmd.String("admin-password"),
		},
		Session: SessionConfig{
			CookieName: cmd.String("session-cookie-name"),
			MaxAge:     int(cmd.Int("session-max-age")),
			HashKey:    cmd.String("session-hash-key"),
			BlockKey:   cmd.String("session-block-key"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}

	return cfg
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port

	// Hide the default port in the URL
	if port == 80 {
		return fmt.Sprintf("http://%s", host)
	}
	return fmt.Sprintf("http://%s:%d", host, port)
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "localhost",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8080,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Base URL for the application",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   8,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/sanctuary.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		// SMTP flags
		&cli.StringFlag{
			Name:    "smtp-host",
			Usage:   "SMTP server host",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_HOST"), toml.TOML("smtp.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "smtp-port",
			Value:   587,
			Usage:   "SMTP server port",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PORT"), toml.TOML("smtp.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-username",
			Usage:   "SMTP username",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_USERNAME"), toml.TOML("smtp.username", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-password",
			Usage:   "SMTP password",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_PASSWORD"), toml.TOML("smtp.password", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from",
			Usage:   "From address for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM"), toml.TOML("smtp.from", configFile)),
		},
		&cli.StringFlag{
			Name:    "smtp-from-name",
			Value:   "Silent Voice Sanctuary",
			Usage:   "Display name for outgoing mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_FROM_NAME"), toml.TOML("smtp.from_name", configFile)),
		},
		&cli.BoolFlag{
			Name:    "smtp-tls",
			Value:   true,
			Usage:   "Require TLS when talking to the SMTP server",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SMTP_TLS"), toml.TOML("smtp.tls", configFile)),
		},
		// Storage flags
		&cli.StringFlag{
			Name:    "storage-endpoint",
			Usage:   "S3-compatible endpoint for poem images (empty disables image storage)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STORAGE_ENDPOINT"), toml.TOML("storage.endpoint", configFile)),
		},
		&cli.StringFlag{
			Name:    "storage-region",
			Value:   "auto",
			Usage:   "Storage region",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STORAGE_REGION"), toml.TOML("storage.region", configFile)),
		},
		&cli.StringFlag{
			Name:    "storage-bucket",
			Usage:   "Storage bucket name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STORAGE_BUCKET"), toml.TOML("storage.bucket", configFile)),
		},
		&cli.StringFlag{
			Name:    "storage-access-key",
			Usage:   "Storage access key",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STORAGE_ACCESS_KEY"), toml.TOML("storage.access_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "storage-secret-key",
			Usage:   "Storage secret key",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STORAGE_SECRET_KEY"), toml.TOML("storage.secret_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "storage-public-url",
			Usage:   "Public base URL under which stored images are served",
			Sources: cli.NewValueSourceChain(cli.EnvVar("STORAGE_PUBLIC_URL"), toml.TOML("storage.public_url", configFile)),
		},
		// Moderation flags
		&cli.StringFlag{
			Name:    "moderation-secret",
			Usage:   "Secret for signing moderation link tokens (must be stable across restarts)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MODERATION_SECRET"), toml.TOML("moderation.secret", configFile)),
		},
		&cli.DurationFlag{
			Name:    "moderation-link-max-age",
			Value:   7 * 24 * time.Hour,
			Usage:   "How long moderation links stay valid",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MODERATION_LINK_MAX_AGE"), toml.TOML("moderation.link_max_age", configFile)),
		},
		// Admin flags
		&cli.StringFlag{
			Name:    "admin-email",
			Usage:   "Owner address receiving moderation request mail",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_EMAIL"), toml.TOML("admin.email", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-name",
			Value:   "Sanctuary Keeper",
			Usage:   "Owner display name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_NAME"), toml.TOML("admin.name", configFile)),
		},
		&cli.StringFlag{
			Name:    "admin-password",
			Usage:   "Owner login password (account is created at startup when set)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("ADMIN_PASSWORD"), toml.TOML("admin.password", configFile)),
		},
		// Session flags
		&cli.StringFlag{
			Name:    "session-cookie-name",
			Value:   "sv_session",
			Usage:   "Session cookie name",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_COOKIE_NAME"), toml.TOML("session.cookie_name", configFile)),
		},
		&cli.IntFlag{
			Name:    "session-max-age",
			Value:   604800, // 7 days in seconds
			Usage:   "Session max age in seconds",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_MAX_AGE"), toml.TOML("session.max_age", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-hash-key",
			Usage:   "Session hash key (32-byte hex, auto-generated if empty in dev)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_HASH_KEY"), toml.TOML("session.hash_key", configFile)),
		},
		&cli.StringFlag{
			Name:    "session-block-key",
			Usage:   "Session block key for encryption (32-byte hex, optional)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("SESSION_BLOCK_KEY"), toml.TOML("session.block_key", configFile)),
		},
	}
}
