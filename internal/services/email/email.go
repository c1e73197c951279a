// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/silentvoice/sanctuary/internal/config"
	"github.com/silentvoice/sanctuary/internal/i18n"
	"github.com/silentvoice/sanctuary/internal/models"
)

// excerptLength bounds the poem excerpt quoted in the moderation request.
const excerptLength = 200

// Service sends the sanctuary's transactional mail: moderation requests to
// the owner, approval/rejection notices to authors, and contact form relays.
type Service struct {
	cfg     *config.SMTPConfig
	baseURL string
}

// NewService creates a new email service.
func NewService(cfg *config.SMTPConfig, baseURL string) (*Service, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("SMTP host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("SMTP from address is required")
	}

	return &Service{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

// SendModerationRequest notifies the owner about a new submission. The
// approve and reject URLs are the one-click capability links.
func (s *Service) SendModerationRequest(ctx context.Context, ownerEmail string, poem *models.Poem, author *models.Author, approveURL, rejectURL string) error {
	excerpt := poem.Content
	if len(excerpt) > excerptLength {
		excerpt = excerpt[:excerptLength]
	}

	subject := i18n.TData(ctx, "moderation_request_subject", map[string]any{
		"Title": poem.Title,
	})
	body := i18n.TData(ctx, "moderation_request_body", map[string]any{
		"Title":        poem.Title,
		"AuthorName":   author.Name,
		"Excerpt":      excerpt,
		"ApproveURL":   approveURL,
		"RejectURL":    rejectURL,
		"DashboardURL": s.baseURL + "/admin/moderation",
	})

	return s.send(ownerEmail, subject, body)
}

// SendPoemApproved notifies the author that their poem went live.
func (s *Service) SendPoemApproved(ctx context.Context, poem *models.Poem, author *models.Author) error {
	subject := i18n.TData(ctx, "poem_approved_subject", map[string]any{
		"Title": poem.Title,
	})
	body := i18n.TData(ctx, "poem_approved_body", map[string]any{
		"Title":      poem.Title,
		"AuthorName": author.Name,
		"PoemURL":    fmt.Sprintf("%s/poems/%s", s.baseURL, poem.ID),
	})

	return s.send(author.Email, subject, body)
}

// SendPoemRejected notifies the author that their poem was not accepted.
func (s *Service) SendPoemRejected(ctx context.Context, poem *models.Poem, author *models.Author, reason string) error {
	subject := i18n.TData(ctx, "poem_rejected_subject", map[string]any{
		"Title": poem.Title,
	})
	body := i18n.TData(ctx, "poem_rejected_body", map[string]any{
		"Title":      poem.Title,
		"AuthorName": author.Name,
		"Reason":     reason,
	})

	return s.send(author.Email, subject, body)
}

// SendContactMessage relays a contact form message to the owner.
func (s *Service) SendContactMessage(ctx context.Context, ownerEmail, name, fromEmail, message string) error {
	subject := i18n.TData(ctx, "contact_subject", map[string]any{
		"Name": name,
	})
	body := i18n.TData(ctx, "contact_body", map[string]any{
		"Name":    name,
		"Email":   fromEmail,
		"Message": message,
	})

	return s.send(ownerEmail, subject, body)
}

// send sends an email via SMTP using go-mail.
func (s *Service) send(to, subject, body string) error {
	msg := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	} else {
		if err := msg.From(s.cfg.From); err != nil {
			return fmt.Errorf("setting from address: %w", err)
		}
	}

	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}

	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	// Build client options
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
	}

	// Configure TLS based on config and port
	if s.cfg.TLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
		// Use implicit TLS (SSL) for port 465, STARTTLS for others
		if s.cfg.Port == 465 {
			opts = append(opts, mail.WithSSL())
		}
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	// Add authentication if credentials are provided
	if s.cfg.Username != "" && s.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}
