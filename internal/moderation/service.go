// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/silentvoice/sanctuary/internal/auth"
	"github.com/silentvoice/sanctuary/internal/models"
	"github.com/silentvoice/sanctuary/internal/repository"
)

// Notifier dispatches moderation outcome emails to poem authors.
type Notifier interface {
	SendPoemApproved(ctx context.Context, poem *models.Poem, author *models.Author) error
	SendPoemRejected(ctx context.Context, poem *models.Poem, author *models.Author, reason string) error
}

// ObjectRemover deletes a stored poem image by key.
type ObjectRemover interface {
	Remove(ctx context.Context, key string) error
}

// Result classifies a moderation attempt.
type Result string

const (
	ResultApproved  Result = "approved"
	ResultRejected  Result = "rejected"
	ResultSuspended Result = "suspended"
	ResultRestored  Result = "restored"
	ResultDeleted   Result = "deleted"
	ResultError     Result = "error"
)

// Reason codes carried by error outcomes. Forged and malformed tokens share
// one code so the link handler gives an attacker no signal about which check
// failed; expiry is surfaced distinctly since it is a legitimate case.
const (
	ReasonMissingToken  = "missing-token"
	ReasonInvalidToken  = "invalid-token"
	ReasonExpired       = "expired"
	ReasonNotFound      = "not-found"
	ReasonInvalidAction = "invalid-action"
	ReasonConflict      = "conflict"
	ReasonForbidden     = "forbidden"
	ReasonServerError   = "server-error"
)

// Outcome is what a moderation attempt reports to its transport. Err carries
// the underlying failure for logging; transports render Reason, never Err.
type Outcome struct {
	Result Result
	Reason string
	Status models.PoemStatus
	Err    error
}

// OK reports whether the moderation succeeded.
func (o Outcome) OK() bool {
	return o.Result != ResultError
}

// Links are the capability URLs embedded in a moderation request email.
type Links struct {
	ApproveURL string
	RejectURL  string
}

// Service is the moderation orchestrator: it combines a verified capability
// or an authenticated admin action with the state machine, persists the
// transition, and drives notification side effects.
type Service struct {
	repo    *repository.Repository
	notify  Notifier
	images  ObjectRemover
	secret  string
	baseURL string
	maxAge  time.Duration
	now     func() time.Time
}

// NewService creates the moderation service. notify and images may be nil;
// the corresponding side effects are then skipped.
func NewService(repo *repository.Repository, notify Notifier, images ObjectRemover, secret, baseURL string, maxAge time.Duration) *Service {
	if maxAge <= 0 {
		maxAge = LinkMaxAge
	}
	return &Service{
		repo:    repo,
		notify:  notify,
		images:  images,
		secret:  secret,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		maxAge:  maxAge,
		now:     time.Now,
	}
}

// WithNow overrides the service clock. For tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// IssueLinks builds the approve and reject capability URLs for a poem. Called
// at submission time; the URLs go into the moderation request email.
func (s *Service) IssueLinks(poemID string) Links {
	now := s.now()
	return Links{
		ApproveURL: s.linkURL(EncodeToken(s.secret, poemID, ActionApprove, now)),
		RejectURL:  s.linkURL(EncodeToken(s.secret, poemID, ActionReject, now)),
	}
}

func (s *Service) linkURL(token string) string {
	return fmt.Sprintf("%s/moderation/link?token=%s", s.baseURL, token)
}

// ModerateViaLink moderates a poem through an emailed capability token. Only
// approve and reject ever travel by link; any other verified action is
// rejected. There is no replay ledger: a second click on a still-valid
// approve link re-applies approve, which the transition table accepts.
func (s *Service) ModerateViaLink(ctx context.Context, token string) Outcome {
	if token == "" {
		return errOutcome(ReasonMissingToken, ErrTokenMalformed)
	}

	grant, err := VerifyToken(s.secret, token, s.now(), s.maxAge)
	if err != nil {
		if errors.Is(err, ErrTokenExpired) {
			return errOutcome(ReasonExpired, err)
		}
		return errOutcome(ReasonInvalidToken, err)
	}

	action, err := ParseAction(grant.Action)
	if err != nil || (action != ActionApprove && action != ActionReject) {
		return errOutcome(ReasonInvalidAction, ErrInvalidAction)
	}

	return s.moderate(ctx, grant.PoemID, action, "")
}

// ModerateViaConsole moderates a poem on behalf of an authenticated admin.
// The console additionally supports suspend, restore, and delete, which are
// never exposed via email link.
func (s *Service) ModerateViaConsole(ctx context.Context, principal *auth.Principal, poemID string, action Action, reason string) Outcome {
	if principal == nil || !principal.IsOwner {
		return errOutcome(ReasonForbidden, errors.New("moderation requires an owner principal"))
	}
	if action == ActionDelete {
		return s.deletePoem(ctx, poemID)
	}
	return s.moderate(ctx, poemID, action, reason)
}

// moderate runs the shared pipeline: load, apply, compare-and-set persist,
// notify. Notification failure is logged and never fails the outcome.
func (s *Service) moderate(ctx context.Context, poemID string, action Action, reason string) Outcome {
	poem, err := s.repo.GetPoem(ctx, poemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errOutcome(ReasonNotFound, err)
		}
		return errOutcome(ReasonServerError, err)
	}

	change, err := Apply(poem.Status, action, s.now(), reason)
	if err != nil {
		return errOutcome(ReasonInvalidAction, err)
	}

	switch {
	case change.ApprovedAt != nil:
		err = s.repo.ApprovePoem(ctx, poemID, poem.Status, *change.ApprovedAt)
	case change.RejectionReason != nil:
		err = s.repo.RejectPoem(ctx, poemID, poem.Status, *change.RejectionReason)
	default:
		err = s.repo.SetPoemStatus(ctx, poemID, poem.Status, change.Status)
	}
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return errOutcome(ReasonConflict, err)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return errOutcome(ReasonNotFound, err)
		}
		return errOutcome(ReasonServerError, err)
	}

	s.dispatchNotification(ctx, poem, change)

	slog.Info("poem_moderated", "poem_id", poemID, "action", action, "status", change.Status)
	return Outcome{Result: resultFor(action), Status: change.Status}
}

// dispatchNotification emails the author after a durable approve or reject.
// Fire-and-forget relative to the moderation outcome.
func (s *Service) dispatchNotification(ctx context.Context, poem *models.Poem, change Change) {
	if s.notify == nil {
		return
	}
	if change.ApprovedAt == nil && change.RejectionReason == nil {
		return
	}

	author, err := s.repo.GetAuthorByID(ctx, poem.AuthorID)
	if err != nil {
		slog.Warn("moderation_notify_failed", "poem_id", poem.ID, "error", err)
		return
	}

	if change.ApprovedAt != nil {
		err = s.notify.SendPoemApproved(ctx, poem, author)
	} else {
		err = s.notify.SendPoemRejected(ctx, poem, author, *change.RejectionReason)
	}
	if err != nil {
		slog.Warn("moderation_notify_failed", "poem_id", poem.ID, "error", err)
	}
}

// deletePoem removes the poem and its feedback, then best-effort deletes the
// stored image. Available from any status.
func (s *Service) deletePoem(ctx context.Context, poemID string) Outcome {
	poem, err := s.repo.GetPoem(ctx, poemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errOutcome(ReasonNotFound, err)
		}
		return errOutcome(ReasonServerError, err)
	}

	if err := s.repo.DeletePoem(ctx, poemID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errOutcome(ReasonNotFound, err)
		}
		return errOutcome(ReasonServerError, err)
	}

	if poem.ImageKey != "" && s.images != nil {
		if err := s.images.Remove(ctx, poem.ImageKey); err != nil {
			slog.Warn("poem_image_delete_failed", "poem_id", poemID, "key", poem.ImageKey, "error", err)
		}
	}

	slog.Info("poem_deleted", "poem_id", poemID)
	return Outcome{Result: ResultDeleted}
}

func resultFor(action Action) Result {
	switch action {
	case ActionApprove:
		return ResultApproved
	case ActionReject:
		return ResultRejected
	case ActionSuspend:
		return ResultSuspended
	case ActionRestore:
		return ResultRestored
	case ActionDelete:
		return ResultDeleted
	}
	return ResultError
}

func errOutcome(reason string, err error) Outcome {
	return Outcome{Result: ResultError, Reason: reason, Err: err}
}
