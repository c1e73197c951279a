// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

package moderation

import (
	"errors"
	"time"

	"github.com/silentvoice/sanctuary/internal/models"
)

// Action is a moderation action. Transport layers parse raw strings into this
// closed vocabulary; everything past the transport boundary works with Action
// values only.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionSuspend Action = "suspend"
	ActionRestore Action = "restore"
	ActionDelete  Action = "delete"
)

var (
	// ErrInvalidAction marks a string outside the action vocabulary.
	ErrInvalidAction = errors.New("unknown moderation action")
	// ErrInvalidTransition marks an action not permitted from the poem's
	// current status.
	ErrInvalidTransition = errors.New("action not permitted from current status")
)

// ParseAction validates a wire string against the action vocabulary.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionApprove, ActionReject, ActionSuspend, ActionRestore, ActionDelete:
		return Action(s), nil
	}
	return "", ErrInvalidAction
}

// DefaultRejectionReason is recorded when a rejection carries no reason.
const DefaultRejectionReason = "Does not resonate with the sanctuary."

// Change is the computed result of a status transition: the new status plus
// the side data to persist with it. Exactly one of ApprovedAt and
// RejectionReason is set for approve/reject; neither for suspend/restore.
type Change struct {
	Status          models.PoemStatus
	ApprovedAt      *time.Time
	RejectionReason *string
}

// Apply is the transition table. It is a pure function; callers load the
// current status, apply, and persist the change under a compare-and-set so
// concurrent moderators cannot both win from the same observed status.
//
//	pending   approve -> approved   (ApprovedAt = now)
//	pending   reject  -> rejected   (RejectionReason = given or default)
//	rejected  approve -> approved   (re-approval; rejection reason cleared)
//	approved  approve -> approved   (idempotent; ApprovedAt re-stamped)
//	approved  suspend -> suspended
//	suspended restore -> approved
//
// Every other pair fails with ErrInvalidTransition. Deletion is an entity
// removal, not a transition, and is owned by the Service.
func Apply(current models.PoemStatus, action Action, now time.Time, reason string) (Change, error) {
	switch action {
	case ActionApprove:
		switch current {
		case models.PoemPending, models.PoemRejected, models.PoemApproved:
			return Change{Status: models.PoemApproved, ApprovedAt: &now}, nil
		}
	case ActionReject:
		if current == models.PoemPending {
			if reason == "" {
				reason = DefaultRejectionReason
			}
			return Change{Status: models.PoemRejected, RejectionReason: &reason}, nil
		}
	case ActionSuspend:
		if current == models.PoemApproved {
			return Change{Status: models.PoemSuspended}, nil
		}
	case ActionRestore:
		if current == models.PoemSuspended {
			return Change{Status: models.PoemApproved}, nil
		}
	}
	return Change{}, ErrInvalidTransition
}
