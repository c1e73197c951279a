// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

// Package moderation implements the poem moderation subsystem: signed
// capability tokens for one-click email moderation, the submission status
// state machine, and the orchestrating service both transports call into.
package moderation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrTokenMalformed marks a token that does not decode into the
	// expected shape.
	ErrTokenMalformed = errors.New("moderation token is malformed")
	// ErrTokenForged marks a token whose integrity tag does not match.
	ErrTokenForged = errors.New("moderation token integrity tag mismatch")
	// ErrTokenExpired marks a token outside its validity window.
	ErrTokenExpired = errors.New("moderation token has expired")
)

// LinkMaxAge is how long an emailed moderation link stays valid.
const LinkMaxAge = 7 * 24 * time.Hour

// Token is the decoded form of a capability token. The payload binds a poem
// id to a single action at issue time; Tag is a hex HMAC-SHA256 over
// "<PoemID>:<Action>:<IssuedAt>". Tokens are never persisted; they exist only
// as the string embedded in a moderation email link.
type Token struct {
	PoemID   string
	Action   string
	IssuedAt int64 // milliseconds since the Unix epoch
	Tag      string
}

// EncodeToken builds a signed capability token authorizing action on the
// given poem. Poem ids must not contain the ':' payload delimiter; UUIDs
// satisfy this.
func EncodeToken(secret, poemID string, action Action, now time.Time) string {
	payload := fmt.Sprintf("%s:%s:%d", poemID, action, now.UnixMilli())
	tag := integrityTag(secret, payload)
	return base64.RawURLEncoding.EncodeToString([]byte(payload + ":" + tag))
}

// DecodeToken reverses EncodeToken without verifying anything. It fails with
// ErrTokenMalformed when the string is not base64url or does not split into
// exactly four colon-delimited parts.
func DecodeToken(token string) (*Token, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	parts := strings.Split(string(raw), ":")
	if len(parts) != 4 {
		return nil, ErrTokenMalformed
	}

	issuedAt, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, ErrTokenMalformed
	}

	return &Token{
		PoemID:   parts[0],
		Action:   parts[1],
		IssuedAt: issuedAt,
		Tag:      parts[3],
	}, nil
}

// Grant is a verified capability: the holder may perform Action on the poem.
type Grant struct {
	PoemID string
	Action string
}

// VerifyToken decodes a token, recomputes its integrity tag, and checks the
// freshness window. The tag comparison is constant-time. The window check is
// inclusive: a token aged exactly maxAge still verifies, and a token issued
// in the future does not.
func VerifyToken(secret, token string, now time.Time, maxAge time.Duration) (*Grant, error) {
	tok, err := DecodeToken(token)
	if err != nil {
		return nil, err
	}

	payload := fmt.Sprintf("%s:%s:%d", tok.PoemID, tok.Action, tok.IssuedAt)
	expected := integrityTag(secret, payload)
	if !hmac.Equal([]byte(tok.Tag), []byte(expected)) {
		return nil, ErrTokenForged
	}

	age := now.UnixMilli() - tok.IssuedAt
	if age < 0 || age > maxAge.Milliseconds() {
		return nil, ErrTokenExpired
	}

	return &Grant{PoemID: tok.PoemID, Action: tok.Action}, nil
}

func integrityTag(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}
