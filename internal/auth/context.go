// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

// Package auth provides the authenticated principal and context helpers.
package auth

import "context"

type principalContextKey struct{}

// Principal is an authenticated admin identity produced by the session layer.
type Principal struct {
	AuthorID int64
	Email    string
	IsOwner  bool
}

// WithPrincipal adds the principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// FromContext returns the principal from the context, or nil if unauthenticated.
func FromContext(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalContextKey{}).(*Principal); ok {
		return p
	}
	return nil
}
