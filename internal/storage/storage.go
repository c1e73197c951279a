// Copyright 2025 The Silent Voice Sanctuary Authors
// Licensed under the EUPL-1.2

// Package storage stores poem images in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ObjectStore is the poem image store. Keys, not URLs, are persisted with
// poems so the public base can change without breaking existing records.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

// ImageKey builds a collision-free object key for an uploaded poem image.
func ImageKey(ext string, now time.Time) string {
	return fmt.Sprintf("poems/%d-%s.%s", now.UnixMilli(), uuid.NewString(), ext)
}

// publicURL joins a public base URL and an object key, escaping path
// segments but keeping '/' separators intact. Empty base yields "" so the
// caller can hide images it cannot serve.
func publicURL(base, key string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	key = strings.TrimPrefix(key, "/")
	if base == "" || key == "" {
		return ""
	}

	segments := strings.Split(key, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return base + "/" + strings.Join(segments, "/")
}

// NoopStore discards uploads. Used when no storage endpoint is configured;
// poems are then stored without images.
type NoopStore struct{}

func (NoopStore) Put(context.Context, string, string, io.Reader) error { return nil }
func (NoopStore) Remove(context.Context, string) error                 { return nil }
func (NoopStore) PublicURL(string) string                              { return "" }

// MemStore keeps objects in memory. For tests.
type MemStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	base    string
}

// NewMemStore creates an in-memory store serving keys under base.
func NewMemStore(base string) *MemStore {
	return &MemStore{objects: make(map[string][]byte), base: base}
}

func (m *MemStore) Put(_ context.Context, key, _ string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *MemStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemStore) PublicURL(key string) string {
	return publicURL(m.base, key)
}

// Has reports whether the store holds the given key.
func (m *MemStore) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}
