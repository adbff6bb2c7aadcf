// Package blobstore provides an opaque per-user key-value store for small
// session artifacts (assistant transcripts, the deleted-task counter).
// Callers depend only on the Store interface, never on the medium.
package blobstore

import (
	"context"
	"sync"
)

// Store keeps one blob per (userID, logical key). Get returns nil for an
// absent key; that is not an error.
type Store interface {
	Get(ctx context.Context, userID, key string) ([]byte, error)
	Set(ctx context.Context, userID, key string, value []byte) error
	Remove(ctx context.Context, userID, key string) error
}

// Memory is an in-process Store used in tests and single-node dev setups.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, userID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.blobs[userID+"/"+key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *Memory) Set(_ context.Context, userID, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := make([]byte, len(value))
	copy(b, value)
	m.blobs[userID+"/"+key] = b
	return nil
}

func (m *Memory) Remove(_ context.Context, userID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, userID+"/"+key)
	return nil
}
