// Package store defines the persistence boundary: a key-value store for the
// serialized boards and a blob store for media attachments.
package store

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when the key or blob does not exist.
var ErrNotFound = errors.New("not found")

// KV stores opaque values by key.
type KV interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// Blobs stores large media by generated id.
type Blobs interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
}

// Memory is a process-local KV and Blobs implementation.
type Memory struct {
	mu    sync.RWMutex
	kv    map[string][]byte
	blobs map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{
		kv:    make(map[string][]byte),
		blobs: make(map[string][]byte),
	}
}

func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.kv[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// BlobStore returns the blob side of the memory store.
func (m *Memory) BlobStore() Blobs {
	return memoryBlobs{m}
}

type memoryBlobs struct{ m *Memory }

func (b memoryBlobs) Put(_ context.Context, id string, data []byte) error {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	b.m.blobs[id] = append([]byte(nil), data...)
	return nil
}

func (b memoryBlobs) Get(_ context.Context, id string) ([]byte, error) {
	b.m.mu.RLock()
	defer b.m.mu.RUnlock()
	v, ok := b.m.blobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (b memoryBlobs) Delete(_ context.Context, id string) error {
	b.m.mu.Lock()
	defer b.m.mu.Unlock()
	delete(b.m.blobs, id)
	return nil
}
