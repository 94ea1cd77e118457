// Package redisstore keeps boards and media in Redis.
package redisstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"coachboard/internal/store"
)

const (
	kvPrefix   = "coachboard:kv:"
	blobPrefix = "coachboard:blob:"
)

type Store struct {
	client *redis.Client
}

// New wraps an existing client.
func New(client *redis.Client) *Store {
	return &Store{client: client}
}

// Dial connects to addr and checks the connection.
func Dial(ctx context.Context, addr string, db int) (*Store, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return New(client), nil
}

func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, kvPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	return s.get(ctx, kvPrefix+key)
}

func (s *Store) get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}
	return v, nil
}

func (s *Store) Blobs() store.Blobs {
	return blobStore{s}
}

type blobStore struct{ s *Store }

func (b blobStore) Put(ctx context.Context, id string, data []byte) error {
	if err := b.s.client.Set(ctx, blobPrefix+id, data, 0).Err(); err != nil {
		return fmt.Errorf("put blob %s: %w", id, err)
	}
	return nil
}

func (b blobStore) Get(ctx context.Context, id string) ([]byte, error) {
	return b.s.get(ctx, blobPrefix+id)
}

func (b blobStore) Delete(ctx context.Context, id string) error {
	if err := b.s.client.Del(ctx, blobPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
