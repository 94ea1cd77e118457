package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"coachboard/internal/board"
)

var ErrNoBlobStore = errors.New("no media store configured")

// AttachMedia stores data under a new id and links it to the board.
func (r *Registry) AttachMedia(ctx context.Context, boardID string, data []byte) (string, error) {
	if r.blobs == nil {
		return "", ErrNoBlobStore
	}
	b, err := r.Get(boardID)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := r.blobs.Put(ctx, id, data); err != nil {
		return "", fmt.Errorf("import media: %w", err)
	}
	b.AttachMedia(id)
	r.log.Debug().Str("board", boardID).Str("media", id).Int("bytes", len(data)).Msg("attached media")
	return id, nil
}

func (r *Registry) Media(ctx context.Context, mediaID string) ([]byte, error) {
	if r.blobs == nil {
		return nil, ErrNoBlobStore
	}
	return r.blobs.Get(ctx, mediaID)
}

// DetachMedia unlinks and deletes one blob.
func (r *Registry) DetachMedia(ctx context.Context, boardID, mediaID string) error {
	b, err := r.Get(boardID)
	if err != nil {
		return err
	}
	if !b.DetachMedia(mediaID) {
		return fmt.Errorf("board %s has no media %s", boardID, mediaID)
	}
	if r.blobs == nil {
		return ErrNoBlobStore
	}
	return r.blobs.Delete(ctx, mediaID)
}

func (r *Registry) releaseMedia(ctx context.Context, b *board.Board) {
	if r.blobs == nil {
		return
	}
	for _, id := range b.Media {
		if err := r.blobs.Delete(ctx, id); err != nil {
			r.log.Warn().Err(err).Str("board", b.ID).Str("media", id).Msg("failed to release media")
		}
	}
}
