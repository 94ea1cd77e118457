// Package registry owns the set of boards, which one is current, and how
// they are persisted.
package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"coachboard/internal/board"
	"coachboard/internal/store"
)

var ErrUnknownBoard = errors.New("unknown board")

type Options struct {
	Limits board.Limits
	KV     store.KV
	Blobs  store.Blobs
	Log    zerolog.Logger
	// OnSaveError is called from the writer goroutine when a background
	// save fails.
	OnSaveError func(error)
}

type Registry struct {
	boards  []*board.Board
	current int
	plan    []PlanItem

	limits      board.Limits
	kv          store.KV
	blobs       store.Blobs
	onSaveError func(error)
	log         zerolog.Logger

	saves   sync.WaitGroup
	writeMu sync.Mutex
	seq     uint64
	lastSeq uint64
}

// New returns a registry holding one empty board.
func New(opts Options) *Registry {
	if opts.Limits == (board.Limits{}) {
		opts.Limits = board.DefaultLimits()
	}
	r := &Registry{
		limits:      opts.Limits,
		kv:          opts.KV,
		blobs:       opts.Blobs,
		onSaveError: opts.OnSaveError,
		log:         opts.Log.With().Str("component", "registry").Logger(),
	}
	r.reset()
	return r
}

func (r *Registry) reset() {
	r.boards = []*board.Board{board.New(r.nextName(), r.limits)}
	r.current = 0
	r.plan = nil
}

func (r *Registry) nextName() string {
	for n := len(r.boards) + 1; ; n++ {
		name := fmt.Sprintf("Board %d", n)
		if !slices.ContainsFunc(r.boards, func(b *board.Board) bool { return b.Name == name }) {
			return name
		}
	}
}

func (r *Registry) Limits() board.Limits { return r.limits }

// Boards returns the boards in display order.
func (r *Registry) Boards() []*board.Board {
	return slices.Clone(r.boards)
}

func (r *Registry) Current() *board.Board {
	return r.boards[r.current]
}

func (r *Registry) CurrentIndex() int { return r.current }

func (r *Registry) Get(id string) (*board.Board, error) {
	i := r.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBoard, id)
	}
	return r.boards[i], nil
}

func (r *Registry) index(id string) int {
	return slices.IndexFunc(r.boards, func(b *board.Board) bool { return b.ID == id })
}

// Find resolves a board by id, name or 1-based position.
func (r *Registry) Find(ref string) (*board.Board, error) {
	if i := r.index(ref); i >= 0 {
		return r.boards[i], nil
	}
	for _, b := range r.boards {
		if b.Name == ref {
			return b, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(r.boards) {
		return r.boards[n-1], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownBoard, ref)
}

// Create adds a board and makes it current. An empty name gets "Board N".
func (r *Registry) Create(name string) *board.Board {
	if name == "" {
		name = r.nextName()
	}
	b := board.New(name, r.limits)
	r.boards = append(r.boards, b)
	r.current = len(r.boards) - 1
	r.log.Info().Str("board", b.ID).Str("name", name).Msg("created board")
	return b
}

// Switch makes the board with id current.
func (r *Registry) Switch(id string) error {
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownBoard, id)
	}
	r.current = i
	return nil
}

// Next and Prev cycle through boards, wrapping around.
func (r *Registry) Next() *board.Board {
	r.current = (r.current + 1) % len(r.boards)
	return r.Current()
}

func (r *Registry) Prev() *board.Board {
	r.current = (r.current - 1 + len(r.boards)) % len(r.boards)
	return r.Current()
}

func (r *Registry) Rename(id, name string) error {
	b, err := r.Get(id)
	if err != nil {
		return err
	}
	if name == "" {
		return errors.New("board name cannot be empty")
	}
	b.Name = name
	return nil
}

// Duplicate copies a board's content (not its history or media) into a new
// current board.
func (r *Registry) Duplicate(id string) (*board.Board, error) {
	src, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	dup := r.Create(src.Name + " copy")
	content := src.Content()
	dup.Merge(content.Entities, content.Annotations)
	return dup, nil
}

// Delete removes a board and its media. Deleting the only board leaves a
// fresh empty one in its place.
func (r *Registry) Delete(ctx context.Context, id string) error {
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownBoard, id)
	}
	b := r.boards[i]
	r.releaseMedia(ctx, b)

	r.boards = slices.Delete(r.boards, i, i+1)
	r.plan = slices.DeleteFunc(r.plan, func(p PlanItem) bool { return p.BoardID == id })
	if len(r.boards) == 0 {
		r.boards = []*board.Board{board.New(r.nextName(), r.limits)}
	}
	if r.current >= len(r.boards) || r.current > i {
		r.current = max(r.current-1, 0)
	}
	r.log.Info().Str("board", id).Msg("deleted board")
	return nil
}
