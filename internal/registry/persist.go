package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"coachboard/internal/board"
	"coachboard/internal/geom"
	"coachboard/internal/store"
)

const (
	StorageKey = "coachboard_v2"
	// LegacyKey holds the single-board {players, strokes} format.
	LegacyKey = "coachboard_v1"

	formatVersion = 2
)

type document struct {
	Version   int            `json:"version"`
	CurrentID string         `json:"currentId"`
	Boards    []board.Record `json:"boards"`
	Plan      []PlanItem     `json:"plan,omitempty"`
}

type legacyDocument struct {
	Players []struct {
		ID    string  `json:"id"`
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
		R     float64 `json:"r"`
		Label string  `json:"label"`
		Side  string  `json:"side"`
	} `json:"players"`
	Strokes []struct {
		Kind   string       `json:"kind"`
		Points []geom.Point `json:"points"`
	} `json:"strokes"`
}

// Marshal serializes every board and the practice plan.
func (r *Registry) Marshal() ([]byte, error) {
	doc := document{
		Version:   formatVersion,
		CurrentID: r.Current().ID,
		Plan:      r.plan,
	}
	for _, b := range r.boards {
		doc.Boards = append(doc.Boards, b.Record())
	}
	return json.Marshal(doc)
}

// Unmarshal replaces the registry content with data. On error the registry
// is left unchanged.
func (r *Registry) Unmarshal(data []byte) error {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode boards: %w", err)
	}
	if len(doc.Boards) == 0 {
		return errors.New("decode boards: no boards")
	}

	boards := make([]*board.Board, 0, len(doc.Boards))
	current := 0
	for i, rec := range doc.Boards {
		b := board.FromRecord(rec, r.limits)
		if b.Name == "" {
			b.Name = fmt.Sprintf("Board %d", i+1)
		}
		if b.ID == doc.CurrentID {
			current = i
		}
		boards = append(boards, b)
	}
	r.boards = boards
	r.current = current
	r.plan = nil
	for _, p := range doc.Plan {
		if r.index(p.BoardID) >= 0 {
			r.plan = append(r.plan, p)
		}
	}
	return nil
}

func (r *Registry) importLegacy(data []byte) error {
	var doc legacyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode legacy board: %w", err)
	}
	rec := board.Record{Name: "Board 1"}
	for _, p := range doc.Players {
		rec.Entities = append(rec.Entities, board.Entity{
			ID:     p.ID,
			Pos:    geom.Pt(p.X, p.Y),
			Radius: p.R,
			Label:  p.Label,
			Class:  board.ParseClass(p.Side),
		})
	}
	for _, s := range doc.Strokes {
		rec.Annotations = append(rec.Annotations, board.Annotation{
			Kind:   board.Kind(s.Kind),
			Points: s.Points,
		})
	}
	r.boards = []*board.Board{board.FromRecord(rec, r.limits)}
	r.current = 0
	r.plan = nil
	return nil
}

// Load reads persisted boards. Malformed data falls back to one fresh board
// and is not reported as an error; only store failures are returned.
func (r *Registry) Load(ctx context.Context) error {
	if r.kv == nil {
		return nil
	}

	data, err := r.kv.Get(ctx, StorageKey)
	if errors.Is(err, store.ErrNotFound) {
		return r.loadLegacy(ctx)
	}
	if err != nil {
		r.reset()
		return fmt.Errorf("load boards: %w", err)
	}

	if err := r.Unmarshal(data); err != nil {
		r.log.Warn().Err(err).Msg("stored boards are malformed, starting fresh")
		r.reset()
		return nil
	}
	r.log.Info().Int("boards", len(r.boards)).Msg("loaded boards")
	return nil
}

func (r *Registry) loadLegacy(ctx context.Context) error {
	data, err := r.kv.Get(ctx, LegacyKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load legacy board: %w", err)
	}
	if err := r.importLegacy(data); err != nil {
		r.log.Warn().Err(err).Msg("legacy board is malformed, starting fresh")
		r.reset()
		return nil
	}
	r.log.Info().Msg("imported legacy board")
	return nil
}

// Save serializes now and writes in the background. Writes land in order;
// a stale write that finishes late is skipped.
func (r *Registry) Save(ctx context.Context) {
	if r.kv == nil {
		return
	}
	data, err := r.Marshal()
	if err != nil {
		r.reportSaveError(err)
		return
	}
	r.seq++
	seq := r.seq
	ctx = context.WithoutCancel(ctx)

	r.saves.Add(1)
	go func() {
		defer r.saves.Done()
		r.writeMu.Lock()
		defer r.writeMu.Unlock()
		if seq < r.lastSeq {
			return
		}
		if err := r.kv.Put(ctx, StorageKey, data); err != nil {
			r.reportSaveError(err)
			return
		}
		r.lastSeq = seq
	}()
}

// SaveSync writes immediately and returns any error.
func (r *Registry) SaveSync(ctx context.Context) error {
	if r.kv == nil {
		return nil
	}
	r.Flush()
	data, err := r.Marshal()
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("save boards: %w", err)
	}
	return nil
}

// Flush waits for background saves.
func (r *Registry) Flush() {
	r.saves.Wait()
}

func (r *Registry) reportSaveError(err error) {
	r.log.Error().Err(err).Msg("failed to save boards")
	if r.onSaveError != nil {
		r.onSaveError(err)
	}
}
