package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coachboard/internal/store"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", filepath.Join(t.TempDir(), "boards.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_KV(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	_, err := s.Get(ctx, "coachboard_v2")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Put(ctx, "coachboard_v2", []byte(`{"boards":[]}`)))
	require.NoError(t, s.Put(ctx, "coachboard_v2", []byte(`{"boards":[{"id":"a"}]}`)))

	got, err := s.Get(ctx, "coachboard_v2")
	require.NoError(t, err)
	assert.JSONEq(t, `{"boards":[{"id":"a"}]}`, string(got))
}

func TestStore_KVKeepsScalarDocuments(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	for _, doc := range []string{`1`, `2.5`, `"text"`, `[1,2]`, `null`, `true`, `{"a":1}`} {
		require.NoError(t, s.Put(ctx, "doc", []byte(doc)), doc)
		got, err := s.Get(ctx, "doc")
		require.NoError(t, err, doc)
		assert.JSONEq(t, doc, string(got))
	}
}

func TestStore_Blobs(t *testing.T) {
	ctx := context.Background()
	b := openTest(t).Blobs()

	require.NoError(t, b.Put(ctx, "m1", []byte{0x89, 'P', 'N', 'G'}))
	got, err := b.Get(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, got)

	require.NoError(t, b.Delete(ctx, "m1"))
	_, err = b.Get(ctx, "m1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestOpen_InMemory(t *testing.T) {
	s, err := Open("", "", zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "k", []byte(`1`)))
	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "", zerolog.Nop())
	assert.Error(t, err)
}
