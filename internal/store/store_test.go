package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_KV(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	value := []byte(`{"boards":[]}`)
	require.NoError(t, m.Put(ctx, "k", value))
	value[0] = 'X'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"boards":[]}`, string(got))
}

func TestMemory_Blobs(t *testing.T) {
	ctx := context.Background()
	b := NewMemory().BlobStore()

	require.NoError(t, b.Put(ctx, "id", []byte("png")))
	got, err := b.Get(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, []byte("png"), got)

	require.NoError(t, b.Delete(ctx, "id"))
	_, err = b.Get(ctx, "id")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, b.Delete(ctx, "id"), "deleting twice is fine")
}
