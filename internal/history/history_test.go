package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_UndoRedo(t *testing.T) {
	h := New[int](10)

	_, ok := h.Undo(0)
	assert.False(t, ok, "undo on empty history should be a no-op")

	// state goes 0 -> 1 -> 2, recording the pre-mutation value each time
	h.Record(0)
	h.Record(1)
	current := 2

	prev, ok := h.Undo(current)
	require.True(t, ok)
	assert.Equal(t, 1, prev)
	current = prev

	next, ok := h.Redo(current)
	require.True(t, ok)
	assert.Equal(t, 2, next)
	current = next

	assert.Equal(t, 2, h.UndoLen())
	assert.Equal(t, 0, h.RedoLen())
}

func TestHistory_RecordClearsRedo(t *testing.T) {
	h := New[string](10)
	h.Record("a")
	_, ok := h.Undo("b")
	require.True(t, ok)
	require.True(t, h.CanRedo())

	h.Record("c")
	assert.False(t, h.CanRedo())
	_, ok = h.Redo("x")
	assert.False(t, ok)
}

func TestHistory_CapacityEvictsOldest(t *testing.T) {
	h := New[int](60)
	for i := 0; i < 75; i++ {
		h.Record(i)
	}

	assert.Equal(t, 60, h.UndoLen())
	stack := h.Peek()
	assert.Equal(t, 15, stack[0], "oldest entries are evicted first")
	assert.Equal(t, 74, stack[len(stack)-1])

	// unwinding yields newest first and stops at the oldest survivor
	current := 75
	var seen []int
	for h.CanUndo() {
		prev, _ := h.Undo(current)
		seen = append(seen, prev)
		current = prev
	}
	assert.Len(t, seen, 60)
	assert.Equal(t, 74, seen[0])
	assert.Equal(t, 15, seen[59])
}

func TestHistory_RedoIsBounded(t *testing.T) {
	h := New[int](3)
	for i := 0; i < 3; i++ {
		h.Record(i)
	}
	current := 3
	for h.CanUndo() {
		current, _ = h.Undo(current)
	}
	assert.Equal(t, 3, h.RedoLen())
	assert.Equal(t, 0, current)
}

func TestHistory_DefaultCapacityAndReset(t *testing.T) {
	h := New[int](0)
	assert.Equal(t, DefaultCapacity, h.Capacity())

	h.Record(1)
	h.Reset()
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}
