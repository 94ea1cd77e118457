// Package history keeps bounded undo and redo stacks of immutable states.
package history

// DefaultCapacity is the number of undo steps kept per board.
const DefaultCapacity = 60

// History holds two stacks of states. The caller supplies the current state
// on Undo/Redo so it can be moved onto the opposite stack.
type History[T any] struct {
	undoStack []T
	redoStack []T
	capacity  int
}

func New[T any](capacity int) *History[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History[T]{capacity: capacity}
}

// Record pushes a pre-mutation state. The oldest entry is evicted once the
// stack is full, and any redo entries are dropped.
func (h *History[T]) Record(state T) {
	h.undoStack = push(h.undoStack, state, h.capacity)
	clear(h.redoStack)
	h.redoStack = h.redoStack[:0]
}

// Undo pops the most recent state and stores current for Redo. ok is false
// when there is nothing to undo.
func (h *History[T]) Undo(current T) (state T, ok bool) {
	if len(h.undoStack) == 0 {
		return state, false
	}
	lastIndex := len(h.undoStack) - 1
	state = h.undoStack[lastIndex]
	h.undoStack = h.undoStack[:lastIndex]
	h.redoStack = push(h.redoStack, current, h.capacity)
	return state, true
}

func (h *History[T]) Redo(current T) (state T, ok bool) {
	if len(h.redoStack) == 0 {
		return state, false
	}
	lastIndex := len(h.redoStack) - 1
	state = h.redoStack[lastIndex]
	h.redoStack = h.redoStack[:lastIndex]
	h.undoStack = push(h.undoStack, current, h.capacity)
	return state, true
}

func (h *History[T]) CanUndo() bool { return len(h.undoStack) > 0 }
func (h *History[T]) CanRedo() bool { return len(h.redoStack) > 0 }
func (h *History[T]) UndoLen() int  { return len(h.undoStack) }
func (h *History[T]) RedoLen() int  { return len(h.redoStack) }
func (h *History[T]) Capacity() int { return h.capacity }

// Reset drops both stacks.
func (h *History[T]) Reset() {
	h.undoStack = nil
	h.redoStack = nil
}

// Peek returns the undo stack from oldest to newest without copying states.
func (h *History[T]) Peek() []T {
	return h.undoStack
}

func push[T any](stack []T, state T, capacity int) []T {
	if len(stack) >= capacity {
		n := copy(stack, stack[len(stack)-capacity+1:])
		var zero T
		for i := n; i < len(stack); i++ {
			stack[i] = zero
		}
		stack = stack[:n]
	}
	return append(stack, state)
}
