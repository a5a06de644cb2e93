package internal

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskHeap(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		h := NewTaskHeap()

		assert.Nil(t, h.Peek())
		assert.Nil(t, h.Pop())
		assert.Equal(t, 0, h.Len())
	})

	t.Run("pops in sort order", func(t *testing.T) {
		h := NewTaskHeap()

		r := rand.New(rand.NewSource(1))
		for i := 0; i < 100; i++ {
			h.Push(&Task{ID: uint64(i), sortIndex: time.Duration(r.Intn(50))})
		}
		assert.Equal(t, 100, h.Len())

		prev := h.Pop()
		for h.Len() > 0 {
			task := h.Pop()
			assert.False(t, less(task, prev), "task %d popped after task %d", task.ID, prev.ID)
			prev = task
		}
	})

	t.Run("ties keep insertion order", func(t *testing.T) {
		h := NewTaskHeap()
		for _, id := range []uint64{3, 1, 4, 2} {
			h.Push(&Task{ID: id, sortIndex: 10})
		}
		h.Push(&Task{ID: 9, sortIndex: 5})

		var ids []uint64
		for h.Len() > 0 {
			ids = append(ids, h.Pop().ID)
		}

		assert.Equal(t, []uint64{9, 1, 2, 3, 4}, ids)
	})

	t.Run("peek does not remove", func(t *testing.T) {
		h := NewTaskHeap()
		a := &Task{ID: 1, sortIndex: 2}
		b := &Task{ID: 2, sortIndex: 1}
		h.Push(a)
		h.Push(b)

		assert.Same(t, b, h.Peek())
		assert.Same(t, b, h.Peek())
		assert.Equal(t, 2, h.Len())

		assert.Same(t, b, h.Pop())
		assert.Same(t, a, h.Pop())
		assert.Nil(t, h.Pop())
	})

	t.Run("reuses slots after pops", func(t *testing.T) {
		h := NewTaskHeap()
		for i := 0; i < 4; i++ {
			h.Push(&Task{ID: uint64(i), sortIndex: time.Duration(i)})
		}
		h.Pop()
		h.Pop()
		h.Push(&Task{ID: 10, sortIndex: 0})

		assert.Equal(t, 3, h.Len())
		assert.Equal(t, uint64(10), h.Pop().ID)
		assert.Equal(t, uint64(2), h.Pop().ID)
		assert.Equal(t, uint64(3), h.Pop().ID)
	})
}
