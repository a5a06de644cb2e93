package internal

// TaskHeap is a binary min-heap of tasks ordered by (sortIndex, ID).
// The ID tie-break keeps tasks with the same sort index in creation order.
type TaskHeap struct {
	size  int
	nodes []*Task
}

func NewTaskHeap() *TaskHeap {
	return &TaskHeap{
		nodes: make([]*Task, 0, 64),
	}
}

func (h *TaskHeap) Len() int {
	return h.size
}

// Push inserts a task and restores the heap order. O(log n).
func (h *TaskHeap) Push(task *Task) {
	index := h.size
	if index < len(h.nodes) {
		h.nodes[index] = task
	} else {
		h.nodes = append(h.nodes, task)
	}
	h.size++

	h.siftUp(task, index)
}

// Peek returns the minimum task without removing it, or nil if the heap is empty.
func (h *TaskHeap) Peek() *Task {
	if h.size == 0 {
		return nil
	}

	return h.nodes[0]
}

// Pop removes and returns the minimum task, or nil if the heap is empty.
// The last leaf replaces the root and is sifted down.
func (h *TaskHeap) Pop() *Task {
	if h.size == 0 {
		return nil
	}

	first := h.nodes[0]

	h.size--
	last := h.nodes[h.size]
	h.nodes[h.size] = nil // let the popped slot go

	if last != first {
		h.nodes[0] = last
		h.siftDown(last, 0)
	}

	return first
}

func (h *TaskHeap) siftUp(task *Task, i int) {
	index := i
	for index > 0 {
		parentIndex := (index - 1) / 2
		parent := h.nodes[parentIndex]

		if !less(task, parent) {
			return
		}

		h.nodes[parentIndex] = task
		h.nodes[index] = parent
		index = parentIndex
	}
}

func (h *TaskHeap) siftDown(task *Task, i int) {
	index := i
	halfLength := h.size / 2

	for index < halfLength {
		leftIndex := 2*index + 1
		rightIndex := leftIndex + 1
		left := h.nodes[leftIndex]

		// pick the smaller child, then swap if it beats the task
		if less(left, task) {
			if rightIndex < h.size && less(h.nodes[rightIndex], left) {
				h.nodes[index] = h.nodes[rightIndex]
				h.nodes[rightIndex] = task
				index = rightIndex
			} else {
				h.nodes[index] = left
				h.nodes[leftIndex] = task
				index = leftIndex
			}
		} else if rightIndex < h.size && less(h.nodes[rightIndex], task) {
			h.nodes[index] = h.nodes[rightIndex]
			h.nodes[rightIndex] = task
			index = rightIndex
		} else {
			return
		}
	}
}

func less(a, b *Task) bool {
	if a.sortIndex != b.sortIndex {
		return a.sortIndex < b.sortIndex
	}

	return a.ID < b.ID
}
