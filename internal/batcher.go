package internal

// Batcher defers root scheduling while a batch is open.
type Batcher struct {
	// each nested batch increases the depth by 1
	// if depth > 0, updated roots are held until the outermost batch is complete
	depth int

	roots []*FiberRoot
}

func NewBatcher() *Batcher {
	return &Batcher{
		depth: 0,
	}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

// Defer holds root until the outermost batch completes.
func (b *Batcher) Defer(root *FiberRoot) {
	for _, r := range b.roots {
		if r == root {
			return
		}
	}

	b.roots = append(b.roots, root)
}

// Batch runs fn, then hands every deferred root to onComplete once the
// outermost batch is done, even if fn panics.
func (b *Batcher) Batch(fn func(), onComplete func(*FiberRoot)) {
	b.depth++
	defer func() {
		b.depth--
		if b.depth > 0 {
			return
		}

		roots := b.roots
		b.roots = nil

		if onComplete != nil {
			for _, root := range roots {
				onComplete(root)
			}
		}
	}()

	fn()
}

// Batch runs fn and schedules the roots it updated once, when it returns.
func (r *Runtime) Batch(fn func()) {
	r.batcher.Batch(fn, r.ensureRootIsScheduled)
}
