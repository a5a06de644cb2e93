package internal

// EffectQueue holds effect callbacks per kind until the commit, or the
// passive flush, runs them.
type EffectQueue struct {
	effects map[HookFlags][]func()
}

func NewEffectQueue() *EffectQueue {
	effects := make(map[HookFlags][]func())
	effects[HookLayout] = nil
	effects[HookPassive] = nil

	return &EffectQueue{effects}
}

func (q *EffectQueue) Enqueue(typ HookFlags, fn func()) {
	q.effects[typ] = append(q.effects[typ], fn)
}

func (q *EffectQueue) Len(typ HookFlags) int {
	return len(q.effects[typ])
}

// RunEffects runs the callbacks queued for typ in order. Callbacks queued
// while running wait for the next call.
func (q *EffectQueue) RunEffects(typ HookFlags) {
	effects := q.effects[typ]
	q.ClearEffects(typ)

	for _, effect := range effects {
		effect()
	}
}

func (q *EffectQueue) ClearEffects(typ HookFlags) {
	q.effects[typ] = nil
}
