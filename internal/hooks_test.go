package internal

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEqual(t *testing.T) {
	m := map[string]int{"a": 1}
	s := []int{1, 2, 3}
	p := &struct{ n int }{1}
	fn := func() {}

	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"nil", nil, nil, true},
		{"nil and value", nil, 0, false},
		{"ints", 1, 1, true},
		{"different ints", 1, 2, false},
		{"different types", 1, int64(1), false},
		{"strings", "a", "a", true},
		{"same pointer", p, p, true},
		{"same map", m, m, true},
		{"other map", m, map[string]int{"a": 1}, false},
		{"same slice", s, s, true},
		{"subslice", s, s[:2], false},
		{"funcs", fn, fn, false},
		{"comparable structs", struct{ a int }{1}, struct{ a int }{1}, true},
		{"struct holding a slice", struct{ a any }{s}, struct{ a any }{s}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isEqual(tt.a, tt.b))
		})
	}
}

func TestAreHookInputsEqual(t *testing.T) {
	assert.True(t, areHookInputsEqual([]any{}, []any{}))
	assert.True(t, areHookInputsEqual([]any{1, "a"}, []any{1, "a"}))
	assert.False(t, areHookInputsEqual([]any{1, "a"}, []any{1, "b"}))
	assert.False(t, areHookInputsEqual([]any{1}, []any{1, 2}))
	assert.False(t, areHookInputsEqual([]any{}, nil))
}

func TestReduce(t *testing.T) {
	t.Run("reducer wins", func(t *testing.T) {
		add := func(state, action any) any { return state.(int) + action.(int) }
		assert.Equal(t, 3, reduce(add, 1, 2))
	})

	t.Run("invocable action", func(t *testing.T) {
		double := func(state any) any { return state.(int) * 2 }
		assert.Equal(t, 4, reduce(nil, 2, double))
	})

	t.Run("plain value", func(t *testing.T) {
		assert.Equal(t, "next", reduce(nil, "prev", "next"))
	})
}

func TestHookOrderError(t *testing.T) {
	var err error = &HookOrderError{
		Code:      HookOrderMissing,
		Component: "Counter",
		Index:     1,
		Previous:  2,
	}

	assert.ErrorIs(t, err, ErrHookOrder)
	assert.True(t, IsHookOrderError(fmt.Errorf("render: %w", err)))
	assert.False(t, IsHookOrderError(errors.New("other")))
	assert.EqualError(t, err, "MISSING_HOOK: Counter rendered fewer hooks than during the previous render (1 of 2)")
}

func TestAsError(t *testing.T) {
	boom := errors.New("boom")
	assert.Same(t, boom, asError(boom))

	err := asError("oops")
	assert.EqualError(t, err, "render panicked: oops")

	var re *RenderError
	assert.ErrorAs(t, err, &re)
	assert.Equal(t, "oops", re.Value)
}
