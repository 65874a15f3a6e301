package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_CreateIsMonotonic(t *testing.T) {
	r := NewRegistry()

	a := r.Create()
	b := r.Create()
	c := r.Create()

	assert.Equal(t, Handle(1), a)
	assert.Less(t, a, b)
	assert.Less(t, b, c)
	assert.Equal(t, 3, r.Len())
	assert.Equal(t, uint64(3), r.Issued())
}

func TestRegistry_HandlesAreNeverReused(t *testing.T) {
	r := NewRegistry()

	first := r.Create()
	r.Cancel(first)
	second := r.Create()

	assert.NotEqual(t, first, second)
	assert.False(t, r.IsLive(first))
	assert.True(t, r.IsLive(second))
}

func TestRegistry_Cancel(t *testing.T) {
	tests := []struct {
		name   string
		cancel func(r *Registry, h Handle)
	}{
		{
			name:   "once",
			cancel: func(r *Registry, h Handle) { r.Cancel(h) },
		},
		{
			name: "twice",
			cancel: func(r *Registry, h Handle) {
				r.Cancel(h)
				r.Cancel(h)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			h := r.Create()
			assert.True(t, r.IsLive(h))

			assert.NotPanics(t, func() { tt.cancel(r, h) })
			assert.False(t, r.IsLive(h))
			assert.Equal(t, 0, r.Len())
		})
	}
}

func TestRegistry_CancelUnknownHandle(t *testing.T) {
	r := NewRegistry()
	live := r.Create()

	assert.NotPanics(t, func() { r.Cancel(Handle(42)) })
	assert.False(t, r.IsLive(Handle(42)))
	assert.True(t, r.IsLive(live), "cancelling an unknown handle must not affect others")
}

func TestRegistry_ZeroHandleIsNeverLive(t *testing.T) {
	r := NewRegistry()
	r.Create()

	assert.False(t, r.IsLive(Handle(0)))
	r.Cancel(Handle(0))
	assert.Equal(t, 1, r.Len())
}
