package input

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valerio/go-kernel/kernel"
	"github.com/valerio/go-kernel/kernel/backend"
	"github.com/valerio/go-kernel/kernel/clock"
	"github.com/valerio/go-kernel/kernel/input/action"
	"github.com/valerio/go-kernel/kernel/input/event"
)

func newTestManager(t *testing.T, window time.Duration) (*Manager, *clock.Manual) {
	t.Helper()

	c := clock.NewManual(time.Millisecond)
	cfg := kernel.DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	k, err := kernel.New(c, cfg)
	require.NoError(t, err)
	return NewManager(k, window), c
}

func TestManager_Throttling(t *testing.T) {
	tests := []struct {
		name          string
		eventType     event.Type
		timeBetween   time.Duration
		expectHandled int
	}{
		{
			name:          "rapid press - second is dropped",
			eventType:     event.Press,
			timeBetween:   100 * time.Millisecond,
			expectHandled: 1,
		},
		{
			name:          "slow press - both handled",
			eventType:     event.Press,
			timeBetween:   400 * time.Millisecond,
			expectHandled: 2,
		},
		{
			name:          "rapid release - second is dropped",
			eventType:     event.Release,
			timeBetween:   10 * time.Millisecond,
			expectHandled: 1,
		},
		{
			name:          "hold is never throttled",
			eventType:     event.Hold,
			timeBetween:   10 * time.Millisecond,
			expectHandled: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, c := newTestManager(t, DefaultThrottle)

			handled := 0
			m.On(action.Burst, tt.eventType, func() { handled++ })

			m.Trigger(action.Burst, tt.eventType)
			c.Advance(tt.timeBetween)
			m.Trigger(action.Burst, tt.eventType)

			assert.Equal(t, tt.expectHandled, handled)
		})
	}
}

func TestManager_ThrottleIsPerActionAndType(t *testing.T) {
	m, _ := newTestManager(t, DefaultThrottle)

	var got []string
	m.On(action.Burst, event.Press, func() { got = append(got, "burst press") })
	m.On(action.Burst, event.Release, func() { got = append(got, "burst release") })
	m.On(action.PauseToggle, event.Press, func() { got = append(got, "pause press") })

	m.Trigger(action.Burst, event.Press)
	m.Trigger(action.Burst, event.Release)
	m.Trigger(action.PauseToggle, event.Press)
	m.Trigger(action.Burst, event.Press)

	assert.Equal(t, []string{"burst press", "burst release", "pause press"}, got)
}

func TestManager_NoWindowDisablesThrottling(t *testing.T) {
	m, _ := newTestManager(t, 0)

	handled := 0
	m.On(action.Quit, event.Press, func() { handled++ })

	for i := 0; i < 5; i++ {
		m.Trigger(action.Quit, event.Press)
	}
	assert.Equal(t, 5, handled)
}

func TestManager_Dispatch(t *testing.T) {
	m, _ := newTestManager(t, DefaultThrottle)

	var got []action.Action
	for _, a := range []action.Action{action.Quit, action.Burst, action.DebugToggle} {
		m.On(a, event.Press, func() { got = append(got, a) })
	}

	m.Dispatch([]backend.InputEvent{
		{Action: action.Burst, Type: event.Press},
		{Action: action.DebugToggle, Type: event.Press},
		backend.Quit(),
	})

	assert.Equal(t, []action.Action{action.Burst, action.DebugToggle, action.Quit}, got)
}

func TestManager_MultipleCallbacksRunInRegistrationOrder(t *testing.T) {
	m, _ := newTestManager(t, DefaultThrottle)

	var got []int
	m.On(action.Burst, event.Press, func() { got = append(got, 1) })
	m.On(action.Burst, event.Press, func() { got = append(got, 2) })

	m.Trigger(action.Burst, event.Press)
	assert.Equal(t, []int{1, 2}, got)
}

func TestActionDescriptions(t *testing.T) {
	for key, a := range DefaultKeyMap {
		assert.True(t, a.IsUI(), "key %q", key)
		assert.NotEqual(t, "unknown", a.Description(), "key %q", key)
	}
	assert.Equal(t, "unknown", action.Action(99).Description())
	assert.False(t, action.Action(99).IsUI())
}
