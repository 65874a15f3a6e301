// Package input maps backend input events to driver callbacks.
package input

import (
	"time"

	"github.com/valerio/go-kernel/kernel/backend"
	"github.com/valerio/go-kernel/kernel/input/action"
	"github.com/valerio/go-kernel/kernel/input/event"
	"github.com/valerio/go-kernel/kernel/ratelimit"
)

// DefaultThrottle is the minimum time between two handled presses of the
// same UI action.
const DefaultThrottle = 300 * time.Millisecond

type gateKey struct {
	act action.Action
	evt event.Type
}

// Manager handles input actions and their associated callbacks.
//
// Press and Release events of UI actions are throttled on the kernel's
// clock: the first event in a window is handled and the rest are dropped.
type Manager struct {
	sched    ratelimit.Scheduler
	window   time.Duration
	handlers map[action.Action]map[event.Type][]func()
	gates    map[gateKey]func()
}

// NewManager creates a manager throttling on s. A non-positive window
// disables throttling.
func NewManager(s ratelimit.Scheduler, window time.Duration) *Manager {
	return &Manager{
		sched:    s,
		window:   window,
		handlers: make(map[action.Action]map[event.Type][]func()),
		gates:    make(map[gateKey]func()),
	}
}

// On registers a callback for a specific action and event type.
func (m *Manager) On(act action.Action, evt event.Type, callback func()) {
	if m.handlers[act] == nil {
		m.handlers[act] = make(map[event.Type][]func())
	}
	m.handlers[act][evt] = append(m.handlers[act][evt], callback)
}

// Trigger handles the given action and event type.
func (m *Manager) Trigger(act action.Action, evt event.Type) {
	if m.window <= 0 || evt == event.Hold || !act.IsUI() {
		m.run(act, evt)
		return
	}

	key := gateKey{act, evt}
	gate, ok := m.gates[key]
	if !ok {
		gate = ratelimit.ThrottleFunc(m.sched, func() { m.run(act, evt) }, m.window,
			ratelimit.WithTrailing(false))
		m.gates[key] = gate
	}
	gate()
}

// Dispatch triggers every event in order.
func (m *Manager) Dispatch(events []backend.InputEvent) {
	for _, e := range events {
		m.Trigger(e.Action, e.Type)
	}
}

func (m *Manager) run(act action.Action, evt event.Type) {
	for _, callback := range m.handlers[act][evt] {
		callback()
	}
}
