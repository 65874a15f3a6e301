package action

// Action represents a user request to the demo driver.
type Action int

const (
	// Driver controls
	Quit Action = iota
	PauseToggle
	Burst
	CycleFrameRateLimit

	// Diagnostics
	DebugToggle
	LogLevelIncrease
	LogLevelDecrease
)

var descriptions = map[Action]string{
	Quit:                "quit",
	PauseToggle:         "pause or resume the workload",
	Burst:               "enqueue a burst of deferred jobs",
	CycleFrameRateLimit: "cycle the frame-rate limit",
	DebugToggle:         "toggle the debug pane",
	LogLevelIncrease:    "more verbose logging",
	LogLevelDecrease:    "less verbose logging",
}

// Description returns a short human readable description.
func (a Action) Description() string {
	if d, ok := descriptions[a]; ok {
		return d
	}
	return "unknown"
}

// IsUI reports whether the action is a discrete UI command whose repeated
// presses get throttled.
func (a Action) IsUI() bool {
	_, ok := descriptions[a]
	return ok
}
