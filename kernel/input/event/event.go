package event

// Type represents the type of input event
type Type int

const (
	Press   Type = iota // Key pressed down (throttled for UI actions)
	Release             // Key released (throttled for UI actions)
	Hold                // Continuous while pressed (not throttled)
)
