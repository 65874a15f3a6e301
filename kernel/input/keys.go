package input

import "github.com/valerio/go-kernel/kernel/input/action"

// DefaultKeyMap provides key mappings shared by the interactive backends.
var DefaultKeyMap = map[string]action.Action{
	"q":      action.Quit,
	"Escape": action.Quit,

	"Space": action.PauseToggle,
	"p":     action.PauseToggle,
	"b":     action.Burst,
	"f":     action.CycleFrameRateLimit,

	"F10": action.DebugToggle,
	"d":   action.DebugToggle,
	"+":   action.LogLevelIncrease,
	"=":   action.LogLevelIncrease,
	"-":   action.LogLevelDecrease,
}
