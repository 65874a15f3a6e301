//go:build sdl2

package sdl2

import (
	"fmt"
	"log/slog"

	"github.com/valerio/go-kernel/kernel"
	"github.com/valerio/go-kernel/kernel/backend"
	"github.com/valerio/go-kernel/kernel/input"
	"github.com/valerio/go-kernel/kernel/input/event"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	windowWidth  = 640
	windowHeight = 240
	barHeight    = 40
	barGap       = 16
)

// Backend implements the Backend interface using SDL2 bindings. Each kernel
// queue is drawn as a horizontal bar, presented with vsync.
// Note: building this requires SDL2 development libraries installed.
// Default builds skip this and use a stub, see build tags (sdl2)
type Backend struct {
	window     *sdl.Window
	renderer   *sdl.Renderer
	running    bool
	callbacks  backend.BackendCallbacks
	config     backend.BackendConfig
	eventQueue []backend.InputEvent
}

// New creates a new SDL2 backend
func New() *Backend {
	return &Backend{}
}

// Init initializes the SDL2 backend
func (s *Backend) Init(config backend.BackendConfig) error {
	s.config = config
	s.callbacks = config.Callbacks

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %v", err)
	}

	scale := int32(config.Scale)
	if scale < 1 {
		scale = 1
	}
	window, err := sdl.CreateWindow(
		config.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		windowWidth*scale,
		windowHeight*scale,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %v", err)
	}
	s.window = window

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if config.VSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	renderer, err := sdl.CreateRenderer(window, -1, flags)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %v", err)
	}
	if err := renderer.SetLogicalSize(windowWidth, windowHeight); err != nil {
		slog.Warn("Failed to set logical size", "error", err)
	}
	s.renderer = renderer

	s.running = true
	slog.Info("SDL2 backend initialized", "vsync", config.VSync)

	return nil
}

// Update draws the queue bars and returns the keys pressed since the last
// call.
func (s *Backend) Update(stats kernel.Stats) ([]backend.InputEvent, error) {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		s.handleEvent(e)
	}

	events := s.eventQueue
	s.eventQueue = nil

	if !s.running {
		return events, nil
	}

	if err := s.draw(stats); err != nil {
		return events, fmt.Errorf("failed to draw frame: %v", err)
	}
	s.renderer.Present()

	return events, nil
}

// Cleanup cleans up SDL2 resources
func (s *Backend) Cleanup() error {
	slog.Info("Cleaning up SDL2 backend")

	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()

	return nil
}

func (s *Backend) handleEvent(e sdl.Event) {
	switch e := e.(type) {
	case *sdl.QuitEvent:
		s.running = false
		s.eventQueue = append(s.eventQueue, backend.Quit())
		if s.callbacks.OnQuit != nil {
			s.callbacks.OnQuit()
		}

	case *sdl.KeyboardEvent:
		if e.Type != sdl.KEYDOWN || e.Repeat != 0 {
			return
		}
		name, ok := keyNames[e.Keysym.Sym]
		if !ok {
			return
		}
		if act, ok := input.DefaultKeyMap[name]; ok {
			s.eventQueue = append(s.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
		}
	}
}

// keyNames converts SDL keys to key names used in default mappings
var keyNames = map[sdl.Keycode]string{
	sdl.K_ESCAPE: "Escape",
	sdl.K_SPACE:  "Space",
	sdl.K_F10:    "F10",
	sdl.K_q:      "q",
	sdl.K_p:      "p",
	sdl.K_b:      "b",
	sdl.K_f:      "f",
	sdl.K_d:      "d",
	sdl.K_EQUALS: "=",
	sdl.K_PLUS:   "+",
	sdl.K_MINUS:  "-",
}

type gauge struct {
	value, limit int
	r, g, b      uint8
}

func (s *Backend) draw(stats kernel.Stats) error {
	if err := s.renderer.SetDrawColor(16, 16, 16, 255); err != nil {
		return err
	}
	if err := s.renderer.Clear(); err != nil {
		return err
	}

	limit := stats.MaxDeferredLength
	if limit < 1 {
		limit = 1
	}
	gauges := []gauge{
		{stats.TimedPending, limit, 80, 160, 255},
		{stats.RenderPending, limit, 80, 255, 120},
		{stats.DeferredPending, limit, 255, 200, 60},
		{stats.LiveTimers, limit, 255, 80, 80},
	}

	for i, g := range gauges {
		width := int32(g.value * (windowWidth - 2*barGap) / g.limit)
		if width > windowWidth-2*barGap {
			width = windowWidth - 2*barGap
		}
		rect := sdl.Rect{
			X: barGap,
			Y: int32(barGap + i*(barHeight+barGap)),
			W: width,
			H: barHeight,
		}
		if err := s.renderer.SetDrawColor(g.r, g.g, g.b, 255); err != nil {
			return err
		}
		if err := s.renderer.FillRect(&rect); err != nil {
			return err
		}
	}
	return nil
}
