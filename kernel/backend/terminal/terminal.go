package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/valerio/go-kernel/kernel"
	"github.com/valerio/go-kernel/kernel/backend"
	"github.com/valerio/go-kernel/kernel/backend/terminal/render"
	"github.com/valerio/go-kernel/kernel/input"
	"github.com/valerio/go-kernel/kernel/input/action"
	"github.com/valerio/go-kernel/kernel/input/event"
)

const (
	statsHeight   = 12
	barWidth      = 40
	logBufferSize = 200
	minTermWidth  = 60
	minTermHeight = 20
)

// Backend implements the Backend interface using tcell for a terminal
// dashboard of the kernel's queues and the recent log.
type Backend struct {
	screen     tcell.Screen
	logBuffer  *render.LogBuffer
	logLevel   slog.Level
	config     backend.BackendConfig
	eventQueue []backend.InputEvent
	signals    chan os.Signal
	last       kernel.Stats
	peak       int
	prevLogger *slog.Logger
}

// New creates a terminal backend drawing to the controlling terminal.
func New() *Backend {
	return &Backend{logLevel: slog.LevelInfo}
}

// NewWithScreen creates a terminal backend drawing to screen, typically a
// tcell.SimulationScreen.
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen, logLevel: slog.LevelInfo}
}

// Init initializes the screen and routes the default logger into the log
// pane.
func (t *Backend) Init(config backend.BackendConfig) error {
	t.config = config

	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("failed to initialize terminal: %v", err)
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %v", err)
	}

	t.logBuffer = render.NewLogBuffer(logBufferSize)
	t.prevLogger = slog.Default()
	slog.SetDefault(slog.New(render.NewHandler(t.logBuffer, slog.LevelDebug)))

	slog.Info("Terminal backend initialized")
	if config.ShowDebug {
		slog.Debug("Debug mode enabled")
	}

	t.screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	t.screen.Clear()

	t.signals = make(chan os.Signal, 1)
	signal.Notify(t.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)

	return nil
}

// Update draws the dashboard and returns the keys pressed since the last
// call.
func (t *Backend) Update(stats kernel.Stats) ([]backend.InputEvent, error) {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			t.processKeyEvent(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}

	select {
	case sig := <-t.signals:
		slog.Info("Received signal, quitting", "signal", sig)
		t.eventQueue = append(t.eventQueue, backend.Quit())
	default:
	}

	events := t.eventQueue
	t.eventQueue = nil
	for _, evt := range events {
		slog.Debug("UI event", "action", evt.Action.Description(), "type", evt.Type)
	}

	t.last = stats
	if stats.DeferredPending > t.peak {
		t.peak = stats.DeferredPending
	}
	t.render()
	t.screen.Show()

	return events, nil
}

// Cleanup restores the terminal.
func (t *Backend) Cleanup() error {
	if t.signals != nil {
		signal.Stop(t.signals)
	}
	if t.screen != nil {
		slog.Info("Cleaning up terminal backend")
		t.screen.Fini()
	}
	if t.prevLogger != nil {
		slog.SetDefault(t.prevLogger)
		t.prevLogger = nil
	}
	return nil
}

// HandleAction processes backend-specific actions
func (t *Backend) HandleAction(act action.Action) {
	switch act {
	case action.DebugToggle:
		t.config.ShowDebug = !t.config.ShowDebug
		if t.config.ShowDebug {
			slog.Info("Debug display enabled")
		} else {
			slog.Info("Debug display disabled")
		}
	case action.LogLevelIncrease:
		t.changeLogLevel(1)
	case action.LogLevelDecrease:
		t.changeLogLevel(-1)
	}
}

// LogLevel returns the minimum level shown in the log pane.
func (t *Backend) LogLevel() slog.Level {
	return t.logLevel
}

// tcellKeyNameMap converts tcell keys to key names used in default mappings
var tcellKeyNameMap = map[tcell.Key]string{
	tcell.KeyEscape: "Escape",
	tcell.KeyF10:    "F10",
}

func (t *Backend) processKeyEvent(ev *tcell.EventKey) {
	var name string
	switch ev.Key() {
	case tcell.KeyCtrlC:
		t.eventQueue = append(t.eventQueue, backend.Quit())
		return
	case tcell.KeyRune:
		name = string(ev.Rune())
		if ev.Rune() == ' ' {
			name = "Space"
		}
	default:
		name = tcellKeyNameMap[ev.Key()]
	}

	if act, ok := input.DefaultKeyMap[name]; ok {
		t.eventQueue = append(t.eventQueue, backend.InputEvent{Action: act, Type: event.Press})
	}
}

func (t *Backend) changeLogLevel(direction int) {
	oldLevel := t.logLevel
	switch direction {
	case -1:
		if t.logLevel < slog.LevelError {
			t.logLevel += 4
		}
	case 1:
		if t.logLevel > slog.LevelDebug {
			t.logLevel -= 4
		}
	}
	if oldLevel != t.logLevel {
		slog.Info("Log filter changed", "from", oldLevel, "to", t.logLevel)
	}
}

func (t *Backend) render() {
	termWidth, termHeight := t.screen.Size()
	t.screen.Clear()

	if termWidth < minTermWidth || termHeight < minTermHeight {
		msg := fmt.Sprintf("Terminal too small! Need at least %dx%d", minTermWidth, minTermHeight)
		t.drawText(0, termHeight/2, termWidth, msg, tcell.StyleDefault.Foreground(tcell.ColorRed))
		return
	}

	titleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	borderStyle := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	title := t.config.Title
	if title == "" {
		title = "kernel"
	}
	t.drawText(1, 0, termWidth-1, " "+title+" ", titleStyle)
	t.drawStats(1, 1, termWidth-2)

	for x := 0; x < termWidth; x++ {
		t.screen.SetContent(x, statsHeight+1, '─', nil, borderStyle)
	}
	t.drawText(1, statsHeight+1, termWidth-1, fmt.Sprintf(" Logs [%s] (-/+ filter) ", t.logLevel), titleStyle)
	t.drawLogs(1, statsHeight+2, termWidth-2, termHeight-statsHeight-3)

	help := " q=quit SPACE=pause b=burst f=frame limit d=debug +/- log filter "
	t.drawText(0, termHeight-1, termWidth, help, borderStyle)
}

func (t *Backend) drawStats(x, y, width int) {
	s := t.last
	valueStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)

	lines := []string{
		fmt.Sprintf("Frame: %-10d Clock: %v", s.Frame, s.Now.Truncate(time.Millisecond)),
		fmt.Sprintf("Timed: %-6d Render: %-6d Timers: %d", s.TimedPending, s.RenderPending, s.LiveTimers),
		fmt.Sprintf("Deferred: %-6d Peak: %-6d Cap: %d", s.DeferredPending, t.peak, s.MaxDeferredLength),
		bar(s.DeferredPending, s.MaxDeferredLength, barWidth),
		fmt.Sprintf("Budget: %-10v Frame limit: %v", s.DeferredTimeLimit, s.FrameRateLimit),
		fmt.Sprintf("Dropped: %-8d Forced: %-8d Panics: %d", s.DroppedTicks, s.ForcedDeferred, s.Panics),
	}
	if t.config.ShowDebug {
		lines = append(lines, fmt.Sprintf("Last tick: %v  Delta: %v", s.LastTick, s.Now-s.LastTick))
	}

	for i, line := range lines {
		if i >= statsHeight {
			break
		}
		t.drawText(x, y+i, width, line, valueStyle)
	}
}

// bar renders n against limit as a fixed-width gauge. Values over limit
// fill the gauge and are marked.
func bar(n, limit, width int) string {
	if limit <= 0 {
		limit = 1
	}
	filled := n * width / limit
	over := filled > width
	if over {
		filled = width
	}
	gauge := "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
	if over {
		gauge += " over cap"
	}
	return gauge
}

func (t *Backend) drawLogs(x, y, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}

	debugStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	infoStyle := tcell.StyleDefault.Foreground(tcell.ColorBlue)
	warnStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	errStyle := tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)

	for i, entry := range t.logBuffer.Recent(height, t.logLevel) {
		style := infoStyle
		switch {
		case entry.Level >= slog.LevelError:
			style = errStyle
		case entry.Level >= slog.LevelWarn:
			style = warnStyle
		case entry.Level < slog.LevelInfo:
			style = debugStyle
		}

		text := render.FormatLogEntry(entry)
		if len(text) > width && width > 3 {
			text = text[:width-3] + "..."
		}
		t.drawText(x, y+i, width, text, style)
	}
}

func (t *Backend) drawText(x, y, width int, text string, style tcell.Style) {
	col := 0
	for _, ch := range text {
		if col >= width {
			break
		}
		t.screen.SetContent(x+col, y, ch, nil, style)
		col++
	}
}
