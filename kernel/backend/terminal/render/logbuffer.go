package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// LogEntry represents a single log message with metadata
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// LogBuffer is a thread-safe circular buffer for log entries
type LogBuffer struct {
	mutex   sync.RWMutex
	entries []LogEntry
	index   int
	count   int
}

// NewLogBuffer creates a new log buffer with the specified capacity.
// Capacities below one are raised to one.
func NewLogBuffer(size int) *LogBuffer {
	if size < 1 {
		size = 1
	}
	return &LogBuffer{entries: make([]LogEntry, size)}
}

// Add inserts a new log entry, overwriting the oldest one when full.
func (lb *LogBuffer) Add(entry LogEntry) {
	lb.mutex.Lock()
	defer lb.mutex.Unlock()

	lb.entries[lb.index] = entry
	lb.index = (lb.index + 1) % len(lb.entries)
	if lb.count < len(lb.entries) {
		lb.count++
	}
}

// Recent returns up to maxCount entries at or above minLevel, newest first.
// A non-positive maxCount returns every matching entry.
func (lb *LogBuffer) Recent(maxCount int, minLevel slog.Level) []LogEntry {
	lb.mutex.RLock()
	defer lb.mutex.RUnlock()

	var result []LogEntry
	size := len(lb.entries)
	for i := 0; i < lb.count; i++ {
		entry := lb.entries[(lb.index-1-i+size)%size]
		if entry.Level < minLevel {
			continue
		}
		result = append(result, entry)
		if maxCount > 0 && len(result) == maxCount {
			break
		}
	}
	return result
}

// Len returns the number of stored entries.
func (lb *LogBuffer) Len() int {
	lb.mutex.RLock()
	defer lb.mutex.RUnlock()
	return lb.count
}

// Handler is a slog.Handler that captures records into a LogBuffer.
type Handler struct {
	buffer *LogBuffer
	level  slog.Leveler
	prefix string // pre-rendered attrs from WithAttrs
	group  string
}

// NewHandler creates a handler writing records at or above level to buffer.
func NewHandler(buffer *LogBuffer, level slog.Leveler) *Handler {
	return &Handler{buffer: buffer, level: level}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, record slog.Record) error {
	var sb strings.Builder
	sb.WriteString(record.Message)
	sb.WriteString(h.prefix)
	record.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.group, a)
		return true
	})

	h.buffer.Add(LogEntry{
		Time:    record.Time,
		Level:   record.Level,
		Message: sb.String(),
	})
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.prefix)
	for _, a := range attrs {
		writeAttr(&sb, h.group, a)
	}
	clone := *h
	clone.prefix = sb.String()
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group != "" {
		clone.group += "."
	}
	clone.group += name
	return &clone
}

func writeAttr(sb *strings.Builder, group string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if group != "" {
		key = group + "." + key
	}
	fmt.Fprintf(sb, " %s=%v", key, a.Value.Resolve())
}

// FormatLogEntry formats a log entry for display
func FormatLogEntry(entry LogEntry) string {
	levelStr := "???"
	switch entry.Level {
	case slog.LevelDebug:
		levelStr = "DBG"
	case slog.LevelInfo:
		levelStr = "INF"
	case slog.LevelWarn:
		levelStr = "WRN"
	case slog.LevelError:
		levelStr = "ERR"
	}

	return fmt.Sprintf("%s [%s] %s", entry.Time.Format("15:04:05"), levelStr, entry.Message)
}
