package common

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// Logger records levelled events with structured metadata
type Logger interface {
	Log(level, message string, metadata map[string]interface{})
}

type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, or returns a no-op logger if not found
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok {
		return logger
	}
	return &noOpLogger{}
}

type noOpLogger struct{}

func (l *noOpLogger) Log(level, message string, metadata map[string]interface{}) {}

var levelRank = map[string]int{
	"DEBUG":   0,
	"INFO":    1,
	"WARNING": 2,
	"WARN":    2,
	"ERROR":   3,
}

func rank(level string) int {
	if r, ok := levelRank[strings.ToUpper(level)]; ok {
		return r
	}
	return levelRank["INFO"]
}

// StdLogger writes one line per event to w, in text or JSON format, dropping
// events below its minimum level
type StdLogger struct {
	mu       sync.Mutex
	w        io.Writer
	minLevel int
	json     bool
	now      func() time.Time
}

// NewStdLogger creates a text logger; level is DEBUG, INFO, WARNING or ERROR
func NewStdLogger(w io.Writer, level string) *StdLogger {
	return &StdLogger{w: w, minLevel: rank(level), now: time.Now}
}

// NewJSONLogger creates a logger emitting one JSON object per event
func NewJSONLogger(w io.Writer, level string) *StdLogger {
	l := NewStdLogger(w, level)
	l.json = true
	return l
}

// NewLogger picks the format by name ("json" or "text")
func NewLogger(w io.Writer, level, format string) *StdLogger {
	if strings.EqualFold(format, "json") {
		return NewJSONLogger(w, level)
	}
	return NewStdLogger(w, level)
}

func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	if rank(level) < l.minLevel {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := l.now().UTC().Format(time.RFC3339)
	level = strings.ToUpper(level)
	if l.json {
		entry := map[string]interface{}{"time": timestamp, "level": level, "msg": message}
		for k, v := range metadata {
			entry[k] = v
		}
		data, err := json.Marshal(entry)
		if err != nil {
			fmt.Fprintf(l.w, "%s %s %s (unencodable metadata: %v)\n", timestamp, level, message, err)
			return
		}
		fmt.Fprintln(l.w, string(data))
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", timestamp, level, message)
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, metadata[k])
	}
	fmt.Fprintln(l.w, b.String())
}

// MultiLogger fans events out to several loggers
type MultiLogger []Logger

func (m MultiLogger) Log(level, message string, metadata map[string]interface{}) {
	for _, l := range m {
		if l != nil {
			l.Log(level, message, metadata)
		}
	}
}
