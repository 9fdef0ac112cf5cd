package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// SlogLogger implements Logger on top of a slog.Handler.
type SlogLogger struct {
	handler slog.Handler
	module  string
	level   slog.Level
	fields  []Field
}

// NewSlogLogger creates a logger writing to w at the given minimum level.
// An unknown format falls back to text.
func NewSlogLogger(w io.Writer, level LogLevel, format Format) *SlogLogger {
	lvl := ParseLevel(string(level))
	opts := &slog.HandlerOptions{Level: lvl}

	var h slog.Handler
	if format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}

	return &SlogLogger{handler: h, level: lvl}
}

// NewDiscardLogger returns a logger that drops every record.
func NewDiscardLogger() *SlogLogger {
	return NewSlogLogger(io.Discard, LogLevelError, FormatText)
}

// ParseLevel converts a textual level into a slog.Level; unknown values map to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Module returns a child logger scoped to name.
func (l *SlogLogger) Module(name string) Logger {
	module := name
	if l.module != "" {
		module = l.module + "." + name
	}
	return &SlogLogger{
		handler: l.handler,
		module:  module,
		level:   l.level,
		fields:  l.fields,
	}
}

// With returns a child logger carrying the extra fields.
func (l *SlogLogger) With(fields ...Field) Logger {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &SlogLogger{
		handler: l.handler,
		module:  l.module,
		level:   l.level,
		fields:  merged,
	}
}

// Enabled reports whether level passes the configured threshold.
func (l *SlogLogger) Enabled(level LogLevel) bool {
	return ParseLevel(string(level)) >= l.level
}

func (l *SlogLogger) Debug(msg string, fields ...Field) { l.log(slog.LevelDebug, msg, fields) }
func (l *SlogLogger) Info(msg string, fields ...Field)  { l.log(slog.LevelInfo, msg, fields) }
func (l *SlogLogger) Warn(msg string, fields ...Field)  { l.log(slog.LevelWarn, msg, fields) }
func (l *SlogLogger) Error(msg string, fields ...Field) { l.log(slog.LevelError, msg, fields) }

func (l *SlogLogger) log(level slog.Level, msg string, fields []Field) {
	ctx := context.Background()
	if !l.handler.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(l.fields)+len(fields)+1)
	if l.module != "" {
		attrs = append(attrs, slog.String("module", l.module))
	}
	for _, f := range l.fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}

	slog.New(l.handler).LogAttrs(ctx, level, msg, attrs...)
}
