package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// NewJSONLogger creates a new JSON logger
func NewJSONLogger(writer io.Writer, level Level) *JSONLogger {
	return &JSONLogger{
		writer:  writer,
		writeMu: &sync.Mutex{},
		level:   level,
		fields:  make([]Field, 0),
	}
}

// NewDefaultLogger creates a logger that writes to stderr at INFO level
func NewDefaultLogger() *JSONLogger {
	return NewJSONLogger(os.Stderr, InfoLevel)
}

func (l *JSONLogger) log(level Level, msg string, fields ...Field) {
	if level < l.GetLevel() {
		return
	}

	fieldMap := make(map[string]any, len(l.fields)+len(fields))
	for _, f := range l.fields {
		fieldMap[f.Key] = f.Value
	}
	for _, f := range fields {
		fieldMap[f.Key] = f.Value
	}

	entry := LogEntry{
		Time:    time.Now().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if len(fieldMap) > 0 {
		entry.Fields = fieldMap
	}

	data, err := json.Marshal(entry)

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	if err != nil {
		fmt.Fprintf(l.writer, "[ERROR] Failed to marshal log entry: %v\n", err)
		return
	}
	l.writer.Write(append(data, '\n'))
}

// Debug logs a debug-level message
func (l *JSONLogger) Debug(msg string, fields ...Field) {
	l.log(DebugLevel, msg, fields...)
}

// Info logs an info-level message
func (l *JSONLogger) Info(msg string, fields ...Field) {
	l.log(InfoLevel, msg, fields...)
}

// Warn logs a warning-level message
func (l *JSONLogger) Warn(msg string, fields ...Field) {
	l.log(WarnLevel, msg, fields...)
}

// Error logs an error-level message
func (l *JSONLogger) Error(msg string, fields ...Field) {
	l.log(ErrorLevel, msg, fields...)
}

// With creates a child logger with the given fields pre-set
func (l *JSONLogger) With(fields ...Field) Logger {
	return l.child(l.GetLevel(), fields)
}

func (l *JSONLogger) child(level Level, fields []Field) *JSONLogger {
	l.mu.Lock()
	defer l.mu.Unlock()

	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &JSONLogger{
		writer:  l.writer,
		writeMu: l.writeMu,
		level:   level,
		fields:  newFields,
	}
}

// SetLevel sets the minimum log level
func (l *JSONLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *JSONLogger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// WithLevel returns a child of l that drops entries below level. The
// parent keeps its own level, so a caller can quiet the components it
// drives without silencing its own summary lines. The child never logs
// below the parent's level.
func WithLevel(l Logger, level Level) Logger {
	l = OrNop(l)
	if parent := l.GetLevel(); parent > level {
		level = parent
	}
	if jl, ok := l.(*JSONLogger); ok {
		return jl.child(level, nil)
	}
	return &levelFilter{next: l, level: level}
}

// levelFilter gates any Logger behind a minimum level
type levelFilter struct {
	next  Logger
	level Level
	mu    sync.Mutex
}

func (f *levelFilter) enabled(level Level) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return level >= f.level
}

func (f *levelFilter) Debug(msg string, fields ...Field) {
	if f.enabled(DebugLevel) {
		f.next.Debug(msg, fields...)
	}
}

func (f *levelFilter) Info(msg string, fields ...Field) {
	if f.enabled(InfoLevel) {
		f.next.Info(msg, fields...)
	}
}

func (f *levelFilter) Warn(msg string, fields ...Field) {
	if f.enabled(WarnLevel) {
		f.next.Warn(msg, fields...)
	}
}

func (f *levelFilter) Error(msg string, fields ...Field) {
	if f.enabled(ErrorLevel) {
		f.next.Error(msg, fields...)
	}
}

func (f *levelFilter) With(fields ...Field) Logger {
	return &levelFilter{next: f.next.With(fields...), level: f.GetLevel()}
}

func (f *levelFilter) SetLevel(level Level) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.level = level
}

func (f *levelFilter) GetLevel() Level {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.level
}

// Global default logger
var (
	defaultLogger Logger
	defaultMu     sync.Mutex
)

// DefaultLogger returns the global default logger, created on first use
// at the level named by LOG_LEVEL.
func DefaultLogger() Logger {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultLogger == nil {
		level := InfoLevel
		if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
			level = ParseLevel(levelStr)
		}
		defaultLogger = NewJSONLogger(os.Stderr, level)
	}
	return defaultLogger
}

// SetDefaultLogger sets the global default logger
func SetDefaultLogger(logger Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = logger
}

// StartTimer begins timing an operation
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{
		logger: OrNop(logger),
		msg:    msg,
		start:  time.Now(),
		fields: fields,
	}
}

// Elapsed returns the time since the timer started
func (t *TimedOperation) Elapsed() time.Duration {
	return time.Since(t.start)
}

// End logs the operation at debug level with its duration and returns it
func (t *TimedOperation) End(fields ...Field) time.Duration {
	elapsed := t.Elapsed()
	all := append(append(t.fields[:len(t.fields):len(t.fields)], fields...), Latency(elapsed))
	t.logger.Debug(t.msg, all...)
	return elapsed
}

// EndError logs the operation as an error with its duration
func (t *TimedOperation) EndError(err error) time.Duration {
	elapsed := t.Elapsed()
	t.logger.Error(t.msg, append(t.fields[:len(t.fields):len(t.fields)], Latency(elapsed), Error(err))...)
	return elapsed
}
