// pattern: Imperative Shell

package logging

import (
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *ScopedLogger {
	return &ScopedLogger{}
}

// TestLogManager is a LoggerProvider for tests. It records every entry, at
// any level, in write order so tests can assert on diagnostics.
type TestLogManager struct {
	rec     *recorder
	baseZap *zap.Logger
	loggers map[string]*ScopedLogger
	mu      sync.Mutex
}

// NewTestLogManager creates an empty TestLogManager.
func NewTestLogManager() *TestLogManager {
	rec := &recorder{}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(jsonEncoderConfig()),
		zapcore.AddSync(rec),
		zapcore.DebugLevel,
	)
	return &TestLogManager{
		rec:     rec,
		baseZap: zap.New(core),
		loggers: make(map[string]*ScopedLogger),
	}
}

// For returns a scoped logger for the given scope name.
func (m *TestLogManager) For(scope string) *ScopedLogger {
	m.mu.Lock()
	defer m.mu.Unlock()

	if logger, ok := m.loggers[scope]; ok {
		return logger
	}
	logger := newScopedLogger(m.baseZap, scope)
	m.loggers[scope] = logger
	return logger
}

// Entries returns a copy of everything recorded so far.
func (m *TestLogManager) Entries() []LogEntry {
	return m.rec.snapshot(false)
}

// Drain returns everything recorded so far and forgets it.
func (m *TestLogManager) Drain() []LogEntry {
	return m.rec.snapshot(true)
}

// Has reports whether an entry at level contains msg in its message.
func (m *TestLogManager) Has(level, msg string) bool {
	for _, e := range m.Entries() {
		if e.Level == level && strings.Contains(e.Message, msg) {
			return true
		}
	}
	return false
}

// Close stops recording. Later writes are dropped.
func (m *TestLogManager) Close() error {
	m.rec.mu.Lock()
	defer m.rec.mu.Unlock()
	m.rec.closed = true
	return nil
}

// recorder is the zap write target behind TestLogManager.
type recorder struct {
	mu      sync.Mutex
	entries []LogEntry
	closed  bool
}

func (r *recorder) Write(p []byte) (int, error) {
	entry, err := DecodeEntry(p)
	if err != nil {
		return len(p), nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.closed {
		r.entries = append(r.entries, entry)
	}
	return len(p), nil
}

func (r *recorder) snapshot(reset bool) []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := slices.Clone(r.entries)
	if reset {
		r.entries = nil
	}
	return out
}
