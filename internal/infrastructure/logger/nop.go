package logger

// NoOpLogger discards every entry. Tests and callers without logging use it.
type NoOpLogger struct{}

// NewNop returns a Logger that discards everything.
func NewNop() Logger {
	return &NoOpLogger{}
}

// Debug discards the entry.
func (l *NoOpLogger) Debug(string, ...Field) {}

// Info discards the entry.
func (l *NoOpLogger) Info(string, ...Field) {}

// Warn discards the entry.
func (l *NoOpLogger) Warn(string, ...Field) {}

// Error discards the entry.
func (l *NoOpLogger) Error(string, ...Field) {}

// Fatal discards the entry and, unlike the zap logger, does not exit.
func (l *NoOpLogger) Fatal(string, ...Field) {}

// With ignores fields and returns the receiver.
func (l *NoOpLogger) With(...Field) Logger {
	return l
}

// Sync has nothing to flush.
func (l *NoOpLogger) Sync() error {
	return nil
}
