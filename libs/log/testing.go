package log

import (
	"testing"

	"github.com/rs/zerolog"
)

// NewTestingLogger converts a testing.T into a logging interface.
func NewTestingLogger(t *testing.T) Logger {
	level := LogLevelError
	if testing.Verbose() {
		level = LogLevelDebug
	}

	return NewTestingLoggerWithLevel(t, level)
}

// NewTestingLoggerWithLevel creates a testing logger instance at a specific
// level that wraps the behavior of testing.T.Log().
func NewTestingLoggerWithLevel(t *testing.T, level string) Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		t.Fatalf("unexpected log level (%s): %v", level, err)
	}

	return defaultLogger{
		Logger: zerolog.New(newTestingWriter(t)).Level(logLevel),
	}
}

type testingWriter struct {
	t *testing.T
}

func newTestingWriter(t *testing.T) testingWriter {
	return testingWriter{t: t}
}

func (w testingWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}
