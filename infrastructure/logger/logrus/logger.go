// ABOUTME: Logger implementation backed by logrus with structured field support
// ABOUTME: Maps the core Logger interface onto logrus levels and entries

package logrus

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"digests-app-cache/core/interfaces"
)

// Logger implements the interfaces.Logger interface using logrus
type Logger struct {
	log *logrus.Logger
}

// NewLogger creates a logrus-backed logger writing to stdout at the
// given level. Unknown level strings fall back to info.
func NewLogger(level string) *Logger {
	return newLoggerTo(os.Stdout, level)
}

func newLoggerTo(out io.Writer, level string) *Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)

	return &Logger{log: log}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry(fields).Debug(msg)
}

// Info logs an info message
func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry(fields).Info(msg)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry(fields).Warn(msg)
}

// Error logs an error message
func (l *Logger) Error(msg string, fields map[string]interface{}) {
	l.entry(fields).Error(msg)
}

// entry attaches structured fields to a logrus entry
func (l *Logger) entry(fields map[string]interface{}) *logrus.Entry {
	if len(fields) == 0 {
		return logrus.NewEntry(l.log)
	}
	return l.log.WithFields(logrus.Fields(fields))
}

// compile-time interface check
var _ interfaces.Logger = (*Logger)(nil)
