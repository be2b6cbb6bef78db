package logging

import (
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is the library's leveled logger: one charmbracelet logger with
// a subsystem gate in front of trace output.  The zero level is Warn;
// a library should stay quiet unless asked.
type Logger struct {
	base *log.Logger

	mtx             sync.Mutex
	traceSubsystems map[string]bool
}

func NewLogger(w io.Writer) *Logger {
	return &Logger{
		base: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Level:           log.WarnLevel,
		}),
		traceSubsystems: make(map[string]bool),
	}
}

// Discard returns a logger that drops everything.  Stores constructed
// without a logger get one of these.
func Discard() *Logger {
	l := NewLogger(io.Discard)
	l.base.SetLevel(log.FatalLevel)
	return l
}

func (l *Logger) EnableInfo() {
	l.base.SetLevel(log.InfoLevel)
}

func (l *Logger) EnableDebug() {
	l.base.SetLevel(log.DebugLevel)
}

// EnableTracing turns on trace output for a comma-separated list of
// subsystems, or "all".
func (l *Logger) EnableTracing(subsystems string) {
	l.mtx.Lock()
	l.traceSubsystems = make(map[string]bool)
	for _, subsystem := range strings.Split(subsystems, ",") {
		l.traceSubsystems[subsystem] = true
	}
	l.mtx.Unlock()
	l.base.SetLevel(log.DebugLevel)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.base.Infof(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.base.Warnf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.base.Errorf(format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.base.Debugf(format, args...)
}

// Trace logs at debug level under the subsystem's prefix, but only for
// subsystems named in EnableTracing.
func (l *Logger) Trace(subsystem string, format string, args ...interface{}) {
	l.mtx.Lock()
	enabled := l.traceSubsystems[subsystem] || l.traceSubsystems["all"]
	l.mtx.Unlock()
	if enabled {
		l.base.WithPrefix(subsystem).Debugf(format, args...)
	}
}
