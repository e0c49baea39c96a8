// Package logger provides leveled, printf-style logging for the whole
// project on top of logrus. The X-suffixed variants tag the entry with a
// module name so per-subsystem output can be grepped or filtered.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	mu  sync.RWMutex
	std = newDefault()
)

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	return l
}

// SetLevel sets the global log level from a string ("debug", "info",
// "warn", "error"). Unknown values fall back to info.
func SetLevel(level string) {
	mu.Lock()
	defer mu.Unlock()

	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	std.SetLevel(parsed)
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	std.SetOutput(w)
}

func get() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return std
}

func Debug(format string, args ...interface{}) { get().Debugf(format, args...) }
func Info(format string, args ...interface{})  { get().Infof(format, args...) }
func Warn(format string, args ...interface{})  { get().Warnf(format, args...) }
func Error(format string, args ...interface{}) { get().Errorf(format, args...) }

// Fatal logs at error level and exits with status 1.
func Fatal(format string, args ...interface{}) { get().Fatalf(format, args...) }

func DebugX(module, format string, args ...interface{}) {
	get().WithField("module", module).Debugf(format, args...)
}

func InfoX(module, format string, args ...interface{}) {
	get().WithField("module", module).Infof(format, args...)
}

func WarnX(module, format string, args ...interface{}) {
	get().WithField("module", module).Warnf(format, args...)
}

func ErrorX(module, format string, args ...interface{}) {
	get().WithField("module", module).Errorf(format, args...)
}
