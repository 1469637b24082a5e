// Package logging wraps logrus with the application's base configuration
// and optional rotating file output.
package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SetupBaseLogger configures the global logrus instance with the
// application defaults. Safe to call multiple times.
func SetupBaseLogger() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
}

// ConfigureLogOutput switches logging to a rotating file under dir when
// toFile is true, otherwise keeps stderr. The file writer rotates at 20MB
// and keeps five backups.
func ConfigureLogOutput(toFile bool, dir string) error {
	if !toFile {
		log.SetOutput(os.Stderr)
		return nil
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, "tokenwatch.log"),
		MaxSize:    20, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	return nil
}

// SetDebug toggles debug-level logging.
func SetDebug(debug bool) {
	if debug {
		log.SetLevel(log.DebugLevel)
		return
	}
	log.SetLevel(log.InfoLevel)
}

// Re-exported helpers so callers can import this package as `log`.

func Debugf(format string, args ...any) { log.Debugf(format, args...) }
func Infof(format string, args ...any)  { log.Infof(format, args...) }
func Warnf(format string, args ...any)  { log.Warnf(format, args...) }
func Errorf(format string, args ...any) { log.Errorf(format, args...) }
func Fatalf(format string, args ...any) { log.Fatalf(format, args...) }

// WithError returns an entry annotated with the given error.
func WithError(err error) *log.Entry { return log.WithError(err) }

// WithField returns an entry annotated with a single field.
func WithField(key string, value any) *log.Entry { return log.WithField(key, value) }
