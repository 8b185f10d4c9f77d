// Package log provides a thread-safe, structured logging infrastructure with filesystem-based persistence.
package log

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/ythdp/ythdp/filesystem"
	"github.com/ythdp/ythdp/key"
	"github.com/ythdp/ythdp/where"
)

var (
	// enabled indicates the persistent logging state for the active application instance.
	enabled bool

	// diagnostics mirrors the user-controlled debug preference.
	// When set, debug output is emitted even if persistent logging is off.
	diagnostics atomic.Bool

	// configured is the level chosen by Setup, restored when diagnostics are switched off.
	configured = logrus.InfoLevel
)

// Setup initializes the logging subsystem, including file handles, formatting, and severity levels based on global configuration.
// Inoperative state: If logging is disabled, all subsequent log emissions except diagnostics are silently discarded.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	filename := fmt.Sprintf("%s.log", time.Now().Format("2006-01-02"))
	path := filepath.Join(dir, filename)

	if exists := lo.Must(filesystem.API().Exists(path)); !exists {
		lo.Must(filesystem.API().Create(path))
	}

	f, err := filesystem.API().OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{PrettyPrint: true})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}

	lvl := viper.GetString(key.LogsLevel)
	parsed, err := logrus.ParseLevel(lvl)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	configured = parsed
	logrus.SetLevel(parsed)

	return nil
}

// SetDiagnostics toggles the debug channel controlled by the user's preferences.
func SetDiagnostics(on bool) {
	diagnostics.Store(on)
	if on {
		logrus.SetLevel(logrus.DebugLevel)
		return
	}
	logrus.SetLevel(configured)
}

// Diagnostics reports whether the debug channel is currently on.
func Diagnostics() bool {
	return diagnostics.Load()
}

func debugOn() bool {
	return enabled || diagnostics.Load()
}

// Severity-Specific Log Emissions - these functions proxy messages to the configured backend when logging is enabled.

func Panic(args ...interface{}) {
	if enabled {
		logrus.Panic(args...)
	}
}
func Panicf(format string, args ...interface{}) {
	if enabled {
		logrus.Panicf(format, args...)
	}
}
func Fatal(args ...interface{}) {
	if enabled {
		logrus.Fatal(args...)
	}
}
func Fatalf(format string, args ...interface{}) {
	if enabled {
		logrus.Fatalf(format, args...)
	}
}
func Error(args ...interface{}) {
	if debugOn() {
		logrus.Error(args...)
	}
}
func Errorf(format string, args ...interface{}) {
	if debugOn() {
		logrus.Errorf(format, args...)
	}
}
func Warn(args ...interface{}) {
	if debugOn() {
		logrus.Warn(args...)
	}
}
func Warnf(format string, args ...interface{}) {
	if debugOn() {
		logrus.Warnf(format, args...)
	}
}
func Info(args ...interface{}) {
	if enabled {
		logrus.Info(args...)
	}
}
func Infof(format string, args ...interface{}) {
	if enabled {
		logrus.Infof(format, args...)
	}
}
func Debug(args ...interface{}) {
	if debugOn() {
		logrus.Debug(args...)
	}
}
func Debugf(format string, args ...interface{}) {
	if debugOn() {
		logrus.Debugf(format, args...)
	}
}
func Trace(args ...interface{}) {
	if enabled {
		logrus.Trace(args...)
	}
}
func Tracef(format string, args ...interface{}) {
	if enabled {
		logrus.Tracef(format, args...)
	}
}
