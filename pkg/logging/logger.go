package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDirName  = ".opsmith"
	logFileName = "opsmith.log"
)

// Logger writes leveled messages to a rotating log file. One Logger is
// constructed per CLI invocation and passed down explicitly; there is no
// package-level singleton.
type Logger struct {
	logger  *log.Logger
	rotator *lumberjack.Logger
	verbose bool
}

// NewLogger creates a logger backed by a rotating file under ~/.opsmith.
// When verbose is set, messages are echoed to stderr as well.
func NewLogger(verbose bool) (*Logger, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	dir := filepath.Join(home, logDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, logFileName),
		MaxSize:    15, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return &Logger{
		logger:  log.New(rotator, "", log.LstdFlags),
		rotator: rotator,
		verbose: verbose,
	}, nil
}

// NewNopLogger returns a logger that discards everything.
func NewNopLogger() *Logger {
	return &Logger{logger: log.New(io.Discard, "", 0)}
}

func (l *Logger) write(level, format string, args ...interface{}) {
	if l == nil || l.logger == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.logger.Printf("[%s] %s", level, msg)
	if l.verbose {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", level, msg)
	}
}

// Debug logs debug information.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.write("DEBUG", format, args...)
}

// Info logs informational messages.
func (l *Logger) Info(format string, args ...interface{}) {
	l.write("INFO", format, args...)
}

// Warn logs warning messages.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.write("WARN", format, args...)
}

// Error logs error messages.
func (l *Logger) Error(format string, args ...interface{}) {
	l.write("ERROR", format, args...)
}

// LogProcessStep records the current step in a run.
func (l *Logger) LogProcessStep(step string) {
	l.write("STEP", "%s", step)
}

// Close flushes and closes the underlying log file.
func (l *Logger) Close() error {
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}
