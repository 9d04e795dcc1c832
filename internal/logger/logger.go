package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"motionbench/internal/config"

	"github.com/pkg/errors"
)

// Logger provides leveled logging (info/warning/error) to stderr and,
// optionally, per-level files. Stdout is left to the result.
type Logger struct {
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	logDir     string
	files      []*os.File
	mu         sync.Mutex
}

// NewLogger creates a Logger from config. Info output is dropped unless
// config.Verbose is set. With config.LogDirectory set, every level is also
// appended to its own file in that directory.
func NewLogger(config *config.Config) (*Logger, error) {
	logger := &Logger{
		logDir: config.LogDirectory,
	}

	var infoConsole io.Writer = io.Discard
	if config.Verbose {
		infoConsole = os.Stderr
	}

	if logger.logDir == "" {
		logger.setupLoggers(infoConsole, os.Stderr, os.Stderr)
		return logger, nil
	}

	if err := os.MkdirAll(logger.logDir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create log directory")
	}

	infoFile, err := logger.openLogFile("info.log")
	if err != nil {
		return nil, err
	}
	warningFile, err := logger.openLogFile("warning.log")
	if err != nil {
		logger.Close()
		return nil, err
	}
	errorFile, err := logger.openLogFile("error.log")
	if err != nil {
		logger.Close()
		return nil, err
	}

	logger.setupLoggers(
		io.MultiWriter(infoConsole, infoFile),
		io.MultiWriter(os.Stderr, warningFile),
		io.MultiWriter(os.Stderr, errorFile),
	)
	return logger, nil
}

// New creates a Logger writing every level to w.
func New(w io.Writer) *Logger {
	logger := &Logger{}
	logger.setupLoggers(w, w, w)
	return logger
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard)
}

// setupLoggers initializes per-level loggers over the given writers.
func (l *Logger) setupLoggers(info, warning, errorW io.Writer) {
	l.infoLog = log.New(info, "ℹ️  INFO    ", log.Ldate|log.Ltime|log.Lshortfile)
	l.warningLog = log.New(warning, "⚠️  WARNING ", log.Ldate|log.Ltime|log.Lshortfile)
	l.errorLog = log.New(errorW, "❌ ERROR   ", log.Ldate|log.Ltime|log.Lshortfile)
}

// openLogFile opens or creates a log file for appending.
func (l *Logger) openLogFile(name string) (*os.File, error) {
	filename := filepath.Join(l.logDir, name)
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open log file %s", filename)
	}
	l.files = append(l.files, file)
	return file, nil
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Output(2, fmt.Sprintf(format, v...))
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Output(2, fmt.Sprintf(format, v...))
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Output(2, fmt.Sprintf(format, v...))
}

// Close closes any log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var first error
	for _, f := range l.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	l.files = nil
	return first
}
