package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Category groups related log lines so a debug log can be grepped per subsystem.
type Category string

const (
	CatPattern  Category = "pattern"  // Pattern compilation and evaluation
	CatRegistry Category = "registry" // Decoration registry mutations
	CatOperator Category = "operator" // Applying and clearing decorations on buffers
	CatMode     Category = "mode"     // Matching mode toggles
	CatConfig   Category = "config"   // Loading and saving highlights
	CatBuffer   Category = "buffer"   // Buffer loading and reloading
	CatWatcher  Category = "watcher"  // File change notifications
	CatUI       Category = "ui"       // TUI events
)

// DefaultLogPath is where the debug log goes when no path is configured.
const DefaultLogPath = "/tmp/textmarker.out"

// Logger provides a centralized logging mechanism for textmarker
type Logger struct {
	infoLogger    *log.Logger
	warningLogger *log.Logger
	debugLogger   *log.Logger
	errorLogger   *log.Logger
	file          *os.File
	mu            sync.Mutex
}

var (
	defaultLogger *Logger
	loggerMu      sync.Mutex
)

// GetLogger returns the default logger instance. Until Init is called all
// output is discarded, so library code can log freely in tests.
func GetLogger() *Logger {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = newWriterLogger(io.Discard, nil)
	}
	return defaultLogger
}

// Init replaces the default logger with one writing to logPath and returns
// a cleanup func that closes the file.
func Init(logPath string) (func(), error) {
	l, err := NewLogger(logPath)
	if err != nil {
		return nil, err
	}

	loggerMu.Lock()
	defaultLogger = l
	loggerMu.Unlock()

	return func() { _ = l.Close() }, nil
}

// SetOutput points the default logger at w. Mostly useful in tests.
func SetOutput(w io.Writer) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = newWriterLogger(w, nil)
}

// NewLogger creates a new logger that writes to the specified file
func NewLogger(logPath string) (*Logger, error) {
	// Ensure the directory exists
	dir := filepath.Dir(logPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Open or create the log file
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return newWriterLogger(file, file), nil
}

func newWriterLogger(w io.Writer, file *os.File) *Logger {
	return &Logger{
		infoLogger:    log.New(w, "[INFO] ", log.LstdFlags),
		warningLogger: log.New(w, "[WARN] ", log.LstdFlags),
		debugLogger:   log.New(w, "[DEBUG] ", log.LstdFlags),
		errorLogger:   log.New(w, "[ERROR] ", log.LstdFlags),
		file:          file,
	}
}

// Info logs an informational message
func (l *Logger) Info(cat Category, msg string, fields ...any) {
	l.write(l.infoLogger, cat, msg, fields)
}

// Warning logs a warning message
func (l *Logger) Warning(cat Category, msg string, fields ...any) {
	l.write(l.warningLogger, cat, msg, fields)
}

// Debug logs a debug message
func (l *Logger) Debug(cat Category, msg string, fields ...any) {
	l.write(l.debugLogger, cat, msg, fields)
}

// Error logs an error message
func (l *Logger) Error(cat Category, msg string, fields ...any) {
	l.write(l.errorLogger, cat, msg, fields)
}

func (l *Logger) write(target *log.Logger, cat Category, msg string, fields []any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	target.Print(formatEntry(cat, msg, fields))
}

// formatEntry renders "[cat] msg key=value key2=value2".
func formatEntry(cat Category, msg string, fields []any) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", cat, msg)
	for i := 0; i+1 < len(fields); i += 2 {
		fmt.Fprintf(&b, " %v=%v", fields[i], fields[i+1])
	}
	if len(fields)%2 != 0 {
		fmt.Fprintf(&b, " %v=", fields[len(fields)-1])
	}
	return b.String()
}

// Close closes the log file (if any)
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// Convenience functions for the default logger

func Info(cat Category, msg string, fields ...any) {
	GetLogger().Info(cat, msg, fields...)
}

func Warning(cat Category, msg string, fields ...any) {
	GetLogger().Warning(cat, msg, fields...)
}

func Debug(cat Category, msg string, fields ...any) {
	GetLogger().Debug(cat, msg, fields...)
}

func Error(cat Category, msg string, fields ...any) {
	GetLogger().Error(cat, msg, fields...)
}
