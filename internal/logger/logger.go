package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const maxBufferSize = 1000

var (
	instance *Logger
	once     sync.Once
)

type LogEntry struct {
	Timestamp time.Time
	Level     slog.Level
	Message   string
}

type Logger struct {
	file    *os.File
	logger  *slog.Logger
	console *slog.Logger
	mu      sync.Mutex
	buffer  []LogEntry
}

func newFileHandler(w io.Writer) slog.Handler {
	return tint.NewHandler(w, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	})
}

// Init opens logPath for appending. Entries are always kept in the in-memory
// buffer, even when Init was never called.
func Init(logPath string) error {
	var initErr error
	once.Do(func() {
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			initErr = fmt.Errorf("failed to open log file: %w", err)
			return
		}

		instance = &Logger{
			file:   file,
			logger: slog.New(newFileHandler(file)),
			buffer: make([]LogEntry, 0, maxBufferSize),
		}
	})

	EnsureInit()
	return initErr
}

func EnsureInit() {
	if instance == nil {
		instance = &Logger{
			buffer: make([]LogEntry, 0, maxBufferSize),
		}
	}
}

// EnableConsole mirrors every entry to w. Colors are used only when w is a
// terminal.
func EnableConsole(w *os.File, level slog.Level) {
	EnsureInit()
	noColor := !isatty.IsTerminal(w.Fd()) && !isatty.IsCygwinTerminal(w.Fd())
	handler := tint.NewHandler(colorable.NewColorable(w), &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	})

	instance.mu.Lock()
	defer instance.mu.Unlock()
	instance.console = slog.New(handler)
}

func Close() error {
	if instance != nil && instance.file != nil {
		return instance.file.Close()
	}
	return nil
}

func addToBuffer(level slog.Level, message string) {
	if len(instance.buffer) >= maxBufferSize {
		instance.buffer = instance.buffer[1:]
	}
	instance.buffer = append(instance.buffer, LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	})
}

func write(level slog.Level, message string, attrs ...slog.Attr) {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	addToBuffer(level, message)

	ctx := context.Background()
	if instance.logger != nil {
		instance.logger.LogAttrs(ctx, level, message, attrs...)
	}
	if instance.console != nil {
		instance.console.LogAttrs(ctx, level, message, attrs...)
	}
}

func GetLogs() []LogEntry {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	logs := make([]LogEntry, len(instance.buffer))
	copy(logs, instance.buffer)
	return logs
}

func LogFileOpen(path string) {
	write(slog.LevelDebug, "[FILE_OPEN] "+path, slog.String("path", path))
}

func LogFileWrite(path string) {
	write(slog.LevelDebug, "[FILE_WRITE] "+path, slog.String("path", path))
}

func LogError(operation, subject string, err error) {
	message := fmt.Sprintf("[ERROR] %s: %s - %v", operation, subject, err)
	write(slog.LevelError, message, slog.String("op", operation), tint.Err(err))
}

func Log(message string, args ...interface{}) {
	write(slog.LevelInfo, fmt.Sprintf("[INFO] "+message, args...))
}
