package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const maxBufferSize = 1000

var (
	instance *Logger
	once     sync.Once
	initMu   sync.Mutex
)

type LogEntry struct {
	Timestamp time.Time
	Message   string
}

// Logger writes to an optional log file and always keeps the most recent
// entries in memory for the session log view.
type Logger struct {
	file    *os.File
	logger  *log.Logger
	mu      sync.Mutex
	buffer  []LogEntry
	enabled bool
}

func Init(logPath string) error {
	var initErr error
	once.Do(func() {
		initMu.Lock()
		defer initMu.Unlock()

		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			initErr = fmt.Errorf("failed to create log directory: %w", err)
			return
		}

		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			initErr = fmt.Errorf("failed to open log file: %w", err)
			return
		}

		instance = &Logger{
			file:    file,
			logger:  log.New(file, "", log.LstdFlags),
			buffer:  make([]LogEntry, 0, maxBufferSize),
			enabled: true,
		}
	})

	EnsureInit()
	return initErr
}

func EnsureInit() {
	initMu.Lock()
	defer initMu.Unlock()

	if instance == nil {
		instance = &Logger{
			buffer:  make([]LogEntry, 0, maxBufferSize),
			enabled: false,
		}
	}
}

func Close() error {
	if instance != nil && instance.file != nil {
		return instance.file.Close()
	}
	return nil
}

func GetLogs() []LogEntry {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	logs := make([]LogEntry, len(instance.buffer))
	copy(logs, instance.buffer)
	return logs
}

func write(message string) {
	EnsureInit()
	instance.mu.Lock()
	defer instance.mu.Unlock()

	if len(instance.buffer) >= maxBufferSize {
		instance.buffer = instance.buffer[1:]
	}
	instance.buffer = append(instance.buffer, LogEntry{
		Timestamp: time.Now(),
		Message:   message,
	})

	if instance.enabled && instance.logger != nil {
		instance.logger.Println(message)
	}
}

func LogFileOpen(path string) {
	write(fmt.Sprintf("[FILE_OPEN] %s", path))
}

func LogFileWrite(path string) {
	write(fmt.Sprintf("[FILE_WRITE] %s", path))
}

// LogCommand records an external process invocation. The command line must
// already be redacted.
func LogCommand(commandLine string) {
	write(fmt.Sprintf("[EXEC] %s", commandLine))
}

func LogError(operation, subject string, err error) {
	write(fmt.Sprintf("[ERROR] %s: %s - %v", operation, subject, err))
}

func Log(message string, args ...interface{}) {
	write(fmt.Sprintf("[INFO] "+message, args...))
}
