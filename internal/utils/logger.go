package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

const (
	// DefaultLogPath is the default location for the daemon log file
	DefaultLogPath = "/var/log/netconfd.log"
	// MaxLogSize is the maximum size of a log file before rotation (5MB)
	MaxLogSize = 5 * 1024 * 1024
	// MaxLogBackups is the maximum number of rotated log files to keep
	MaxLogBackups = 5
)

// Logger writes timestamped, leveled log lines to a file and to stdout,
// rotating the file when it grows past MaxLogSize.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	size    int64
	maxSize int64
	backups int
}

// NewLogger opens (or creates) the log file at path.
func NewLogger(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &Logger{
		file:    file,
		path:    path,
		size:    info.Size(),
		maxSize: MaxLogSize,
		backups: MaxLogBackups,
	}, nil
}

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	l.log("INFO", format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...interface{}) {
	l.log("WARN", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.log("ERROR", format, args...)
}

func (l *Logger) log(level, format string, args ...interface{}) {
	line := fmt.Sprintf("[%s] [%s] %s\n",
		time.Now().Format("2006-01-02 15:04:05"), level, fmt.Sprintf(format, args...))

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.size+int64(len(line)) > l.maxSize {
		if err := l.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}

	if n, err := l.file.WriteString(line); err == nil {
		l.size += int64(n)
	}
	fmt.Print(line)
}

// rotate closes the current file, renames it with a timestamp suffix
// and starts a fresh one. Called with the mutex held.
func (l *Logger) rotate() error {
	if err := l.file.Close(); err != nil {
		return err
	}

	backup := fmt.Sprintf("%s.%s", l.path, time.Now().Format("20060102-150405"))
	if err := os.Rename(l.path, backup); err != nil {
		return err
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	l.file = file
	l.size = 0

	go l.pruneBackups()
	return nil
}

// pruneBackups deletes the oldest rotated files beyond the backup count.
func (l *Logger) pruneBackups() {
	matches, err := filepath.Glob(l.path + ".*")
	if err != nil {
		return
	}
	if len(matches) <= l.backups {
		return
	}

	// Timestamp suffixes sort chronologically.
	sort.Strings(matches)
	for _, stale := range matches[:len(matches)-l.backups] {
		os.Remove(stale)
	}
}

// Close closes the underlying log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
