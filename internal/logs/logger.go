package logs

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

var (
	Logger  = log.New(os.Stderr, "[dwj] ", log.LstdFlags)
	logFile *os.File
	mu      sync.Mutex
)

// Initialize redirects the logger to <logDir>/dwj.log.
func Initialize(logDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if logDir == "" {
		return nil
	}
	if err := os.MkdirAll(logDir, 0o700); err != nil {
		return err
	}

	logPath := filepath.Join(logDir, "dwj.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		Logger.Printf("Failed to open log file at %s: %v", logPath, err)
		return err
	}

	if logFile != nil {
		logFile.Close()
	}

	logFile = f
	Logger = log.New(f, "[dwj] ", log.LstdFlags|log.Lshortfile)
	return nil
}

// Discard silences the logger. Used by tests.
func Discard() {
	mu.Lock()
	defer mu.Unlock()
	Logger = log.New(io.Discard, "", 0)
}

// Close closes the log file.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		Logger = log.New(os.Stderr, "[dwj] ", log.LstdFlags)
		return err
	}
	return nil
}
