package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// openLogFile opens path for appending, creating its directory, and marks
// the start of this run so restarts can be told apart. An empty path
// returns a nil file.
func openLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	if _, err := fmt.Fprintf(f, "--- habdometer pid %d started %s ---\n", os.Getpid(), time.Now().Format(time.RFC3339)); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
