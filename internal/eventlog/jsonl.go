package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefaultPath is where emotion events land when no path is configured.
const DefaultPath = "logs/emotions.jsonl"

// JSONL appends events as one JSON object per line to a file.
type JSONL struct {
	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// OpenJSONL opens (or creates) the event log file for appending, creating
// parent directories as needed.
func OpenJSONL(path string) (*JSONL, error) {
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating event log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}

	return &JSONL{file: file, enc: json.NewEncoder(file)}, nil
}

// Append writes one event as a single line.
func (l *JSONL) Append(ctx context.Context, ev Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(ev); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (l *JSONL) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("closing event log: %w", err)
	}
	return nil
}
