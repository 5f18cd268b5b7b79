// Package recordlog implements the append-only clipboard history log.
//
// The log is a single line-delimited file where each line is one
// self-contained JSON record. It is deliberately a write-ahead-log-like
// structure rather than an indexed database: appends never rewrite existing
// content, reads tolerate individual corrupt lines, and delete is a full
// compaction rewrite. History size is bounded by retention enforced above
// this layer, so O(n) deletes stay cheap.
package recordlog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/clipvault/clipvault/internal/record"
)

// Log is a process-local, single-writer record log. All operations are
// serialized by an internal mutex so concurrent ticks cannot interleave an
// append with a compaction rewrite.
type Log struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// New creates a log backed by the file at path. The file is created lazily
// on first use.
func New(path string, logger *slog.Logger) *Log {
	if logger == nil {
		logger = slog.Default()
	}
	return &Log{path: path, logger: logger}
}

// Path returns the backing file path.
func (l *Log) Path() string {
	return l.path
}

// init ensures the backing file and its parent directory exist.
// Must be called with l.mu held.
func (l *Log) init() error {
	if _, err := os.Stat(l.path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	if err := os.WriteFile(l.path, nil, 0644); err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	return nil
}

// Append serializes rec and appends it as one newline-terminated line.
// Existing content is never rewritten. A failed append is a lost write;
// there is no retry built in.
func (l *Log) Append(rec *record.Record) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.init(); err != nil {
		return err
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize record: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}
	return nil
}

// ReadAll reads the entire log and parses each non-empty line independently.
// A line that fails to parse is skipped and logged, never fatal: one bad
// line must not lose the rest of the history. Records are returned in file
// (insertion) order.
func (l *Log) ReadAll() ([]*record.Record, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.readAllLocked()
}

func (l *Log) readAllLocked() ([]*record.Record, error) {
	if err := l.init(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var records []*record.Record
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rec record.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			l.logger.Warn("skipping corrupt log line", "error", err)
			continue
		}
		if rec.ID == "" {
			// Legacy lines without an id fall back to the fingerprint.
			rec.ID = rec.Fingerprint
		}
		records = append(records, &rec)
	}
	return records, nil
}

// DeleteByID removes every record whose id matches and, only when at least
// one match was found, rewrites the file with the surviving lines (full
// compaction). Unparseable lines are preserved verbatim so a delete can
// never amplify corruption into data loss. Returns whether anything was
// removed.
func (l *Log) DeleteByID(id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.init(); err != nil {
		return false, err
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		return false, fmt.Errorf("failed to read log file: %w", err)
	}

	changed := false
	var kept []string
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var rec record.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			// Keep what we cannot parse.
			kept = append(kept, line)
			continue
		}
		if rec.ID == id {
			changed = true
			continue
		}
		kept = append(kept, line)
	}

	if !changed {
		return false, nil
	}

	var content string
	if len(kept) > 0 {
		content = strings.Join(kept, "\n") + "\n"
	}
	if err := os.WriteFile(l.path, []byte(content), 0644); err != nil {
		return false, fmt.Errorf("failed to rewrite log file: %w", err)
	}
	return true, nil
}

// Clear truncates the log to empty. It does not inspect contents first.
func (l *Log) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.init(); err != nil {
		return err
	}
	if err := os.WriteFile(l.path, nil, 0644); err != nil {
		return fmt.Errorf("failed to truncate log file: %w", err)
	}
	return nil
}

// Count returns the number of parseable records in the log.
func (l *Log) Count() (int, error) {
	records, err := l.ReadAll()
	if err != nil {
		return 0, err
	}
	return len(records), nil
}
