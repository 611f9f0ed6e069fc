package shell

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// History is the append-only log of submitted lines. Entries never change
// once appended; only Clear removes them.
type History struct {
	entries []string
	file    *os.File
	path    string
}

// NewHistory returns an in-memory history.
func NewHistory() *History { return &History{} }

// OpenHistory loads the last limit lines of path (all when limit <= 0) and
// keeps the file open so later appends are persisted. A missing file is
// created. The history is usable even when an error is returned.
func OpenHistory(path string, limit int) (*History, error) {
	h := &History{path: path}
	var result *multierror.Error
	if b, err := os.ReadFile(path); err == nil {
		for _, ln := range strings.Split(string(b), "\n") {
			ln = strings.TrimRight(ln, "\r")
			if strings.TrimSpace(ln) == "" {
				continue
			}
			h.entries = append(h.entries, ln)
		}
		if limit > 0 && len(h.entries) > limit {
			h.entries = h.entries[len(h.entries)-limit:]
		}
	} else if !os.IsNotExist(err) {
		result = multierror.Append(result, fmt.Errorf("read history: %w", err))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		result = multierror.Append(result, fmt.Errorf("history dir: %w", err))
		return h, result.ErrorOrNil()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("open history: %w", err))
		return h, result.ErrorOrNil()
	}
	h.file = f
	return h, result.ErrorOrNil()
}

// Record appends line when it is not blank and reports whether it did.
func (h *History) Record(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	h.entries = append(h.entries, line)
	if h.file != nil && !strings.ContainsAny(line, "\r\n") {
		_, _ = h.file.WriteString(line + "\n")
	}
	return true
}

// Len is the number of entries.
func (h *History) Len() int { return len(h.entries) }

// At returns entry i.
func (h *History) At(i int) string { return h.entries[i] }

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string { return append([]string(nil), h.entries...) }

// Clear drops every entry and truncates the backing file.
func (h *History) Clear() error {
	h.entries = nil
	if h.file == nil {
		return nil
	}
	if err := h.file.Truncate(0); err != nil {
		return fmt.Errorf("truncate history: %w", err)
	}
	return nil
}

// Close releases the backing file.
func (h *History) Close() error {
	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}
