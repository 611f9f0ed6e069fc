package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when the input is not an interactive terminal.
var ErrNotTerminal = errors.New("input is not a terminal")

// TTYReader reads keys from a terminal. Raw mode is entered at the start of
// every ReadKey and left before it returns, so commands run while no key is
// being read see a normal cooked terminal.
type TTYReader struct {
	f  *os.File
	fd int
	br *bufio.Reader

	mu    sync.Mutex
	saved *term.State
}

// NewTTYReader wraps f, which must be a terminal.
func NewTTYReader(f *os.File) (*TTYReader, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}
	return &TTYReader{f: f, fd: fd, br: bufio.NewReader(f)}, nil
}

// ReadKey blocks for one keystroke with echo and line buffering disabled.
func (t *TTYReader) ReadKey() (Key, error) {
	st, err := term.MakeRaw(t.fd)
	if err != nil {
		return 0, fmt.Errorf("raw mode: %w", err)
	}
	t.mu.Lock()
	t.saved = st
	t.mu.Unlock()
	defer t.Restore()
	return decodeKey(t.br)
}

// Restore puts the terminal back into the mode it had before the pending
// ReadKey. It is safe to call from a signal handler goroutine and more than once.
func (t *TTYReader) Restore() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.saved == nil {
		return
	}
	_ = term.Restore(t.fd, t.saved)
	t.saved = nil
}

// detectTermWidth returns the column count of f, falling back to $COLUMNS
// and then 80.
func detectTermWidth(f *os.File) int {
	if f != nil {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			return w
		}
	}
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 80
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool { return term.IsTerminal(int(f.Fd())) }
