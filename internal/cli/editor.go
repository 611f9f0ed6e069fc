package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"

	"github.com/flowave-io/ctsh/internal/shell"
	"github.com/flowave-io/ctsh/internal/style"
)

// InterruptPolicy decides what Ctrl-C does while a line is being edited.
type InterruptPolicy int

const (
	// InterruptExit ends the shell with status 0.
	InterruptExit InterruptPolicy = iota
	// InterruptAbort drops the current line and any live block and redraws the prompt.
	InterruptAbort
)

// ParseInterruptPolicy maps "exit" and "abort" to a policy.
func ParseInterruptPolicy(s string) (InterruptPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exit":
		return InterruptExit, nil
	case "abort":
		return InterruptAbort, nil
	}
	return InterruptExit, fmt.Errorf("unknown interrupt policy %q", s)
}

// KeyHook sees every key before the editor does and reports whether it
// consumed it.
type KeyHook func(e *Editor, k Key) bool

// Editor is an append-only line editor: characters are added and removed at
// the end of the buffer only. On Enter the cursor is moved back to the start
// of the prompt and the line is handed to Submit, which is expected to print
// the line again in its final form.
type Editor struct {
	Keys KeySource
	Out  io.Writer
	// Prompt is called before every prompt is drawn.
	Prompt func() string
	// Submit processes one line. Any error it returns ends Run.
	Submit  func(line string) error
	History *shell.History
	// Width is the terminal column count; nil means 80.
	Width     func() int
	Hook      KeyHook
	Interrupt InterruptPolicy
	// OnAbort runs when Ctrl-C aborts the current line.
	OnAbort func()
	// NewCompleter builds the completer for a Tab press; nil uses NewPathCompleter.
	NewCompleter func(prefix string) *PathCompleter

	buf    []rune
	comp   *PathCompleter
	prompt string
}

// Buffer is the current edit buffer.
func (e *Editor) Buffer() string { return string(e.buf) }

// Completing reports whether a completion cycle is active.
func (e *Editor) Completing() bool { return e.comp != nil }

// Run draws the first prompt and processes keys until Submit returns an
// error, the user exits, or the key source fails. End of input returns nil;
// Ctrl-D on an empty line returns an exit request with status 0.
func (e *Editor) Run() error {
	e.DrawPrompt()
	for {
		k, err := e.Keys.ReadKey()
		if err != nil {
			e.write("\r\n")
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read key: %w", err)
		}
		if err := e.HandleKey(k); err != nil {
			return err
		}
	}
}

// HandleKey applies one key to the edit state.
func (e *Editor) HandleKey(k Key) error {
	if k == KeyCtrlC {
		return e.interrupt()
	}
	if e.Hook != nil && e.Hook(e, k) {
		return nil
	}
	if k != KeyTab {
		e.comp = nil
	}
	switch {
	case k == KeyCtrlD:
		if len(e.buf) == 0 {
			e.write("\r\n")
			return &shell.ExitRequest{Code: 0}
		}
	case k == KeyBackspace:
		if len(e.buf) > 0 {
			e.erase(1)
		}
	case k == KeyEnter:
		return e.submit()
	case k == KeyTab:
		e.complete()
	case k.IsPrintable():
		e.insert(string(rune(k)))
	}
	return nil
}

// DrawPrompt recomputes the prompt and writes it followed by the buffer.
func (e *Editor) DrawPrompt() {
	if e.Prompt != nil {
		e.prompt = e.Prompt()
	}
	e.write(e.prompt)
	e.write(string(e.buf))
}

// SetBuffer replaces the buffer on screen and in state.
func (e *Editor) SetBuffer(s string) {
	e.comp = nil
	e.erase(len(e.buf))
	e.insert(s)
}

func (e *Editor) interrupt() error {
	e.comp = nil
	if e.Interrupt == InterruptExit {
		e.write("\r\n")
		return shell.ErrInterrupt
	}
	e.write("^C\r\n")
	e.buf = e.buf[:0]
	if e.OnAbort != nil {
		e.OnAbort()
	}
	e.DrawPrompt()
	return nil
}

func (e *Editor) submit() error {
	line := string(e.buf)
	e.rewind()
	if e.History != nil {
		e.History.Record(line)
	}
	e.buf = e.buf[:0]
	if e.Submit != nil {
		if err := e.Submit(line); err != nil {
			return err
		}
	}
	e.DrawPrompt()
	return nil
}

// rewind moves the cursor to column 0 of the row the prompt started on,
// counting the rows the prompt and buffer wrapped onto, and clears below.
func (e *Editor) rewind() {
	cols := 80
	if e.Width != nil {
		if w := e.Width(); w > 0 {
			cols = w
		}
	}
	total := style.Width(e.prompt) + runewidth.StringWidth(string(e.buf))
	e.write("\r")
	if rows := (total - 1) / cols; total > 0 && rows > 0 {
		e.write(fmt.Sprintf("\x1b[%dA", rows))
	}
	e.write("\x1b[J")
}

func (e *Editor) complete() {
	if e.comp == nil {
		if len(e.buf) == 0 || unicode.IsSpace(e.buf[len(e.buf)-1]) {
			return
		}
		words := strings.Fields(string(e.buf))
		prefix := words[len(words)-1]
		if e.NewCompleter != nil {
			e.comp = e.NewCompleter(prefix)
		} else {
			e.comp = NewPathCompleter(prefix)
		}
	}
	from, to, ok := e.comp.Next()
	if !ok {
		return
	}
	e.erase(len([]rune(from)))
	e.insert(to)
}

func (e *Editor) insert(s string) {
	e.buf = append(e.buf, []rune(s)...)
	e.write(s)
}

// erase drops the last n runes, blanking each one by the number of columns
// it occupied.
func (e *Editor) erase(n int) {
	if n > len(e.buf) {
		n = len(e.buf)
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		r := e.buf[len(e.buf)-1]
		e.buf = e.buf[:len(e.buf)-1]
		w := runewidth.RuneWidth(r)
		if w < 1 {
			w = 1
		}
		b.WriteString(strings.Repeat("\b", w))
		b.WriteString(strings.Repeat(" ", w))
		b.WriteString(strings.Repeat("\b", w))
	}
	e.write(b.String())
}

func (e *Editor) write(s string) {
	if s == "" || e.Out == nil {
		return
	}
	_, _ = io.WriteString(e.Out, s)
}

// HistoryBrowser layers Up/Down history recall on an Editor.
type HistoryBrowser struct {
	History *shell.History

	count int
	index int
}

// NewHistoryBrowser returns a browser positioned before any navigation.
func NewHistoryBrowser(h *shell.History) *HistoryBrowser {
	return &HistoryBrowser{History: h, count: -1}
}

// Hook is a KeyHook. The browse index jumps to the newest entry whenever
// the history grew since the last navigation and otherwise moves by one,
// clamped to the available entries.
func (b *HistoryBrowser) Hook(e *Editor, k Key) bool {
	var delta int
	switch k {
	case KeyUp:
		delta = -1
	case KeyDown:
		delta = 1
	default:
		return false
	}
	n := b.History.Len()
	if b.count != n {
		b.count = n
		b.index = n - 1
	} else {
		b.index += delta
	}
	if b.index < 0 {
		b.index = 0
	}
	if b.index >= n {
		b.index = n - 1
	}
	if b.index >= 0 && b.index < n {
		e.SetBuffer(b.History.At(b.index))
	}
	return true
}
