package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/flowave-io/ctsh/internal/shell"
)

func newTestEditor(submitted *[]string) (*Editor, *bytes.Buffer) {
	var out bytes.Buffer
	e := &Editor{
		Out:     &out,
		History: shell.NewHistory(),
		Prompt:  func() string { return "$ " },
		Submit: func(line string) error {
			if submitted != nil {
				*submitted = append(*submitted, line)
			}
			return nil
		},
	}
	return e, &out
}

func typeText(t *testing.T, e *Editor, s string) {
	t.Helper()
	for _, r := range s {
		if err := e.HandleKey(Key(r)); err != nil {
			t.Fatalf("key %q: %v", r, err)
		}
	}
}

func TestEditor_BackspaceUndoesInsert(t *testing.T) {
	e, out := newTestEditor(nil)
	typeText(t, e, "ab")
	if err := e.HandleKey(KeyBackspace); err != nil {
		t.Fatalf("backspace: %v", err)
	}
	if e.Buffer() != "a" {
		t.Fatalf("buffer = %q", e.Buffer())
	}
	if !strings.HasSuffix(out.String(), "ab\b \b") {
		t.Fatalf("output = %q", out.String())
	}
	_ = e.HandleKey(KeyBackspace)
	_ = e.HandleKey(KeyBackspace)
	if e.Buffer() != "" {
		t.Fatalf("buffer = %q", e.Buffer())
	}
}

func TestEditor_WideRuneErase(t *testing.T) {
	e, out := newTestEditor(nil)
	typeText(t, e, "世")
	out.Reset()
	_ = e.HandleKey(KeyBackspace)
	if got := out.String(); got != "\b\b  \b\b" {
		t.Fatalf("erase = %q", got)
	}
}

func TestEditor_SubmitRecordsHistory(t *testing.T) {
	var got []string
	e, _ := newTestEditor(&got)
	if err := e.HandleKey(KeyEnter); err != nil {
		t.Fatalf("enter: %v", err)
	}
	typeText(t, e, "ls -l")
	if err := e.HandleKey(KeyEnter); err != nil {
		t.Fatalf("enter: %v", err)
	}
	if len(got) != 2 || got[0] != "" || got[1] != "ls -l" {
		t.Fatalf("submitted = %q", got)
	}
	if e.History.Len() != 1 || e.History.At(0) != "ls -l" {
		t.Fatalf("history = %q", e.History.Entries())
	}
	if e.Buffer() != "" {
		t.Fatalf("buffer not cleared: %q", e.Buffer())
	}
}

func TestEditor_RewindCountsWrappedRows(t *testing.T) {
	e, out := newTestEditor(nil)
	e.Width = func() int { return 10 }
	e.DrawPrompt()
	typeText(t, e, "123456789")
	out.Reset()
	_ = e.HandleKey(KeyEnter)
	if !strings.HasPrefix(out.String(), "\r\x1b[1A\x1b[J") {
		t.Fatalf("rewind = %q", out.String())
	}
}

func TestEditor_TabCycles(t *testing.T) {
	e, _ := newTestEditor(nil)
	var prefixes []string
	e.NewCompleter = func(prefix string) *PathCompleter {
		prefixes = append(prefixes, prefix)
		return newPathCompleter(prefix, listing(map[string][]string{"": {"food", "foo"}}))
	}
	typeText(t, e, "cat fo")
	for _, want := range []string{"cat foo", "cat food", "cat foo"} {
		_ = e.HandleKey(KeyTab)
		if e.Buffer() != want {
			t.Fatalf("buffer = %q, want %q", e.Buffer(), want)
		}
	}
	typeText(t, e, "x")
	if e.Completing() {
		t.Fatalf("typing should end completion")
	}
	if len(prefixes) != 1 || prefixes[0] != "fo" {
		t.Fatalf("prefixes = %q", prefixes)
	}
}

func TestEditor_TabAfterSpaceDoesNothing(t *testing.T) {
	e, _ := newTestEditor(nil)
	e.NewCompleter = func(string) *PathCompleter {
		t.Fatalf("completer should not be built")
		return nil
	}
	typeText(t, e, "cat ")
	_ = e.HandleKey(KeyTab)
	if e.Buffer() != "cat " {
		t.Fatalf("buffer = %q", e.Buffer())
	}
}

func TestEditor_CtrlD(t *testing.T) {
	e, _ := newTestEditor(nil)
	typeText(t, e, "a")
	if err := e.HandleKey(KeyCtrlD); err != nil {
		t.Fatalf("ctrl-d on non-empty line: %v", err)
	}
	_ = e.HandleKey(KeyBackspace)
	err := e.HandleKey(KeyCtrlD)
	ex, ok := shell.AsExit(err)
	if !ok || ex.Code != 0 {
		t.Fatalf("expected exit 0, got %v", err)
	}
}

func TestEditor_InterruptPolicies(t *testing.T) {
	e, out := newTestEditor(nil)
	typeText(t, e, "ab")
	if err := e.HandleKey(KeyCtrlC); !errors.Is(err, shell.ErrInterrupt) {
		t.Fatalf("exit policy: got %v", err)
	}

	e, out = newTestEditor(nil)
	e.Interrupt = InterruptAbort
	aborted := false
	e.OnAbort = func() { aborted = true }
	typeText(t, e, "ab")
	if err := e.HandleKey(KeyCtrlC); err != nil {
		t.Fatalf("abort policy: %v", err)
	}
	if !aborted || e.Buffer() != "" {
		t.Fatalf("aborted=%v buffer=%q", aborted, e.Buffer())
	}
	if !strings.HasSuffix(out.String(), "^C\r\n$ ") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestEditor_HistoryBrowsing(t *testing.T) {
	e, _ := newTestEditor(nil)
	e.History.Record("one")
	e.History.Record("two")
	e.Hook = NewHistoryBrowser(e.History).Hook
	steps := []struct {
		key  Key
		want string
	}{
		{KeyUp, "two"},
		{KeyUp, "one"},
		{KeyUp, "one"},
		{KeyDown, "two"},
		{KeyDown, "two"},
	}
	for i, st := range steps {
		_ = e.HandleKey(st.key)
		if e.Buffer() != st.want {
			t.Fatalf("step %d: buffer = %q, want %q", i, e.Buffer(), st.want)
		}
	}
}

func TestEditor_HistoryBrowsingEmpty(t *testing.T) {
	e, _ := newTestEditor(nil)
	e.Hook = NewHistoryBrowser(e.History).Hook
	typeText(t, e, "x")
	_ = e.HandleKey(KeyUp)
	if e.Buffer() != "x" {
		t.Fatalf("buffer = %q", e.Buffer())
	}
}

func TestEditor_RunUntilEOF(t *testing.T) {
	var got []string
	e, _ := newTestEditor(&got)
	e.Keys = NewStreamKeys(strings.NewReader("echo hi\rpwd\r"))
	if err := e.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(got) != 2 || got[0] != "echo hi" || got[1] != "pwd" {
		t.Fatalf("submitted = %q", got)
	}
}

func TestEditor_RunStopsOnSubmitError(t *testing.T) {
	e, _ := newTestEditor(nil)
	e.Submit = func(string) error { return &shell.ExitRequest{Code: 3} }
	e.Keys = NewStreamKeys(strings.NewReader("exit 3\rnever\r"))
	ex, ok := shell.AsExit(e.Run())
	if !ok || ex.Code != 3 {
		t.Fatalf("expected exit 3")
	}
}
