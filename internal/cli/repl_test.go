package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/flowave-io/ctsh/internal/commands"
	"github.com/flowave-io/ctsh/internal/script"
	"github.com/flowave-io/ctsh/internal/shell"
	"github.com/flowave-io/ctsh/internal/style"
)

func TestPromptBuilder(t *testing.T) {
	var buf bytes.Buffer
	b := &PromptBuilder{
		Icon:  "$",
		Style: style.Plain(&buf),
		Getwd: func() (string, error) { return "/home/bob/src", nil },
		home:  "/home/bob",
		user:  "bob",
		host:  "box",
	}
	if got := b.Build(false).String(); got != "~/src $ " {
		t.Fatalf("prompt = %q", got)
	}
	b.ShowPrefix = true
	if got := b.Build(true).String(); got != "bob@box ~/src "+shell.ContinuationIcon+" " {
		t.Fatalf("prompt = %q", got)
	}

	b.Getwd = func() (string, error) { return "/home/bobby", nil }
	b.ShowPrefix = false
	if got := b.Build(false).Head; got != "/home/bobby" {
		t.Fatalf("head = %q", got)
	}
	b.Getwd = func() (string, error) { return "/home/bob", nil }
	if got := b.Build(false).Head; got != "~" {
		t.Fatalf("head = %q", got)
	}
	b.Getwd = func() (string, error) { return "", errors.New("gone") }
	if got := b.Build(false).Head; got != "?" {
		t.Fatalf("head = %q", got)
	}
}

func newTestDispatcher(t *testing.T) (*shell.Dispatcher, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errw bytes.Buffer
	exec := script.NewExecutor()
	sess := shell.NewSession("test", &out, &errw,
		shell.WithBuiltins(exec),
		shell.WithEnviron(shell.MapEnviron{"HOME": t.TempDir()}),
	)
	commands.RegisterDefaults(sess, commands.Deps{Loader: exec})
	return &shell.Dispatcher{
		Session:    sess,
		Classifier: shell.NewClassifier(sess, nil, nil, nil),
		Script:     exec,
	}, &out, &errw
}

func TestRunReader(t *testing.T) {
	d, out, errw := newTestDispatcher(t)
	in := strings.NewReader("x = 2\nx * 3\nnope\nexit 4\nx\n")
	if code := RunReader(context.Background(), d, in); code != 4 {
		t.Fatalf("code = %d", code)
	}
	if out.String() != "6\n" {
		t.Fatalf("out = %q", out.String())
	}
	if !strings.Contains(errw.String(), "'nope' is neither a variable nor a command") {
		t.Fatalf("err = %q", errw.String())
	}
	if d.Session.History.Len() != 4 {
		t.Fatalf("history = %q", d.Session.History.Entries())
	}
}

func TestRunLinesClosesOpenBlock(t *testing.T) {
	d, _, errw := newTestDispatcher(t)
	if code := RunLines(context.Background(), d, []string{"cfg:", "  a = 1"}); code != 0 {
		t.Fatalf("code = %d", code)
	}
	if d.Pending() {
		t.Fatalf("block left pending")
	}
	if _, ok := d.Session.Local("cfg"); !ok {
		t.Fatalf("cfg not bound; err = %q", errw.String())
	}
}

func TestREPL_SubmitsThroughDispatcher(t *testing.T) {
	d, out, _ := newTestDispatcher(t)
	d.Echo = true
	prompts := &PromptBuilder{
		Icon:  "$",
		Style: d.Session.Style,
		Getwd: func() (string, error) { return "/w", nil },
	}
	keys := NewStreamKeys(strings.NewReader("y = 5\ry\r\x04"))
	r := NewREPL(keys, out, d, prompts, InterruptExit, nil)
	ex, ok := shell.AsExit(r.Run(context.Background()))
	if !ok || ex.Code != 0 {
		t.Fatalf("expected ctrl-d exit")
	}
	if !strings.Contains(out.String(), "/w $ y = 5\n") || !strings.Contains(out.String(), "5\n") {
		t.Fatalf("out = %q", out.String())
	}
	if d.Session.History.Len() != 2 {
		t.Fatalf("history = %q", d.Session.History.Entries())
	}
}
