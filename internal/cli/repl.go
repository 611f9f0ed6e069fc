package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/flowave-io/ctsh/internal/shell"
	"github.com/flowave-io/ctsh/internal/style"
)

// PromptBuilder renders "[user@host ]CWD ICON " with the home directory
// shown as ~.
type PromptBuilder struct {
	ShowPrefix bool
	Icon       string
	Style      *style.Palette
	Getwd      func() (string, error)

	home string
	user string
	host string
}

// NewPromptBuilder resolves the user, host and home directory once.
func NewPromptBuilder(showPrefix bool, icon string, p *style.Palette) *PromptBuilder {
	home, _ := os.UserHomeDir()
	host, _ := os.Hostname()
	user := os.Getenv("USER")
	if user == "" && home != "" {
		user = filepath.Base(home)
	}
	if icon == "" {
		icon = shell.PromptIcon
	}
	if p == nil {
		p = style.Plain(io.Discard)
	}
	return &PromptBuilder{
		ShowPrefix: showPrefix,
		Icon:       icon,
		Style:      p,
		Getwd:      os.Getwd,
		home:       home,
		user:       user,
		host:       strings.TrimSuffix(host, ".local"),
	}
}

// Build returns the prompt; pending selects the continuation icon used
// while a block is collecting lines.
func (b *PromptBuilder) Build(pending bool) shell.Prompt {
	cwd, err := b.Getwd()
	if err != nil {
		cwd = "?"
	}
	cwd = b.shorten(cwd)
	head := ""
	if b.ShowPrefix {
		head = b.user + "@" + b.host + " "
	}
	head += b.Style.Path(cwd)
	icon := b.Icon
	if pending {
		icon = shell.ContinuationIcon
	}
	return shell.Prompt{Head: head, Icon: icon}
}

func (b *PromptBuilder) shorten(cwd string) string {
	if b.home == "" {
		return cwd
	}
	if cwd == b.home {
		return "~"
	}
	if strings.HasPrefix(cwd, b.home+string(filepath.Separator)) {
		return "~" + cwd[len(b.home):]
	}
	return cwd
}

// REPL runs the interactive loop: keys go to the editor, submitted lines
// go to the dispatcher.
type REPL struct {
	Editor     *Editor
	Dispatcher *shell.Dispatcher
	Prompts    *PromptBuilder

	current shell.Prompt
}

// NewREPL wires an editor with history browsing to d.
func NewREPL(keys KeySource, out io.Writer, d *shell.Dispatcher, prompts *PromptBuilder, policy InterruptPolicy, width func() int) *REPL {
	r := &REPL{Dispatcher: d, Prompts: prompts}
	browser := NewHistoryBrowser(d.Session.History)
	r.Editor = &Editor{
		Keys:      keys,
		Out:       out,
		History:   d.Session.History,
		Width:     width,
		Hook:      browser.Hook,
		Interrupt: policy,
		OnAbort:   d.Reset,
		Prompt: func() string {
			r.current = prompts.Build(d.Pending())
			return r.current.String()
		},
	}
	return r
}

// Run blocks until the shell should end. It returns nil at end of input,
// shell.ErrInterrupt for Ctrl-C under the exit policy, an *shell.ExitRequest,
// or the error that broke the key source.
func (r *REPL) Run(ctx context.Context) error {
	r.Editor.Submit = func(line string) error {
		// Ctrl-C while a command runs cancels that command, not the shell.
		lineCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
		return r.Dispatcher.ProcessLine(lineCtx, line, r.current)
	}
	return r.Editor.Run()
}
