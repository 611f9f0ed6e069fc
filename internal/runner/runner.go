// Package runner executes external command lines through an in-process
// POSIX shell interpreter and answers executable lookups for the classifier.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/flowave-io/ctsh/internal/shell"
	"github.com/flowave-io/ctsh/pkg/log"
)

// Runner implements shell.ExternalRunner.
type Runner struct {
	// ReportStatus prints a note for non-zero exit statuses.
	ReportStatus bool
}

// New returns a Runner.
func New() *Runner { return &Runner{} }

// Run parses cmdline as a shell program and runs it in the current working
// directory with the session's environment and streams. It blocks until the
// program exits or ctx is canceled.
func (r *Runner) Run(ctx context.Context, cmdline string, s *shell.Session) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(cmdline), "")
	if err != nil {
		return &shell.ClassificationError{Msg: fmt.Sprintf("syntax error: %v", err)}
	}
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	in := s.In
	if in == nil {
		in = os.Stdin
	}
	ip, err := interp.New(
		interp.StdIO(in, s.Out, s.Err),
		interp.Env(expand.ListEnviron(s.Environ()...)),
		interp.Dir(dir),
	)
	if err != nil {
		return fmt.Errorf("setting up interpreter: %w", err)
	}
	err = ip.Run(ctx, prog)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if status, ok := interp.IsExitStatus(err); ok {
		log.Debug("external exited", status, cmdline)
		if r.ReportStatus && status != 0 {
			s.Warn(fmt.Sprintf("exit status %d", status))
		}
		return nil
	}
	return err
}

// Probe implements shell.Probe against the real filesystem.
type Probe struct {
	// Env is searched for PATH; nil means the process environment.
	Env expand.Environ
}

// HasExecutable reports whether name resolves to an executable on PATH.
// Names containing a separator are resolved against the working directory.
func (p Probe) HasExecutable(name string) bool {
	if name == "" {
		return false
	}
	dir, err := os.Getwd()
	if err != nil {
		return false
	}
	env := p.Env
	if env == nil {
		env = expand.ListEnviron(os.Environ()...)
	}
	_, err = interp.LookPathDir(dir, env, name)
	return err == nil
}

// Exists reports whether path names an existing file or directory. A
// leading ~ is expanded to the home directory.
func (p Probe) Exists(path string) bool {
	if path == "" {
		return false
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[1:])
		}
	}
	_, err := os.Stat(path)
	return err == nil
}
