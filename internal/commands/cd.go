package commands

import (
	"context"
	"flag"
	"os"

	"github.com/flowave-io/ctsh/internal/shell"
)

type cdCommand struct{}

func (cdCommand) Name() string { return "cd" }

// Invoke changes the working directory; no argument means the home directory.
func (c cdCommand) Invoke(_ context.Context, s *shell.Session, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	pos, err := parseArgs(fs, s, args)
	if err != nil {
		return run(err)
	}
	if err := wantArgs(c.Name(), pos, 0, 1, "cd [PATH]"); err != nil {
		return err
	}
	path := "~"
	if len(pos) == 1 {
		path = pos[0]
	}
	path = expandHome(path)
	fi, err := os.Stat(path)
	if err != nil {
		return shell.Errorf(c.Name(), "no such file or directory: %s", path)
	}
	if !fi.IsDir() {
		return shell.Errorf(c.Name(), "not a directory: %s", path)
	}
	if err := os.Chdir(path); err != nil {
		return shell.Errorf(c.Name(), "%v", err)
	}
	if wd, err := os.Getwd(); err == nil {
		_ = os.Setenv("PWD", wd)
	}
	return nil
}
