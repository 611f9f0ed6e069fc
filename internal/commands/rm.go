package commands

import (
	"context"
	"flag"
	"os"

	"github.com/flowave-io/ctsh/internal/shell"
)

type rmCommand struct{}

func (rmCommand) Name() string { return "rm" }

func (c rmCommand) Invoke(_ context.Context, s *shell.Session, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	recursive := fs.Bool("r", false, "remove directories and their contents recursively")
	force := fs.Bool("f", false, "ignore nonexistent files")
	pos, err := parseArgs(fs, s, args)
	if err != nil {
		return run(err)
	}
	if err := wantArgs(c.Name(), pos, 1, -1, "rm [-r] [-f] PATH..."); err != nil {
		return err
	}
	for _, p := range pos {
		path := expandHome(p)
		fi, err := os.Lstat(path)
		if err != nil {
			if *force {
				continue
			}
			return shell.Errorf(c.Name(), "cannot remove '%s': No such file or directory", p)
		}
		if fi.IsDir() {
			if !*recursive {
				return shell.Errorf(c.Name(), "cannot remove directory '%s' without -r", p)
			}
			err = os.RemoveAll(path)
		} else {
			err = os.Remove(path)
		}
		if err != nil {
			return shell.Errorf(c.Name(), "%v", err)
		}
	}
	return nil
}
