package commands

import (
	"context"
	"flag"
	"os"

	"github.com/flowave-io/ctsh/internal/shell"
)

type catCommand struct{}

func (catCommand) Name() string { return "cat" }

func (c catCommand) Invoke(_ context.Context, s *shell.Session, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	pos, err := parseArgs(fs, s, args)
	if err != nil {
		return run(err)
	}
	if err := wantArgs(c.Name(), pos, 1, -1, "cat PATH..."); err != nil {
		return err
	}
	for _, p := range pos {
		path := expandHome(p)
		fi, err := os.Stat(path)
		if err != nil {
			return shell.Errorf(c.Name(), "cannot stat '%s': No such file or directory", p)
		}
		if fi.IsDir() {
			return shell.Errorf(c.Name(), "'%s': Is a directory", p)
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return shell.Errorf(c.Name(), "%v", err)
		}
		if _, err := s.Out.Write(b); err != nil {
			return err
		}
		if len(b) > 0 && b[len(b)-1] != '\n' {
			_, _ = s.Out.Write([]byte{'\n'})
		}
	}
	return nil
}
