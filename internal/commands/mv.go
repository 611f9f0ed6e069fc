package commands

import (
	"context"
	"flag"
	"os"

	"github.com/flowave-io/ctsh/internal/shell"
)

type mvCommand struct{}

func (mvCommand) Name() string { return "mv" }

func (c mvCommand) Invoke(_ context.Context, s *shell.Session, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	pos, err := parseArgs(fs, s, args)
	if err != nil {
		return run(err)
	}
	if err := wantArgs(c.Name(), pos, 2, 2, "mv SRC DST"); err != nil {
		return err
	}
	src, dst := expandHome(pos[0]), expandHome(pos[1])
	if _, err := os.Lstat(src); err != nil {
		return shell.Errorf(c.Name(), "cannot stat '%s': No such file or directory", pos[0])
	}
	if err := move(src, intoDir(src, dst)); err != nil {
		return shell.Errorf(c.Name(), "%v", err)
	}
	return nil
}
