package commands

import (
	"context"
	"flag"
	"os"

	"github.com/flowave-io/ctsh/internal/shell"
)

type cpCommand struct{}

func (cpCommand) Name() string { return "cp" }

func (c cpCommand) Invoke(_ context.Context, s *shell.Session, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	recursive := fs.Bool("r", false, "copy directories recursively")
	pos, err := parseArgs(fs, s, args)
	if err != nil {
		return run(err)
	}
	if err := wantArgs(c.Name(), pos, 2, 2, "cp [-r] SRC DST"); err != nil {
		return err
	}
	src, dst := expandHome(pos[0]), expandHome(pos[1])
	fi, err := os.Stat(src)
	if err != nil {
		return shell.Errorf(c.Name(), "cannot stat '%s': No such file or directory", pos[0])
	}
	if fi.IsDir() {
		if !*recursive {
			return shell.Errorf(c.Name(), "cannot copy directory '%s' without -r", pos[0])
		}
		if err := copyTree(src, dst); err != nil {
			return shell.Errorf(c.Name(), "%v", err)
		}
		return nil
	}
	if err := copyFile(src, intoDir(src, dst)); err != nil {
		return shell.Errorf(c.Name(), "%v", err)
	}
	return nil
}
