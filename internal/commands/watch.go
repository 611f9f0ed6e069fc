package commands

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/flowave-io/ctsh/internal/monitor"
	"github.com/flowave-io/ctsh/internal/shell"
)

type watchCommand struct{}

func (watchCommand) Name() string { return "watch" }

// Invoke prints filesystem changes under PATH (default ".") until interrupted.
func (c watchCommand) Invoke(ctx context.Context, s *shell.Session, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	pos, err := parseArgs(fs, s, args)
	if err != nil {
		return run(err)
	}
	if err := wantArgs(c.Name(), pos, 0, 1, "watch [PATH]"); err != nil {
		return err
	}
	path := "."
	if len(pos) == 1 {
		path = expandHome(pos[0])
	}
	if _, err := os.Stat(path); err != nil {
		return shell.Errorf(c.Name(), "cannot access '%s': No such file or directory", path)
	}
	wd, _ := os.Getwd()
	fmt.Fprintln(s.Out, s.Style.Path("watching "+path+" (Ctrl-C to stop)"))
	err = monitor.Watch(ctx, path, func(ev monitor.Event) {
		name := ev.Path
		if rel, err := filepath.Rel(wd, ev.Path); err == nil {
			name = rel
		}
		fmt.Fprintf(s.Out, "%s %s\n", s.Style.Bold(ev.Op), name)
	})
	if err != nil && ctx.Err() == nil {
		return shell.Errorf(c.Name(), "%v", err)
	}
	return ctx.Err()
}
