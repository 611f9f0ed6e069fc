package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/flowave-io/ctsh/internal/fetch"
	"github.com/flowave-io/ctsh/internal/shell"
)

type fetchCommand struct{}

func (fetchCommand) Name() string { return "fetch" }

// Invoke downloads SRC (any go-getter address: URL, git remote, local path)
// to DST, or to a name derived from SRC in the working directory.
func (c fetchCommand) Invoke(ctx context.Context, s *shell.Session, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	pos, err := parseArgs(fs, s, args)
	if err != nil {
		return run(err)
	}
	if err := wantArgs(c.Name(), pos, 1, 2, "fetch SRC [DST]"); err != nil {
		return err
	}
	dst := ""
	if len(pos) == 2 {
		dst = expandHome(pos[1])
	}
	got, err := fetch.Fetch(ctx, pos[0], dst)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return shell.Errorf(c.Name(), "%v", err)
	}
	fmt.Fprintln(s.Out, s.Style.Path(got))
	return nil
}
