package commands

import (
	"context"
	"flag"
	"io"

	"github.com/flowave-io/ctsh/internal/shell"
)

type clearCommand struct{}

func (clearCommand) Name() string { return "clear" }

func (c clearCommand) Invoke(_ context.Context, s *shell.Session, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	pos, err := parseArgs(fs, s, args)
	if err != nil {
		return run(err)
	}
	if err := wantArgs(c.Name(), pos, 0, 0, "clear"); err != nil {
		return err
	}
	// home the cursor, clear the screen and the scrollback
	_, err = io.WriteString(s.Out, "\x1b[H\x1b[2J\x1b[3J")
	return err
}
