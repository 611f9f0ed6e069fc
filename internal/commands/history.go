package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/flowave-io/ctsh/internal/shell"
)

type historyCommand struct{}

func (historyCommand) Name() string { return "history" }

// Invoke lists the history numbered from 1, leaving out the newest entry,
// which is the history command itself. -c clears it.
func (c historyCommand) Invoke(_ context.Context, s *shell.Session, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	clearAll := fs.Bool("c", false, "clear history")
	pos, err := parseArgs(fs, s, args)
	if err != nil {
		return run(err)
	}
	if err := wantArgs(c.Name(), pos, 0, 0, "history [-c]"); err != nil {
		return err
	}
	if *clearAll {
		if err := s.History.Clear(); err != nil {
			return shell.Errorf(c.Name(), "%v", err)
		}
		return nil
	}
	entries := s.History.Entries()
	for i := 0; i < len(entries)-1; i++ {
		fmt.Fprintf(s.Out, "%d  %s\n", i+1, entries[i])
	}
	return nil
}
