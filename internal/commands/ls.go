package commands

import (
	"context"
	"flag"
	"os"
	"sort"
	"strings"

	"github.com/flowave-io/ctsh/internal/shell"
)

type lsCommand struct{}

func (lsCommand) Name() string { return "ls" }

// Invoke lists a directory on one line, directories marked with a trailing
// slash. Hidden entries are shown only with -a.
func (c lsCommand) Invoke(_ context.Context, s *shell.Session, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	all := fs.Bool("a", false, "show hidden files")
	pos, err := parseArgs(fs, s, args)
	if err != nil {
		return run(err)
	}
	if err := wantArgs(c.Name(), pos, 0, 1, "ls [-a] [PATH]"); err != nil {
		return err
	}
	path := "."
	if len(pos) == 1 {
		path = pos[0]
	}
	fi, err := os.Stat(expandHome(path))
	if err != nil {
		return shell.Errorf(c.Name(), "cannot access '%s': No such file or directory", path)
	}
	if !fi.IsDir() {
		return shell.Errorf(c.Name(), "cannot access '%s': Not a directory", path)
	}
	entries, err := os.ReadDir(expandHome(path))
	if err != nil {
		return shell.Errorf(c.Name(), "%v", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	var b strings.Builder
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") && !*all {
			continue
		}
		if e.IsDir() {
			b.WriteString(s.Style.Path(name + "/"))
		} else {
			b.WriteString(name)
		}
		b.WriteString("  ")
	}
	b.WriteString("\n")
	_, err = s.Out.Write([]byte(b.String()))
	return err
}
