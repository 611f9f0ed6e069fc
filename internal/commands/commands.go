// Package commands holds the builtin commands of the shell. Each command
// parses its own argv with a flag.FlagSet and reports failures as
// *shell.CommandError so they print as "name: detail".
package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/flowave-io/ctsh/internal/shell"
)

// Loader binds the values defined in a file or module directory.
type Loader interface {
	Load(path string, s *shell.Session) ([]string, error)
}

// Deps are the collaborators some commands need.
type Deps struct {
	Loader Loader
}

// RegisterDefaults installs every builtin on s.
func RegisterDefaults(s *shell.Session, deps Deps) {
	for _, c := range []shell.Command{
		cdCommand{},
		clearCommand{},
		historyCommand{},
		catCommand{},
		exitCommand{},
		loadCommand{loader: deps.Loader},
		watchCommand{},
	} {
		s.RegisterCommand(c, shell.Primary)
	}
	for _, c := range []shell.Command{
		lsCommand{},
		cpCommand{},
		mvCommand{},
		rmCommand{},
		fetchCommand{},
	} {
		s.RegisterCommand(c, shell.Fallback)
	}
}

// errUsagePrinted stops a command after -h printed its usage.
var errUsagePrinted = errors.New("usage printed")

// parseArgs parses args with fs, allowing flags after positional
// arguments, and returns the positionals.
func parseArgs(fs *flag.FlagSet, s *shell.Session, args []string) ([]string, error) {
	fs.SetOutput(io.Discard)
	var pos []string
	for {
		err := fs.Parse(args)
		if errors.Is(err, flag.ErrHelp) {
			fs.SetOutput(s.Out)
			fmt.Fprintf(s.Out, "usage: %s\n", fs.Name())
			fs.PrintDefaults()
			return nil, errUsagePrinted
		}
		if err != nil {
			return nil, shell.Errorf(fs.Name(), "%v", err)
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return pos, nil
		}
		// after "--" everything is positional
		if n := len(args) - len(rest); n > 0 && args[n-1] == "--" {
			return append(pos, rest...), nil
		}
		pos = append(pos, rest[0])
		args = rest[1:]
	}
}

// run wraps a command body so a printed usage is not reported as an error.
func run(err error) error {
	if errors.Is(err, errUsagePrinted) {
		return nil
	}
	return err
}

func wantArgs(name string, pos []string, min, max int, usage string) error {
	if len(pos) < min || (max >= 0 && len(pos) > max) {
		return shell.Errorf(name, "usage: %s", usage)
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[1:])
		}
	}
	return p
}
