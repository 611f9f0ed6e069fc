package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/flowave-io/ctsh/internal/shell"
)

type loadCommand struct {
	loader Loader
}

func (loadCommand) Name() string { return "load" }

// Invoke binds the attributes of an HCL file, or the variable defaults of a
// Terraform module directory, as shell variables.
func (c loadCommand) Invoke(_ context.Context, s *shell.Session, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	quiet := fs.Bool("q", false, "do not list the bound names")
	pos, err := parseArgs(fs, s, args)
	if err != nil {
		return run(err)
	}
	if err := wantArgs(c.Name(), pos, 1, 1, "load [-q] PATH"); err != nil {
		return err
	}
	if c.loader == nil {
		return shell.Errorf(c.Name(), "no loader configured")
	}
	names, err := c.loader.Load(expandHome(pos[0]), s)
	if err != nil {
		return shell.Errorf(c.Name(), "%v", err)
	}
	if *quiet {
		return nil
	}
	if len(names) == 0 {
		s.Warn(fmt.Sprintf("load: nothing defined in %s", pos[0]))
		return nil
	}
	fmt.Fprintln(s.Out, s.Style.Variable(strings.Join(names, " ")))
	return nil
}
