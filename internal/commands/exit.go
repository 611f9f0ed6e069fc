package commands

import (
	"context"
	"flag"
	"strconv"

	"github.com/flowave-io/ctsh/internal/shell"
)

type exitCommand struct{}

func (exitCommand) Name() string { return "exit" }

func (c exitCommand) Invoke(_ context.Context, s *shell.Session, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	pos, err := parseArgs(fs, s, args)
	if err != nil {
		return run(err)
	}
	if err := wantArgs(c.Name(), pos, 0, 1, "exit [CODE]"); err != nil {
		return err
	}
	code := 0
	if len(pos) == 1 {
		n, err := strconv.Atoi(pos[0])
		if err != nil || n < 0 || n > 255 {
			return shell.Errorf(c.Name(), "%s: numeric argument required", pos[0])
		}
		code = n
	}
	return &shell.ExitRequest{Code: code}
}
