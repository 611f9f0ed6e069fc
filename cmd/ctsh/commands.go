package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/flowave-io/ctsh/internal/monitor"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Print filesystem changes under path until interrupted",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "."
		if len(args) > 0 {
			path = args[0]
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Watching:", path)
		err := monitor.Watch(ctx, path, func(ev monitor.Event) {
			fmt.Fprintf(out, "%s %s\n", ev.Op, ev.Path)
		})
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}
