package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowave-io/ctsh/internal/cli"
)

const version = "0.1.0"

var (
	flagConfig  string
	flagCommand string
)

var rootCmd = &cobra.Command{
	Use:   "ctsh",
	Short: "ctsh is an interactive shell mixing commands with HCL expressions",
	Long: `ctsh is an interactive shell. Each line is either a shell variable, a
built-in command, an external program or an HCL expression; blocks ending in
':' collect lines until blank lines close them.

Usage examples:
  ctsh                       # interactive prompt
  ctsh -c 'x = 1 + 2'        # run one line and exit
  echo 'ls' | ctsh           # run lines from stdin`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := cli.Run(cmd.Context(), cli.Options{
			ConfigPath: flagConfig,
			Command:    flagCommand,
			Version:    version,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "ctsh:", err)
			if code == 0 {
				code = 1
			}
		}
		os.Exit(code)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the current ctsh version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "ctsh", version)
	},
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "config file (default $CTSH_HOME/config.yaml)")
	rootCmd.Flags().StringVarP(&flagCommand, "command", "c", "", "run one line and exit")
	rootCmd.AddCommand(versionCmd, watchCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "ctsh:", err)
		os.Exit(1)
	}
}
