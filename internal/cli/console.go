package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/flowave-io/ctsh/internal/commands"
	"github.com/flowave-io/ctsh/internal/config"
	"github.com/flowave-io/ctsh/internal/runner"
	"github.com/flowave-io/ctsh/internal/script"
	"github.com/flowave-io/ctsh/internal/shell"
	"github.com/flowave-io/ctsh/internal/style"
	"github.com/flowave-io/ctsh/pkg/log"
)

// Options select how the shell starts.
type Options struct {
	ConfigPath string
	// Command, when set, is dispatched once and the shell exits.
	Command string
	Version string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Run starts the shell and returns the process exit code. The error is set
// only for failures that prevented the shell from running or broke the
// terminal.
func Run(ctx context.Context, opts Options) (int, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return 1, err
	}
	if err := cfg.Validate(); err != nil {
		return 2, fmt.Errorf("invalid config: %w", err)
	}

	id := uuid.NewString()
	logCloser, err := log.OpenFile(cfg.LogFile)
	if err != nil {
		fmt.Fprintln(opts.Stderr, "ctsh: log file:", err)
	}
	defer logCloser.Close()
	log.SetSession(id[:8])
	log.SetDebug(cfg.Debug)
	log.Info("ctsh", opts.Version, "starting")

	palette := style.New(opts.Stdout, cfg.Color)
	interactive := opts.Command == "" && isTTY(opts.Stdin)

	history := shell.NewHistory()
	if interactive && cfg.HistoryFile != "" {
		h, err := shell.OpenHistory(cfg.HistoryFile, cfg.HistorySize)
		if err != nil {
			log.Warn("history:", err)
		}
		history = h
	}
	defer history.Close()

	exec := script.NewExecutor()
	sess := shell.NewSession(id, opts.Stdout, opts.Stderr,
		shell.WithBuiltins(exec),
		shell.WithHistory(history),
		shell.WithStyle(palette),
	)
	sess.In = opts.Stdin
	sess.Set("SESSION", id)
	sess.Set("SHELL_VERSION", opts.Version)
	for k, v := range cfg.Variables {
		sess.Set(k, v)
	}
	if err := cfg.CheckVersion(opts.Version); err != nil {
		sess.Warn("ctsh: " + err.Error())
	}
	commands.RegisterDefaults(sess, commands.Deps{Loader: exec})

	d := &shell.Dispatcher{
		Session:    sess,
		Classifier: shell.NewClassifier(sess, runner.Probe{}, cfg.BlockKeywords, cfg.ScriptKeywords),
		Script:     exec,
		External:   runner.New(),
	}

	switch {
	case opts.Command != "":
		return RunLines(ctx, d, []string{opts.Command}), nil
	case !interactive:
		return RunReader(ctx, d, opts.Stdin), nil
	}

	policy, err := ParseInterruptPolicy(cfg.Interrupt)
	if err != nil {
		return 2, err
	}
	return runInteractive(ctx, d, opts, cfg.ShowPrefix, cfg.PromptIcon, palette, policy)
}

func runInteractive(ctx context.Context, d *shell.Dispatcher, opts Options, showPrefix bool, icon string, palette *style.Palette, policy InterruptPolicy) (int, error) {
	in := opts.Stdin.(*os.File)
	out, ok := opts.Stdout.(*os.File)
	if !ok {
		out = os.Stdout
	}
	reader, err := NewTTYReader(in)
	if err != nil {
		return 1, err
	}
	restoreConsole, err := prepareConsole(out)
	if err != nil {
		log.Warn("console:", err)
	}
	defer restoreConsole()

	// The terminal is restored even when the shell is killed mid-read.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigs)
	go func() {
		if sig, ok := <-sigs; ok {
			reader.Restore()
			restoreConsole()
			log.Info("terminated by", sig)
			os.Exit(1)
		}
	}()

	d.Echo = true
	repl := NewREPL(reader, opts.Stdout, d, NewPromptBuilder(showPrefix, icon, palette), policy, func() int {
		return detectTermWidth(out)
	})
	err = repl.Run(ctx)
	reader.Restore()
	if err == nil || errors.Is(err, shell.ErrInterrupt) {
		return 0, nil
	}
	if ex, ok := shell.AsExit(err); ok {
		log.Info("exit requested", ex.Code)
		return ex.Code, nil
	}
	log.Fatal("terminal:", err)
	return 1, err
}

// RunLines dispatches lines without echo and returns the exit code. A block
// left open after the last line is closed and run.
func RunLines(ctx context.Context, d *shell.Dispatcher, lines []string) int {
	for _, ln := range lines {
		if code, done := dispatch(ctx, d, ln); done {
			return code
		}
	}
	return flush(ctx, d)
}

// RunReader dispatches every line read from r, as for piped input.
func RunReader(ctx context.Context, d *shell.Dispatcher, r io.Reader) int {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		ln := sc.Text()
		d.Session.History.Record(ln)
		if code, done := dispatch(ctx, d, ln); done {
			return code
		}
	}
	if err := sc.Err(); err != nil {
		d.Session.Report(err)
		return 1
	}
	return flush(ctx, d)
}

func dispatch(ctx context.Context, d *shell.Dispatcher, line string) (int, bool) {
	if err := d.ProcessLine(ctx, line, shell.Prompt{}); err != nil {
		if ex, ok := shell.AsExit(err); ok {
			return ex.Code, true
		}
	}
	return 0, false
}

func flush(ctx context.Context, d *shell.Dispatcher) int {
	for i := 0; d.Pending() && i < shell.CompoundBlockTerminator; i++ {
		if code, done := dispatch(ctx, d, ""); done {
			return code
		}
	}
	return 0
}

func isTTY(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && IsTerminal(f)
}
