package shell

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/flowave-io/ctsh/pkg/log"
)

// ScriptExecutor runs embedded script text against the session.
type ScriptExecutor interface {
	Execute(ctx context.Context, src string, mode ScriptMode, s *Session) error
}

// ExternalRunner runs a whole line as an operating system command and
// blocks until it finishes.
type ExternalRunner interface {
	Run(ctx context.Context, cmdline string, s *Session) error
}

// Prompt icons.
const (
	PromptIcon       = "🥕"
	CommandIcon      = "🐋"
	BlockIcon        = ">>>"
	ContinuationIcon = "..."
)

// Prompt is the text drawn before the edit buffer: a head (user, host, cwd)
// and a trailing icon that changes with the shell state.
type Prompt struct {
	Head string
	Icon string
}

func (p Prompt) String() string {
	if p.Head == "" {
		return p.Icon + " "
	}
	return p.Head + " " + p.Icon + " "
}

// WithIcon returns p with a different icon.
func (p Prompt) WithIcon(icon string) Prompt {
	p.Icon = icon
	return p
}

// Dispatcher routes submitted lines to a live block or through the
// classifier, echoes them, and executes the result.
type Dispatcher struct {
	Session    *Session
	Classifier *Classifier
	Script     ScriptExecutor
	External   ExternalRunner
	// Echo re-prints each processed line after its prompt.
	Echo bool

	block *BlockState
}

// Pending reports whether a block is collecting continuation lines.
func (d *Dispatcher) Pending() bool { return d.block != nil }

// Reset drops a live block without running it.
func (d *Dispatcher) Reset() { d.block = nil }

// ProcessLine handles one submitted line. p is the prompt the line was typed
// at. The only error returned is an *ExitRequest; every other failure is
// reported on the session's error stream.
func (d *Dispatcher) ProcessLine(ctx context.Context, line string, p Prompt) error {
	if d.block != nil {
		more := d.block.Input(line)
		d.echo(p, d.Session.Style.Variable(line))
		if more {
			return nil
		}
		code := d.block.Text()
		d.block = nil
		return d.Execute(ctx, EmbeddedScript{Code: code, Mode: StatementSequence})
	}

	res := d.Classifier.Classify(line)
	if bs, ok := res.(BlockStart); ok {
		d.block = bs.Block
		d.echo(p.WithIcon(BlockIcon), d.Session.Style.Variable(line))
		return nil
	}
	switch res.(type) {
	case BuiltinInvocation, ExternalInvocation:
		p = p.WithIcon(CommandIcon)
	}
	d.echo(p, d.display(line, res))
	return d.Execute(ctx, res)
}

func (d *Dispatcher) echo(p Prompt, shown string) {
	if !d.Echo {
		return
	}
	fmt.Fprintln(d.Session.Out, p.String()+shown)
}

func (d *Dispatcher) display(line string, res Result) string {
	switch res.(type) {
	case LiteralValue:
		return d.Session.Style.Variable(line)
	case BuiltinInvocation, ExternalInvocation:
		return HighlightVars(line, d.Session.Style)
	}
	return line
}

// Execute runs res once. Failures are reported and swallowed; an exit
// request is returned to the caller.
func (d *Dispatcher) Execute(ctx context.Context, res Result) error {
	err := d.run(ctx, res)
	if err == nil {
		return nil
	}
	if ex, ok := AsExit(err); ok {
		return ex
	}
	if errors.Is(err, context.Canceled) {
		log.Debug("execution canceled")
		return nil
	}
	d.Session.Report(err)
	return nil
}

func (d *Dispatcher) run(ctx context.Context, res Result) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("panic during execution:", r, string(debug.Stack()))
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	switch r := res.(type) {
	case EmptyLine:
		return nil
	case LiteralValue:
		fmt.Fprintln(d.Session.Out, FormatValue(r.Value))
		return nil
	case Failure:
		return r.Err
	case BuiltinInvocation:
		args := make([]string, len(r.Args))
		for i, a := range r.Args {
			v, err := Substitute(a, d.Session)
			if err != nil {
				return err
			}
			args[i] = v
		}
		log.Debug("builtin", r.Command.Name(), args)
		if err := r.Command.Invoke(ctx, d.Session, args); err != nil {
			return commandError(r.Command.Name(), err)
		}
		return nil
	case ExternalInvocation:
		line, err := Substitute(r.Line, d.Session)
		if err != nil {
			return err
		}
		if d.External == nil {
			return &ClassificationError{Msg: "external commands are not available"}
		}
		log.Debug("external", line)
		return d.External.Run(ctx, line, d.Session)
	case EmbeddedScript:
		if d.Script == nil {
			return &ScriptError{Msg: "no script executor configured"}
		}
		return d.Script.Execute(ctx, r.Code, r.Mode, d.Session)
	case BlockStart:
		d.block = r.Block
		return nil
	default:
		return fmt.Errorf("unhandled classification %T", res)
	}
}

// commandError keeps typed errors and prefixes everything else with the
// command name.
func commandError(name string, err error) error {
	var ce *CommandError
	var ex *ExitRequest
	switch {
	case errors.As(err, &ex), errors.As(err, &ce), errors.Is(err, context.Canceled):
		return err
	}
	return &CommandError{Name: name, Detail: err.Error()}
}
