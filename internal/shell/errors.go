package shell

import (
	"errors"
	"fmt"
)

// ErrInterrupt is returned by the editor when the user interrupts input.
var ErrInterrupt = errors.New("interrupt")

// ClassificationError means a line could not be resolved to anything runnable.
type ClassificationError struct {
	Msg string
}

func (e *ClassificationError) Error() string { return e.Msg }

// CommandError is a failure reported by a builtin command, shown as "name: detail".
type CommandError struct {
	Name   string
	Detail string
}

func (e *CommandError) Error() string { return e.Name + ": " + e.Detail }

// Errorf builds a CommandError for the named command.
func Errorf(name, format string, args ...any) error {
	return &CommandError{Name: name, Detail: fmt.Sprintf(format, args...)}
}

// ScriptError is a syntax or evaluation failure from the embedded script executor.
// Line is zero when the failure has no useful source position.
type ScriptError struct {
	Line int
	Msg  string
}

func (e *ScriptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// ExitRequest asks the shell to terminate with Code. It is the only
// execution outcome that escapes the dispatch boundary.
type ExitRequest struct {
	Code int
}

func (e *ExitRequest) Error() string { return fmt.Sprintf("exit %d", e.Code) }

// AsExit reports whether err carries an exit request.
func AsExit(err error) (*ExitRequest, bool) {
	var ex *ExitRequest
	if errors.As(err, &ex) {
		return ex, true
	}
	return nil, false
}
