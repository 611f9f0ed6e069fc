// Package log is a thin leveled wrapper over the standard logger.
//
// The interactive shell owns the terminal, so callers normally point the
// logger at a file with SetOutput before the editor starts.
package log

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
)

var debug atomic.Bool

// SetOutput redirects all log lines. A nil writer discards them.
func SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	log.SetOutput(w)
}

// SetSession tags every following line with the session id.
func SetSession(id string) {
	log.SetPrefix("[" + id + "] ")
}

// SetDebug toggles Debug output.
func SetDebug(on bool) { debug.Store(on) }

// OpenFile opens path for appending and installs it as the log output.
// "-" logs to stderr and "" disables logging. The returned closer is never nil.
func OpenFile(path string) (io.Closer, error) {
	switch path {
	case "":
		SetOutput(io.Discard)
		return io.NopCloser(nil), nil
	case "-":
		SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return io.NopCloser(nil), err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return io.NopCloser(nil), err
	}
	SetOutput(f)
	return f, nil
}

func Fatal(v ...any) {
	output("[FATAL]", v)
}

func Info(v ...any) {
	output("[INFO]", v)
}

func Warn(v ...any) {
	output("[WARN]", v)
}

func Debug(v ...any) {
	if !debug.Load() {
		return
	}
	output("[DEBUG]", v)
}

func output(level string, v []any) {
	args := make([]any, 0, len(v)+1)
	args = append(args, level)
	args = append(args, v...)
	log.Println(args...)
}
