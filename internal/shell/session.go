// Package shell implements the line classifier and dispatcher of ctsh: it
// decides whether a submitted line is a variable reference, a builtin command,
// an external command, a multi-line block or an embedded script, and runs it.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/flowave-io/ctsh/internal/style"
)

// Value is anything the session can resolve a name to.
type Value = any

// Command is a pluggable builtin. Invoke parses its own argv.
type Command interface {
	Name() string
	Invoke(ctx context.Context, s *Session, args []string) error
}

// Tier decides where a command sits relative to external executable lookup.
type Tier int

const (
	// Primary commands are tried before executables on the search path.
	Primary Tier = iota
	// Fallback commands are tried only when no executable matches.
	Fallback
)

// Builtins resolves names that belong to the embedded language itself.
type Builtins interface {
	Builtin(name string) (Value, bool)
}

// Environ is the process environment as seen by the session.
type Environ interface {
	Lookup(key string) (string, bool)
	Environ() []string
}

// OSEnviron reads the real process environment.
type OSEnviron struct{}

func (OSEnviron) Lookup(key string) (string, bool) { return os.LookupEnv(key) }
func (OSEnviron) Environ() []string                { return os.Environ() }

// MapEnviron is a fixed environment, mostly for tests.
type MapEnviron map[string]string

func (m MapEnviron) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapEnviron) Environ() []string {
	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

type registry struct {
	names []string
	byKey map[string]Command
}

func (r *registry) add(c Command) {
	if r.byKey == nil {
		r.byKey = map[string]Command{}
	}
	if _, ok := r.byKey[c.Name()]; !ok {
		r.names = append(r.names, c.Name())
	}
	r.byKey[c.Name()] = c
}

func (r *registry) get(name string) (Command, bool) {
	c, ok := r.byKey[name]
	return c, ok
}

// Session is the state shared by the dispatcher and every command: the
// shell-local variable store, the command registries, the history log and
// the output streams. It is only touched from the editor goroutine.
type Session struct {
	ID      string
	Out     io.Writer
	Err     io.Writer
	In      io.Reader
	History *History
	Style   *style.Palette

	vars      map[string]Value
	builtins  Builtins
	environ   Environ
	primary   registry
	fallbacks registry
}

// Option configures a Session.
type Option func(*Session)

func WithBuiltins(b Builtins) Option { return func(s *Session) { s.builtins = b } }
func WithEnviron(e Environ) Option   { return func(s *Session) { s.environ = e } }
func WithHistory(h *History) Option  { return func(s *Session) { s.History = h } }
func WithStyle(p *style.Palette) Option {
	return func(s *Session) { s.Style = p }
}

// NewSession creates a session writing to out and err.
func NewSession(id string, out, errw io.Writer, opts ...Option) *Session {
	s := &Session{
		ID:      id,
		Out:     out,
		Err:     errw,
		In:      os.Stdin,
		vars:    map[string]Value{},
		environ: OSEnviron{},
	}
	for _, o := range opts {
		o(s)
	}
	if s.History == nil {
		s.History = NewHistory()
	}
	if s.Style == nil {
		s.Style = style.Plain(out)
	}
	return s
}

// RegisterCommand adds cmd to the registry of the given tier. Registering a
// name twice replaces the earlier command but keeps its position.
func (s *Session) RegisterCommand(cmd Command, tier Tier) {
	if tier == Fallback {
		s.fallbacks.add(cmd)
		return
	}
	s.primary.add(cmd)
}

// Command looks up a primary command.
func (s *Session) Command(name string) (Command, bool) { return s.primary.get(name) }

// FallbackCommand looks up a fallback command.
func (s *Session) FallbackCommand(name string) (Command, bool) { return s.fallbacks.get(name) }

// CommandNames lists registered names of a tier in registration order.
func (s *Session) CommandNames(tier Tier) []string {
	if tier == Fallback {
		return append([]string(nil), s.fallbacks.names...)
	}
	return append([]string(nil), s.primary.names...)
}

// Get resolves name through the shell-local store, then the embedded
// language builtins, then the process environment. First match wins.
func (s *Session) Get(name string) (Value, bool) {
	if v, ok := s.vars[name]; ok {
		return v, true
	}
	if s.builtins != nil {
		if v, ok := s.builtins.Builtin(name); ok {
			return v, true
		}
	}
	if s.environ != nil {
		if v, ok := s.environ.Lookup(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Set binds name in the shell-local store.
func (s *Session) Set(name string, v Value) { s.vars[name] = v }

// Unset removes a shell-local binding.
func (s *Session) Unset(name string) { delete(s.vars, name) }

// Local returns a shell-local binding without consulting the other tiers.
func (s *Session) Local(name string) (Value, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// LocalNames returns the shell-local variable names, sorted.
func (s *Session) LocalNames() []string {
	names := make([]string, 0, len(s.vars))
	for k := range s.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Environ returns the process environment as KEY=VALUE pairs.
func (s *Session) Environ() []string {
	if s.environ == nil {
		return nil
	}
	return s.environ.Environ()
}

// LookupEnv reads a single environment variable.
func (s *Session) LookupEnv(key string) (string, bool) {
	if s.environ == nil {
		return "", false
	}
	return s.environ.Lookup(key)
}

// Report prints err on the error stream in error styling.
func (s *Session) Report(err error) {
	if err == nil {
		return
	}
	msg := err.Error()
	if len(msg) > 0 && msg[len(msg)-1] == '\n' {
		msg = msg[:len(msg)-1]
	}
	fmt.Fprintln(s.Err, s.Style.Error(msg))
}

// Warn prints msg on the error stream in warning styling.
func (s *Session) Warn(msg string) {
	fmt.Fprintln(s.Err, s.Style.Warning(msg))
}

// FormatValue renders a resolved value for display.
func FormatValue(v Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
