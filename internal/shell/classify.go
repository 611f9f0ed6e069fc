package shell

import (
	"fmt"
	"strings"
)

// ScriptMode selects how the embedded script executor reads its source.
type ScriptMode int

const (
	// SingleStatement is one expression or assignment typed at the prompt.
	SingleStatement ScriptMode = iota
	// StatementSequence is the body of a finished block.
	StatementSequence
)

func (m ScriptMode) String() string {
	if m == StatementSequence {
		return "sequence"
	}
	return "single"
}

// Result is the outcome of classifying one submitted line. It is one of
// EmptyLine, LiteralValue, BuiltinInvocation, ExternalInvocation,
// EmbeddedScript, Failure or BlockStart.
type Result interface {
	result()
}

type EmptyLine struct{}

type LiteralValue struct {
	Name  string
	Value Value
}

type BuiltinInvocation struct {
	Line    string
	Command Command
	Args    []string
}

type ExternalInvocation struct {
	Line string
}

type EmbeddedScript struct {
	Code string
	Mode ScriptMode
}

type Failure struct {
	Line string
	Err  error
}

type BlockStart struct {
	Line  string
	Block *BlockState
}

func (EmptyLine) result()          {}
func (LiteralValue) result()       {}
func (BuiltinInvocation) result()  {}
func (ExternalInvocation) result() {}
func (EmbeddedScript) result()     {}
func (Failure) result()            {}
func (BlockStart) result()         {}

// Probe answers the filesystem questions classification depends on.
type Probe interface {
	HasExecutable(name string) bool
	Exists(path string) bool
}

// DefaultBlockKeywords open blocks closed by three blank lines.
var DefaultBlockKeywords = []string{"class"}

// DefaultScriptKeywords are never looked up as executables.
var DefaultScriptKeywords = []string{"class", "def", "for", "if", "import", "from"}

// Classifier maps a line to a Result using the session's names and the probe.
type Classifier struct {
	Session *Session
	Probe   Probe

	blockKeywords  map[string]bool
	scriptKeywords map[string]bool
}

// NewClassifier builds a classifier; nil keyword lists select the defaults.
func NewClassifier(s *Session, p Probe, blockKeywords, scriptKeywords []string) *Classifier {
	if blockKeywords == nil {
		blockKeywords = DefaultBlockKeywords
	}
	if scriptKeywords == nil {
		scriptKeywords = DefaultScriptKeywords
	}
	c := &Classifier{
		Session:        s,
		Probe:          p,
		blockKeywords:  map[string]bool{},
		scriptKeywords: map[string]bool{},
	}
	for _, k := range blockKeywords {
		c.blockKeywords[k] = true
	}
	for _, k := range scriptKeywords {
		c.scriptKeywords[k] = true
	}
	return c
}

// Classify decides what line means. It never executes anything.
func (c *Classifier) Classify(line string) Result {
	toks := tokenize(line)
	if len(toks) == 0 {
		return EmptyLine{}
	}
	last := toks[len(toks)-1]
	if !last.quotedEnd && strings.HasSuffix(last.text, ":") {
		n := SimpleBlockTerminator
		if c.blockKeywords[toks[0].text] {
			n = CompoundBlockTerminator
		}
		b := NewBlock(n)
		b.Input(line)
		return BlockStart{Line: line, Block: b}
	}
	words := make([]string, len(toks))
	for i, t := range toks {
		words[i] = t.text
	}
	if len(words) == 1 {
		return c.single(line, toks[0])
	}
	return c.multi(line, words)
}

// single classifies a one-token line. A quoted token is never a name, so
// "hello" reaches the script executor as a string literal.
func (c *Classifier) single(line string, tok token) Result {
	word := tok.text
	if !tok.quoted && IsIdentifier(word) {
		if v, ok := c.Session.Get(word); ok {
			return LiteralValue{Name: word, Value: v}
		}
		if cmd, ok := c.Session.Command(word); ok {
			return BuiltinInvocation{Line: line, Command: cmd}
		}
		if c.executable(word) {
			return ExternalInvocation{Line: line}
		}
		if cmd, ok := c.Session.FallbackCommand(word); ok {
			return BuiltinInvocation{Line: line, Command: cmd}
		}
		return Failure{Line: line, Err: &ClassificationError{
			Msg: fmt.Sprintf("'%s' is neither a variable nor a command", word),
		}}
	}
	if c.exists(word) {
		return ExternalInvocation{Line: line}
	}
	return EmbeddedScript{Code: strings.TrimSpace(line), Mode: SingleStatement}
}

func (c *Classifier) multi(line string, words []string) Result {
	first := words[0]
	if cmd, ok := c.Session.Command(first); ok {
		return BuiltinInvocation{Line: line, Command: cmd, Args: words[1:]}
	}
	if c.executable(first) {
		return ExternalInvocation{Line: line}
	}
	if cmd, ok := c.Session.FallbackCommand(first); ok {
		return BuiltinInvocation{Line: line, Command: cmd, Args: words[1:]}
	}
	if c.exists(first) {
		return ExternalInvocation{Line: line}
	}
	return EmbeddedScript{Code: strings.TrimSpace(line), Mode: SingleStatement}
}

func (c *Classifier) executable(name string) bool {
	if c.scriptKeywords[name] || c.Probe == nil {
		return false
	}
	return c.Probe.HasExecutable(name)
}

func (c *Classifier) exists(path string) bool {
	if c.Probe == nil {
		return false
	}
	return c.Probe.Exists(path)
}
