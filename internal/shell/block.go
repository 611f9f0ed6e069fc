package shell

import "strings"

// Blank-line runs that close a block.
const (
	SimpleBlockTerminator   = 2
	CompoundBlockTerminator = 3
)

// BlockState collects the physical lines of a multi-line construct.
//
// The end of a block is detected by a run of consecutive newlines at the end
// of the accumulated text, not by tracking indentation: a body that contains
// that many blank lines followed by more code is cut short. This matches how
// the shell has always behaved.
type BlockState struct {
	terminator int
	buf        strings.Builder
	lines      int
	text       string
	done       bool
}

// NewBlock starts a block closed by n consecutive blank lines.
func NewBlock(n int) *BlockState {
	if n < SimpleBlockTerminator {
		n = SimpleBlockTerminator
	}
	return &BlockState{terminator: n}
}

// Terminator is the number of trailing newlines that close the block.
func (b *BlockState) Terminator() int { return b.terminator }

// Lines is how many physical lines were fed so far.
func (b *BlockState) Lines() int { return b.lines }

// Input appends one physical line and reports whether more lines are needed.
func (b *BlockState) Input(line string) bool {
	if b.done {
		return false
	}
	b.buf.WriteString(line)
	b.buf.WriteByte('\n')
	b.lines++
	s := b.buf.String()
	n := len(s)
	if n < b.terminator {
		return true
	}
	for i := n - b.terminator; i < n; i++ {
		if s[i] != '\n' {
			return true
		}
	}
	b.done = true
	b.text = strings.TrimRight(s, "\n") + "\n"
	b.buf.Reset()
	return false
}

// Done reports whether the terminator was seen.
func (b *BlockState) Done() bool { return b.done }

// Text is the accumulated block with the trailing blank run collapsed to a
// single newline. It is empty until Done.
func (b *BlockState) Text() string { return b.text }
