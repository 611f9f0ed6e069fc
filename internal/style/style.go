// Package style holds the terminal color palette used by the shell.
package style

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// Color modes accepted by New.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Palette renders the shell's foreground styles for one output stream.
type Palette struct {
	renderer *lipgloss.Renderer

	err      lipgloss.Style
	warn     lipgloss.Style
	command  lipgloss.Style
	variable lipgloss.Style
	path     lipgloss.Style
	bold     lipgloss.Style
}

// New builds a palette bound to w. mode is one of the Color* constants;
// anything else behaves like ColorAuto.
func New(w io.Writer, mode string) *Palette {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Palette{
		renderer: r,
		err:      base.Foreground(lipgloss.Color("9")),
		warn:     base.Foreground(lipgloss.Color("11")),
		command:  base.Foreground(lipgloss.Color("10")),
		variable: base.Foreground(lipgloss.Color("12")),
		path:     base.Foreground(lipgloss.Color("8")),
		bold:     base.Bold(true),
	}
}

// Plain returns a palette that never emits escape codes.
func Plain(w io.Writer) *Palette { return New(w, ColorNever) }

func (p *Palette) Error(s string) string    { return render(p.err, s) }
func (p *Palette) Warning(s string) string  { return render(p.warn, s) }
func (p *Palette) Command(s string) string  { return render(p.command, s) }
func (p *Palette) Variable(s string) string { return render(p.variable, s) }
func (p *Palette) Path(s string) string     { return render(p.path, s) }
func (p *Palette) Bold(s string) string     { return render(p.bold, s) }

// render styles s line by line so embedded newlines keep their position
// and empty strings stay empty.
func render(st lipgloss.Style, s string) string {
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "\n") {
		return st.Render(s)
	}
	lines := strings.Split(s, "\n")
	for i, ln := range lines {
		if ln != "" {
			lines[i] = st.Render(ln)
		}
	}
	return strings.Join(lines, "\n")
}

// Strip removes every ANSI escape sequence from s.
func Strip(s string) string { return ansi.Strip(s) }

// Width is the number of terminal cells s occupies once printed.
func Width(s string) int { return ansi.StringWidth(s) }
