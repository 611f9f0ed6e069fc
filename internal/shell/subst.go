package shell

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/flowave-io/ctsh/internal/style"
)

// Variable references, braced form first so "${x}" never reads as "$" + "{x}".
var varPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{(\w+)\}`),
	regexp.MustCompile(`\$(\w+)\b`),
}

// Substitute replaces ${name} and $name with the string form of the resolved
// value. An unknown name aborts the whole substitution.
func Substitute(s string, sess *Session) (string, error) {
	var missing string
	out := s
	for _, re := range varPatterns {
		out = re.ReplaceAllStringFunc(out, func(m string) string {
			if missing != "" {
				return m
			}
			name := re.FindStringSubmatch(m)[1]
			v, ok := sess.Get(name)
			if !ok {
				missing = name
				return m
			}
			return FormatValue(v)
		})
		if missing != "" {
			return s, &ClassificationError{Msg: fmt.Sprintf("variable '%s' does not exist", missing)}
		}
	}
	return out, nil
}

// HighlightVars renders s in command styling with every variable reference
// in variable styling. Stripping the escape codes yields s unchanged.
func HighlightVars(s string, p *style.Palette) string {
	type span struct{ start, end int }
	var spans []span
	taken := func(a, b int) bool {
		for _, sp := range spans {
			if a < sp.end && b > sp.start {
				return true
			}
		}
		return false
	}
	for _, re := range varPatterns {
		for _, loc := range re.FindAllStringIndex(s, -1) {
			if !taken(loc[0], loc[1]) {
				spans = append(spans, span{loc[0], loc[1]})
			}
		}
	}
	if len(spans) == 0 {
		return p.Command(s)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		b.WriteString(p.Command(s[pos:sp.start]))
		b.WriteString(p.Variable(s[sp.start:sp.end]))
		pos = sp.end
	}
	b.WriteString(p.Command(s[pos:]))
	return b.String()
}
