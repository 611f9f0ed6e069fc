package shell

import (
	"regexp"
	"unicode"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s is a bare identifier.
func IsIdentifier(s string) bool { return identRe.MatchString(s) }

type token struct {
	text string
	// quotedEnd is set when the token's last character came from inside quotes.
	quotedEnd bool
	// quoted is set when any part of the token was quoted.
	quoted bool
}

// Split breaks s into whitespace separated words. Single and double quotes
// group characters (including whitespace) into one word and are stripped.
// Inside one kind of quote the other kind is literal. An unterminated quote
// runs to the end of the line.
func Split(s string) []string {
	toks := tokenize(s)
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.text
	}
	return out
}

func tokenize(s string) []token {
	var (
		out     []token
		cur     []rune
		started bool
		quote   rune
		quoted  bool
		partly  bool
	)
	flush := func() {
		if started {
			out = append(out, token{text: string(cur), quotedEnd: quoted, quoted: partly})
		}
		cur = cur[:0]
		started = false
		quoted = false
		partly = false
	}
	for _, r := range s {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			cur = append(cur, r)
			quoted = true
		case r == '"' || r == '\'':
			quote = r
			started = true
			quoted = true
			partly = true
		case unicode.IsSpace(r):
			flush()
		default:
			cur = append(cur, r)
			started = true
			quoted = false
		}
	}
	flush()
	return out
}
