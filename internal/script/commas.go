package script

import "strings"

// continuation runes leave an expression open across a line break.
const continuation = ",[(=:?+-*/%&|<>!"

// insertListCommas adds the comma HCL requires between tuple elements that
// were written one per line, so block bodies can hold lists like
//
//	ports = [
//	  80
//	  443
//	]
//
// Commas go right after the element, before any trailing comment. No lines
// are added or removed, so diagnostic positions still match the input.
// Object braces are left alone: newlines already separate their attributes.
func insertListCommas(src string) string {
	if !strings.Contains(src, "\n") || !strings.Contains(src, "[") {
		return src
	}
	in := []rune(src)
	out := make([]rune, 0, len(in)+8)
	var (
		stack   []rune
		lastSig = -1 // index in out of the last significant rune on this line
		last    rune
	)
	topIsList := func() bool { return len(stack) > 0 && stack[len(stack)-1] == '[' }

	for i := 0; i < len(in); i++ {
		r := in[i]
		switch {
		case r == '"':
			j := skipString(in, i)
			out = append(out, in[i:j]...)
			i = j - 1
			lastSig, last = len(out)-1, '"'
			continue
		case r == '#' || (r == '/' && i+1 < len(in) && in[i+1] == '/'):
			j := i
			for j < len(in) && in[j] != '\n' {
				j++
			}
			out = append(out, in[i:j]...)
			i = j - 1
			continue
		case r == '/' && i+1 < len(in) && in[i+1] == '*':
			j := strings.Index(string(in[i+2:]), "*/")
			end := len(in)
			if j >= 0 {
				end = i + 2 + len([]rune(string(in[i+2:])[:j])) + 2
			}
			out = append(out, in[i:end]...)
			i = end - 1
			continue
		case r == '\n':
			if topIsList() && lastSig >= 0 && !strings.ContainsRune(continuation, last) && !closesList(in, i+1) {
				out = append(out[:lastSig+1], append([]rune{','}, out[lastSig+1:]...)...)
			}
			out = append(out, r)
			lastSig = -1
			continue
		case r == '(' || r == '[' || r == '{':
			stack = append(stack, r)
		case r == ')' || r == ']' || r == '}':
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
		out = append(out, r)
		if r != ' ' && r != '\t' && r != '\r' {
			lastSig, last = len(out)-1, r
		}
	}
	return string(out)
}

// skipString returns the index just past the quoted string starting at i.
func skipString(in []rune, i int) int {
	for j := i + 1; j < len(in); j++ {
		switch in[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		case '\n':
			return j
		}
	}
	return len(in)
}

// closesList reports whether the next significant rune from i is ']' or ','.
func closesList(in []rune, i int) bool {
	for ; i < len(in); i++ {
		switch in[i] {
		case ' ', '\t', '\r', '\n':
			continue
		case '#':
			for i < len(in) && in[i] != '\n' {
				i++
			}
			continue
		case ']', ',':
			return true
		}
		return false
	}
	return false
}
