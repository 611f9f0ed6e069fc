package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PathCompleter cycles through the filesystem entries that start with a
// prefix. Candidates are listed once, when the completer is built, and
// ordered by increasing length.
type PathCompleter struct {
	prefix     string
	candidates []string
	index      int
}

// NewPathCompleter lists the candidates for prefix. When prefix contains a
// path separator the entries of its parent directory are listed and the
// directory part is kept verbatim in front of each candidate.
func NewPathCompleter(prefix string) *PathCompleter {
	return newPathCompleter(prefix, readDirNames)
}

func newPathCompleter(prefix string, list func(dir string) ([]string, error)) *PathCompleter {
	c := &PathCompleter{prefix: prefix, index: -1}
	dir, part := "", prefix
	if i := strings.LastIndexAny(prefix, separators); i >= 0 {
		dir, part = prefix[:i+1], prefix[i+1:]
	}
	names, err := list(expandHome(dir))
	if err != nil {
		return c
	}
	for _, n := range names {
		if strings.HasPrefix(n, part) {
			c.candidates = append(c.candidates, dir+n)
		}
	}
	sort.SliceStable(c.candidates, func(i, j int) bool {
		return len(c.candidates[i]) < len(c.candidates[j])
	})
	return c
}

// Candidates returns the ordered candidate list.
func (c *PathCompleter) Candidates() []string { return append([]string(nil), c.candidates...) }

// Next advances the selection cyclically. from is the text currently at the
// end of the buffer (the prefix on the first call, the previous candidate
// afterwards) and to is its replacement. ok is false when nothing matches.
func (c *PathCompleter) Next() (from, to string, ok bool) {
	if len(c.candidates) == 0 {
		return "", "", false
	}
	from = c.prefix
	if c.index >= 0 {
		from = c.candidates[c.index]
	}
	c.index = (c.index + 1) % len(c.candidates)
	return from, c.candidates[c.index], true
}

func readDirNames(dir string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names, nil
}

func expandHome(dir string) string {
	if dir != "~/" && !strings.HasPrefix(dir, "~"+string(filepath.Separator)) {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return dir
	}
	return home + dir[1:]
}
