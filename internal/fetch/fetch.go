// Package fetch downloads files and directories from URLs, VCS remotes and
// local paths into the working tree.
package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-getter"
	"github.com/hashicorp/go-safetemp"
)

// Fetch downloads src to dst and returns the absolute destination. An empty
// dst names the download after the last element of src. The download lands
// in a temporary directory next to dst and is renamed into place only when
// complete, so a failed or canceled fetch leaves nothing behind.
func Fetch(ctx context.Context, src, dst string) (string, error) {
	s := strings.TrimSpace(src)
	if s == "" {
		return "", fmt.Errorf("empty source")
	}
	if dst == "" {
		dst = defaultName(s)
	}
	dest, err := filepath.Abs(dst)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dest); err == nil {
		return "", fmt.Errorf("destination %q already exists", dst)
	}
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", fmt.Errorf("create destination dir: %w", err)
	}
	tmp, cleanup, err := safetemp.Dir(parent, ".ctsh-fetch-")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer func() { _ = cleanup.Close() }()

	pwd, _ := os.Getwd()
	client := &getter.Client{
		Ctx:  ctx,
		Src:  s,
		Dst:  tmp,
		Pwd:  pwd,
		Mode: getter.ClientModeAny,
		Getters: map[string]getter.Getter{
			"http":  &getter.HttpGetter{Netrc: true, Client: defaultHTTPClient()},
			"https": &getter.HttpGetter{Netrc: true, Client: defaultHTTPClient()},
			"git":   &getter.GitGetter{},
			"file":  &getter.FileGetter{Copy: true},
		},
	}
	if err := client.Get(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("fetch %s: %w", s, err)
	}
	if err := os.Rename(downloaded(tmp), dest); err != nil {
		return "", fmt.Errorf("move into place: %w", err)
	}
	return dest, nil
}

// downloaded returns what should become the destination. A file-mode get
// leaves a single regular file inside dir; anything else is a tree.
func downloaded(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 1 || !entries[0].Type().IsRegular() {
		return dir
	}
	return filepath.Join(dir, entries[0].Name())
}

func defaultHTTPClient() *http.Client {
	return cleanhttp.DefaultClient()
}

// defaultName picks a file name for src: the last path element without a
// VCS suffix, ignoring query strings and getter prefixes like "git::".
func defaultName(src string) string {
	s := src
	if i := strings.Index(s, "::"); i >= 0 {
		s = s[i+2:]
	}
	if i := strings.Index(s, "//"); i >= 0 && !strings.Contains(s[:i], ":") {
		s = s[:i]
	}
	p := s
	if u, err := url.Parse(s); err == nil && u.Scheme != "" && u.Path != "" {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	name := path.Base(filepath.ToSlash(strings.TrimRight(p, "/")))
	name = strings.TrimSuffix(name, ".git")
	if name == "" || name == "." || name == "/" {
		return "download"
	}
	return name
}
