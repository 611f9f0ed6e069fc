package commands

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flowave-io/ctsh/internal/shell"
)

type fakeLoader struct {
	names []string
	err   error
}

func (f fakeLoader) Load(path string, s *shell.Session) ([]string, error) {
	for _, n := range f.names {
		s.Set(n, path)
	}
	return f.names, f.err
}

func newSession(t *testing.T) (*shell.Session, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errw bytes.Buffer
	s := shell.NewSession("t", &out, &errw, shell.WithEnviron(shell.MapEnviron{}))
	RegisterDefaults(s, Deps{Loader: fakeLoader{names: []string{"a", "b"}}})
	return s, &out, &errw
}

func invoke(t *testing.T, s *shell.Session, tier shell.Tier, name string, args ...string) error {
	t.Helper()
	var cmd shell.Command
	var ok bool
	if tier == shell.Fallback {
		cmd, ok = s.FallbackCommand(name)
	} else {
		cmd, ok = s.Command(name)
	}
	if !ok {
		t.Fatalf("%s not registered in tier %d", name, tier)
	}
	return cmd.Invoke(context.Background(), s, args)
}

func commandError(t *testing.T, err error) *shell.CommandError {
	t.Helper()
	var ce *shell.CommandError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CommandError, got %v", err)
	}
	return ce
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestRegisterDefaults_Tiers(t *testing.T) {
	s, _, _ := newSession(t)
	want := "cd clear history cat exit load watch"
	if got := strings.Join(s.CommandNames(shell.Primary), " "); got != want {
		t.Fatalf("primary = %q", got)
	}
	want = "ls cp mv rm fetch"
	if got := strings.Join(s.CommandNames(shell.Fallback), " "); got != want {
		t.Fatalf("fallback = %q", got)
	}
}

func TestCd(t *testing.T) {
	s, _, _ := newSession(t)
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "f"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := invoke(t, s, shell.Primary, "cd", "sub"); err != nil {
		t.Fatalf("cd sub: %v", err)
	}
	wd, _ := os.Getwd()
	if filepath.Base(wd) != "sub" {
		t.Fatalf("wd = %s", wd)
	}
	ce := commandError(t, invoke(t, s, shell.Primary, "cd", "nope"))
	if ce.Error() != "cd: no such file or directory: nope" {
		t.Fatalf("got %q", ce.Error())
	}
	ce = commandError(t, invoke(t, s, shell.Primary, "cd", "../f"))
	if ce.Detail != "not a directory: ../f" {
		t.Fatalf("got %q", ce.Detail)
	}
}

func TestHistoryListsAllButLast(t *testing.T) {
	s, out, _ := newSession(t)
	for _, l := range []string{"ls", "cd /", "history"} {
		s.History.Record(l)
	}
	if err := invoke(t, s, shell.Primary, "history"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "1  ls\n2  cd /\n" {
		t.Fatalf("out = %q", out.String())
	}
	if err := invoke(t, s, shell.Primary, "history", "-c"); err != nil {
		t.Fatal(err)
	}
	if s.History.Len() != 0 {
		t.Fatalf("history not cleared")
	}
}

func TestHistoryBadFlag(t *testing.T) {
	s, _, _ := newSession(t)
	ce := commandError(t, invoke(t, s, shell.Primary, "history", "-x"))
	if ce.Name != "history" {
		t.Fatalf("name = %q", ce.Name)
	}
}

func TestHelpIsNotAnError(t *testing.T) {
	s, out, _ := newSession(t)
	if err := invoke(t, s, shell.Fallback, "rm", "-h"); err != nil {
		t.Fatalf("got %v", err)
	}
	if !strings.Contains(out.String(), "usage: rm") {
		t.Fatalf("out = %q", out.String())
	}
}

func TestCat(t *testing.T) {
	s, out, _ := newSession(t)
	dir := t.TempDir()
	p := filepath.Join(dir, "a.txt")
	if err := os.WriteFile(p, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := invoke(t, s, shell.Primary, "cat", p); err != nil {
		t.Fatal(err)
	}
	if out.String() != "hello\n" {
		t.Fatalf("out = %q", out.String())
	}
	ce := commandError(t, invoke(t, s, shell.Primary, "cat", dir))
	if !strings.HasSuffix(ce.Detail, "Is a directory") {
		t.Fatalf("got %q", ce.Detail)
	}
}

func TestExit(t *testing.T) {
	s, _, _ := newSession(t)
	ex, ok := shell.AsExit(invoke(t, s, shell.Primary, "exit", "7"))
	if !ok || ex.Code != 7 {
		t.Fatalf("got %v", ex)
	}
	ex, ok = shell.AsExit(invoke(t, s, shell.Primary, "exit"))
	if !ok || ex.Code != 0 {
		t.Fatalf("got %v", ex)
	}
	ce := commandError(t, invoke(t, s, shell.Primary, "exit", "x"))
	if ce.Detail != "x: numeric argument required" {
		t.Fatalf("got %q", ce.Detail)
	}
}

func TestLoad(t *testing.T) {
	s, out, _ := newSession(t)
	if err := invoke(t, s, shell.Primary, "load", "vars.hcl"); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != "a b" {
		t.Fatalf("out = %q", out.String())
	}
	if v, ok := s.Local("a"); !ok || v != "vars.hcl" {
		t.Fatalf("a = %v", v)
	}
}

func TestLsCpMvRm(t *testing.T) {
	s, out, _ := newSession(t)
	dir := t.TempDir()
	chdir(t, dir)
	if err := os.WriteFile("a.txt", []byte("A"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(".hidden", nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir("d", 0o755); err != nil {
		t.Fatal(err)
	}

	if err := invoke(t, s, shell.Fallback, "ls"); err != nil {
		t.Fatal(err)
	}
	if out.String() != "a.txt  d/  \n" {
		t.Fatalf("ls = %q", out.String())
	}
	out.Reset()
	if err := invoke(t, s, shell.Fallback, "ls", "-a"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), ".hidden") {
		t.Fatalf("ls -a = %q", out.String())
	}
	ce := commandError(t, invoke(t, s, shell.Fallback, "ls", "zzz"))
	if ce.Detail != "cannot access 'zzz': No such file or directory" {
		t.Fatalf("got %q", ce.Detail)
	}

	if err := invoke(t, s, shell.Fallback, "cp", "a.txt", "d"); err != nil {
		t.Fatalf("cp into dir: %v", err)
	}
	if b, _ := os.ReadFile(filepath.Join("d", "a.txt")); string(b) != "A" {
		t.Fatalf("copied content %q", b)
	}
	ce = commandError(t, invoke(t, s, shell.Fallback, "cp", "d", "e"))
	if !strings.Contains(ce.Detail, "without -r") {
		t.Fatalf("got %q", ce.Detail)
	}
	if err := invoke(t, s, shell.Fallback, "cp", "-r", "d", "e"); err != nil {
		t.Fatalf("cp -r: %v", err)
	}
	if _, err := os.Stat(filepath.Join("e", "a.txt")); err != nil {
		t.Fatalf("tree not copied: %v", err)
	}

	if err := invoke(t, s, shell.Fallback, "mv", "a.txt", "b.txt"); err != nil {
		t.Fatalf("mv: %v", err)
	}
	if _, err := os.Stat("a.txt"); !os.IsNotExist(err) {
		t.Fatalf("a.txt still there")
	}

	ce = commandError(t, invoke(t, s, shell.Fallback, "rm", "e"))
	if !strings.Contains(ce.Detail, "without -r") {
		t.Fatalf("got %q", ce.Detail)
	}
	// flags may follow the path
	if err := invoke(t, s, shell.Fallback, "rm", "e", "-r"); err != nil {
		t.Fatalf("rm -r: %v", err)
	}
	if _, err := os.Stat("e"); !os.IsNotExist(err) {
		t.Fatalf("e still there")
	}
	if err := invoke(t, s, shell.Fallback, "rm", "-f", "missing"); err != nil {
		t.Fatalf("rm -f missing: %v", err)
	}
	ce = commandError(t, invoke(t, s, shell.Fallback, "rm", "missing"))
	if ce.Error() != "rm: cannot remove 'missing': No such file or directory" {
		t.Fatalf("got %q", ce.Error())
	}
}

func TestWatchStopsOnCancel(t *testing.T) {
	s, _, _ := newSession(t)
	cmd, _ := s.Command("watch")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := cmd.Invoke(ctx, s, []string{t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
}

func TestClear(t *testing.T) {
	s, out, _ := newSession(t)
	if err := invoke(t, s, shell.Primary, "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "\x1b[H") {
		t.Fatalf("out = %q", out.String())
	}
}

func TestParseArgsDoubleDash(t *testing.T) {
	s, _, _ := newSession(t)
	cases := []struct {
		args      []string
		want      []string
		recursive bool
	}{
		{[]string{"-r", "a"}, []string{"a"}, true},
		{[]string{"a", "-r"}, []string{"a"}, true},
		{[]string{"--", "-r"}, []string{"-r"}, false},
		{[]string{"a", "--", "-r", "b"}, []string{"a", "-r", "b"}, false},
	}
	for _, tc := range cases {
		fs := flag.NewFlagSet("rm", flag.ContinueOnError)
		r := fs.Bool("r", false, "")
		got, err := parseArgs(fs, s, tc.args)
		if err != nil {
			t.Fatalf("%q: %v", tc.args, err)
		}
		if strings.Join(got, ",") != strings.Join(tc.want, ",") || *r != tc.recursive {
			t.Fatalf("%q: got %q r=%v, want %q r=%v", tc.args, got, *r, tc.want, tc.recursive)
		}
	}
}

func TestRmDashNamedFile(t *testing.T) {
	s, _, _ := newSession(t)
	chdir(t, t.TempDir())
	if err := os.WriteFile("-f", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := invoke(t, s, shell.Fallback, "rm", "--", "-f"); err != nil {
		t.Fatalf("rm -- -f: %v", err)
	}
	if _, err := os.Stat("-f"); !os.IsNotExist(err) {
		t.Fatalf("-f still there")
	}
}
