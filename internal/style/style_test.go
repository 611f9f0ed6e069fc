package style

import (
	"bytes"
	"strings"
	"testing"
)

func TestNeverIsPlain(t *testing.T) {
	p := Plain(&bytes.Buffer{})
	for _, got := range []string{p.Error("e"), p.Warning("w"), p.Command("c"), p.Variable("v"), p.Path("p"), p.Bold("b")} {
		if strings.Contains(got, "\x1b[") {
			t.Fatalf("unexpected escape codes in %q", got)
		}
	}
}

func TestAlwaysColorsAndStrips(t *testing.T) {
	p := New(&bytes.Buffer{}, ColorAlways)
	got := p.Error("boom")
	if !strings.Contains(got, "\x1b[") {
		t.Fatalf("expected escape codes in %q", got)
	}
	if Strip(got) != "boom" {
		t.Fatalf("strip = %q", Strip(got))
	}
	if Width(got) != 4 {
		t.Fatalf("width = %d", Width(got))
	}
}

func TestRenderKeepsNewlines(t *testing.T) {
	p := New(&bytes.Buffer{}, ColorAlways)
	got := Strip(p.Variable("a\n\nb"))
	if got != "a\n\nb" {
		t.Fatalf("got %q", got)
	}
	if p.Path("") != "" {
		t.Fatalf("empty input should stay empty")
	}
}
