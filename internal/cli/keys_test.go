package cli

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestDecodeKey(t *testing.T) {
	cases := []struct {
		in   string
		want []Key
	}{
		{"ab", []Key{'a', 'b'}},
		{"\x7f\x08", []Key{KeyBackspace, KeyBackspace}},
		{"\r\n", []Key{KeyEnter, KeyEnter}},
		{"\x1b[A\x1b[B\x1bOC\x1b[D", []Key{KeyUp, KeyDown, KeyRight, KeyLeft}},
		{"\x1b[3~\x1b[1~\x1b[4~", []Key{KeyDelete, KeyHome, KeyEnd}},
		{"\x1b[1;5C", []Key{KeyUnknown}},
		{"é世", []Key{'é', '世'}},
		{"\x03\x04\t", []Key{KeyCtrlC, KeyCtrlD, KeyTab}},
	}
	for _, tc := range cases {
		src := NewStreamKeys(strings.NewReader(tc.in))
		for i, want := range tc.want {
			got, err := src.ReadKey()
			if err != nil {
				t.Fatalf("%q key %d: %v", tc.in, i, err)
			}
			if got != want {
				t.Fatalf("%q key %d = %#x, want %#x", tc.in, i, got, want)
			}
		}
		if _, err := src.ReadKey(); !errors.Is(err, io.EOF) {
			t.Fatalf("%q: expected EOF, got %v", tc.in, err)
		}
	}
}

func TestLoneEscapeAtEOF(t *testing.T) {
	k, err := NewStreamKeys(strings.NewReader("\x1b")).ReadKey()
	if err != nil || k != KeyEscape {
		t.Fatalf("got %v %v", k, err)
	}
}

func TestIsPrintable(t *testing.T) {
	for _, k := range []Key{'a', ' ', '~', 'é', '世'} {
		if !k.IsPrintable() {
			t.Fatalf("%q should be printable", rune(k))
		}
	}
	for _, k := range []Key{KeyCtrlC, KeyEnter, KeyTab, 0x7f, KeyUp, KeyUnknown} {
		if k.IsPrintable() {
			t.Fatalf("%#x should not be printable", k)
		}
	}
}
