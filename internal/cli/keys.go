package cli

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"
)

// Key is one decoded keystroke. Printable keys are their rune; control
// keys keep their ASCII code; navigation keys live in the private-use area
// so they never collide with text.
type Key rune

const (
	KeyCtrlC     Key = 3
	KeyCtrlD     Key = 4
	KeyBackspace Key = 8
	KeyTab       Key = 9
	KeyEnter     Key = 13
	KeyEscape    Key = 27
)

const (
	KeyUp Key = 0xE000 + iota
	KeyDown
	KeyRight
	KeyLeft
	KeyHome
	KeyEnd
	KeyDelete
	KeyUnknown
)

// KeySource yields one key per call, blocking until it is available.
type KeySource interface {
	ReadKey() (Key, error)
}

// IsPrintable reports whether k inserts text into the buffer.
func (k Key) IsPrintable() bool {
	if k < 0x20 || k == 0x7f || (k >= 0x80 && k < 0xa0) {
		return false
	}
	return k < KeyUp || k > KeyUnknown
}

// decodeKey reads one keystroke from r. ANSI cursor sequences (ESC [ x and
// ESC O x) map to the navigation keys, both DEL and BS map to KeyBackspace,
// and multi-byte UTF-8 input is returned as a single rune.
func decodeKey(r io.ByteReader) (Key, error) {
	b, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch {
	case b == 0x7f || b == 0x08:
		return KeyBackspace, nil
	case b == '\n':
		return KeyEnter, nil
	case b == 0x1b:
		return decodeEscape(r)
	case b < utf8.RuneSelf:
		return Key(b), nil
	}

	n := utf8Len(b)
	if n == 0 {
		return KeyUnknown, nil
	}
	p := make([]byte, 1, n)
	p[0] = b
	for len(p) < n {
		c, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		p = append(p, c)
	}
	ru, _ := utf8.DecodeRune(p)
	if ru == utf8.RuneError {
		return KeyUnknown, nil
	}
	return Key(ru), nil
}

func decodeEscape(r io.ByteReader) (Key, error) {
	b, err := r.ReadByte()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return KeyEscape, nil
		}
		return 0, err
	}
	if b != '[' && b != 'O' {
		return KeyUnknown, nil
	}
	b, err = r.ReadByte()
	if err != nil {
		return 0, err
	}
	switch b {
	case 'A':
		return KeyUp, nil
	case 'B':
		return KeyDown, nil
	case 'C':
		return KeyRight, nil
	case 'D':
		return KeyLeft, nil
	case 'H':
		return KeyHome, nil
	case 'F':
		return KeyEnd, nil
	}
	if b < '0' || b > '9' {
		return KeyUnknown, nil
	}
	// ESC [ n ~ and ESC [ n ; m x
	param := int(b - '0')
	for {
		c, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if c >= '0' && c <= '9' {
			param = param*10 + int(c-'0')
			continue
		}
		if c == ';' {
			continue
		}
		if c == '~' {
			switch param {
			case 1, 7:
				return KeyHome, nil
			case 4, 8:
				return KeyEnd, nil
			case 3:
				return KeyDelete, nil
			}
		}
		return KeyUnknown, nil
	}
}

func utf8Len(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 2
	case b&0xF0 == 0xE0:
		return 3
	case b&0xF8 == 0xF0:
		return 4
	}
	return 0
}

// streamKeys decodes keys from a plain reader, for scripted input and tests.
type streamKeys struct {
	r *bufio.Reader
}

// NewStreamKeys returns a KeySource over r.
func NewStreamKeys(r io.Reader) KeySource {
	return &streamKeys{r: bufio.NewReader(r)}
}

func (s *streamKeys) ReadKey() (Key, error) { return decodeKey(s.r) }
