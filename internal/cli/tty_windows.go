//go:build windows

package cli

import (
	"fmt"
	"os"

	"golang.org/x/sys/windows"
)

// prepareConsole enables ANSI escape processing on the output console and
// returns a func restoring the previous mode.
func prepareConsole(out *os.File) (func(), error) {
	h := windows.Handle(out.Fd())
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return func() {}, fmt.Errorf("console mode: %w", err)
	}
	vt := mode | windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING | windows.ENABLE_PROCESSED_OUTPUT
	if err := windows.SetConsoleMode(h, vt); err != nil {
		return func() {}, fmt.Errorf("enable virtual terminal: %w", err)
	}
	return func() { _ = windows.SetConsoleMode(h, mode) }, nil
}
