//go:build !windows

package cli

import "os"

// prepareConsole is a no-op where terminals interpret ANSI sequences natively.
func prepareConsole(_ *os.File) (func(), error) {
	return func() {}, nil
}
