//go:build windows

package cli

const separators = `\/`
