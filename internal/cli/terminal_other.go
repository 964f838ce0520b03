//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package cli

import "os"

// IsTerminal reports false; styled output must be forced with color = "always".
func IsTerminal(f *os.File) bool { return false }
