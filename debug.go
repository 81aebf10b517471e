package joist

import (
	"fmt"
	"os"
)

// debugEnabled gates the package's stderr diagnostics: state transitions,
// commits, and geometry fallbacks. Off by default.
var debugEnabled bool

// SetDebug enables or disables debug diagnostics on stderr.
func SetDebug(enabled bool) {
	debugEnabled = enabled
}

// debugf prints a diagnostic line to stderr when debug mode is on.
func debugf(format string, args ...any) {
	if !debugEnabled {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[joist] "+format+"\n", args...)
}
