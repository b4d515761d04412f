package interp

import (
	"fmt"

	"github.com/coreshell/coreshell/env"
)

// ErrorReporter is how a sequence, and/or list, if, case, or loop surfaces
// a non-fatal error instead of aborting (spec §4.7 "non-fatal errors are
// reported through the env's error reporter and coerced"). The teacher
// never routes this through a logging library; it writes straight to the
// shell's own stderr, and this module follows that (see SPEC_FULL.md
// "Error reporting").
type ErrorReporter func(e env.SpawnEnv, err error)

// defaultReporter writes "coreshell: <err>\n" to the fd 2 installed in e at
// report time, so a redirect applied earlier in the same construct is
// honored. Falls back to discarding the message if fd 2 isn't open.
func defaultReporter(e env.SpawnEnv, err error) {
	h, _, ok := e.FileDesc(2)
	if !ok || !h.Valid() {
		return
	}
	fmt.Fprintf(h, "coreshell: %v\n", err)
}

func reportOrDefault(r ErrorReporter) ErrorReporter {
	if r != nil {
		return r
	}
	return defaultReporter
}
