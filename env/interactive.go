package env

import (
	"os"

	"golang.org/x/term"
)

// IsInteractive reports whether h is connected to a terminal. Spec §9's
// "Open question: interactive behavior" ties redirect path-word splitting
// to this predicate: an interactive shell splits the path word further on
// IFS, while scripts (the common case) treat a multi-field path as
// ambiguous (spec §4.5).
func IsInteractive(h FileDesc) bool {
	if !h.Valid() {
		return false
	}
	return term.IsTerminal(int(h.File().Fd()))
}

// StdinIsInteractive is a convenience wrapper over os.Stdin, used when
// constructing a root Env without an explicit stdin handle.
func StdinIsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
