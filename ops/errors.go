package ops

import (
	"fmt"

	"github.com/coreshell/coreshell/env"
)

// Kind classifies a shell error by what went wrong, not by identity (spec
// §7 "Taxonomy (kinds, not identities)").
type Kind int

const (
	KindExpansion Kind = iota
	KindRedirection
	KindCommand
	KindFatal
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindExpansion:
		return "expansion"
	case KindRedirection:
		return "redirection"
	case KindCommand:
		return "command"
	case KindFatal:
		return "fatal"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Error is the common shape every runtime error takes: a kind, a message,
// an optional wrapped cause, and whether it's fatal (spec §7). Sequences,
// loops, if, case, and and/or lists inspect Fatal to decide whether to
// coerce the running status to EXIT_ERROR and continue, or short-circuit.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
	Fatal bool
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Cause)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Cause }

// IsFatal reports whether err should short-circuit its enclosing construct
// rather than merely coerce its status to EXIT_ERROR. Errors that aren't a
// *Error at all (context cancellation, I/O failures from the Go runtime
// that never got wrapped) are treated as fatal by default, since they
// indicate something outside the normal command-failure path.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	se, ok := err.(*Error)
	if !ok {
		return true
	}
	return se.Fatal
}

// EmptyParameter builds the ${p?w} error (spec §4.4, §8 "strict with
// empty p raises EmptyParameter").
func EmptyParameter(name, detail string) *Error {
	msg := detail
	if msg == "" {
		msg = "parameter null or not set"
	}
	return &Error{Kind: KindExpansion, Msg: fmt.Sprintf("%s: %s", name, msg)}
}

// BadAssig builds the ${p=w} error for a non-variable parameter (spec
// §4.4 "${p=w} ... error BadAssig if p is not a plain var name").
func BadAssig(name string) *Error {
	return &Error{Kind: KindExpansion, Msg: fmt.Sprintf("%s: cannot assign in this way", name)}
}

// DivideByZero builds the arithmetic error for `/` or `%` by zero.
func DivideByZero() *Error {
	return &Error{Kind: KindExpansion, Msg: "division by zero"}
}

// NegativeExponent builds the arithmetic error for `**` with a negative
// right-hand side.
func NegativeExponent() *Error {
	return &Error{Kind: KindExpansion, Msg: "negative exponent"}
}

// Ambiguous builds the redirect-path error for a multi-field or empty
// path word (spec §4.5 "multi-field results raise Ambiguous").
func Ambiguous(words []string) *Error {
	return &Error{Kind: KindRedirection, Msg: fmt.Sprintf("ambiguous redirect: %q", words)}
}

// BadFdSrc builds the dup-redirect error when the source isn't `-` or a
// parseable integer fd (spec §4.5 "DupRead/DupWrite").
func BadFdSrc(text string) *Error {
	return &Error{Kind: KindRedirection, Msg: fmt.Sprintf("%s: bad file descriptor", text)}
}

// BadFdPerms builds the dup-redirect error when the source fd exists but
// lacks the permission the dup requires.
func BadFdPerms(fd int, p env.Permissions) *Error {
	return &Error{Kind: KindRedirection, Msg: fmt.Sprintf("%d: not open for %s", fd, p)}
}

// IO wraps an OS I/O error, optionally naming the path it occurred on.
func IO(cause error, path string) *Error {
	msg := "i/o error"
	if path != "" {
		msg = path
	}
	return &Error{Kind: KindIO, Msg: msg, Cause: cause}
}

// CommandNotFound builds the lookup-failure error for §4.6 step 4's
// function→builtin→PATH precedence.
func CommandNotFound(name string) *Error {
	return &Error{Kind: KindCommand, Msg: fmt.Sprintf("%s: command not found", name)}
}

// NotExecutable builds the error for a resolved path lacking the
// executable bit.
func NotExecutable(name string) *Error {
	return &Error{Kind: KindCommand, Msg: fmt.Sprintf("%s: permission denied", name)}
}

// WrapFatal marks cause as a fatal error that should abort the enclosing
// construct immediately (spec §7 "Fatal: unrecoverable").
func WrapFatal(cause error) *Error {
	return &Error{Kind: KindFatal, Msg: cause.Error(), Cause: cause, Fatal: true}
}
