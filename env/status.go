package env

import "strconv"

// ExitStatus is the sum type from spec §3: either a process exit code or a
// terminating signal number. Signals render as "128+n" per POSIX (spec
// §3 "Signals encode as `128 + n` in string form (for `$?`)").
type ExitStatus struct {
	signal bool
	value  int
}

// Code builds a Code(n) exit status.
func Code(n int) ExitStatus { return ExitStatus{value: n} }

// Signal builds a Signal(n) exit status.
func Signal(n int) ExitStatus { return ExitStatus{signal: true, value: n} }

// Success and Error are the two constants named directly in spec §3.
var (
	Success = Code(0)
	Error   = Code(1)
)

// IsSuccess reports whether the status represents success: code zero and
// not a signal.
func (e ExitStatus) IsSuccess() bool { return !e.signal && e.value == 0 }

// IsSignal reports whether the status came from a terminating signal.
func (e ExitStatus) IsSignal() bool { return e.signal }

// Value returns the raw code (or signal number, if IsSignal).
func (e ExitStatus) Value() int { return e.value }

// String renders $? form: the code as-is, or 128+signal for signals.
func (e ExitStatus) String() string {
	if e.signal {
		return strconv.Itoa(128 + e.value)
	}
	return strconv.Itoa(e.value)
}

// Invert implements the pipeline "!" operator (spec §4.7): success becomes
// Error, anything else becomes Success.
func (e ExitStatus) Invert() ExitStatus {
	if e.IsSuccess() {
		return Error
	}
	return Success
}
