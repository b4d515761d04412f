//go:build unix

package env

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// waitStatus extracts the raw wait status from a process exit error, and
// reports whether the process died from a signal.
func waitStatus(ee *exec.ExitError) (unix.WaitStatus, bool) {
	raw, ok := ee.Sys().(syscall.WaitStatus)
	if !ok {
		return 0, false
	}
	ws := unix.WaitStatus(raw)
	return ws, ws.Signaled()
}

// statusFromWait turns a signaled wait status into the "128+signal" form
// spec §3 requires for $?.
func statusFromWait(ws unix.WaitStatus) ExitStatus {
	return Signal(int(ws.Signal()))
}

// IsReadableDir reports whether path is a directory the current user can
// enter, grounded on the teacher's interp/os_unix.go access() helper; used
// by the `cd` builtin's CDPATH search (spec §4.9).
func IsReadableDir(path string) bool {
	if unix.Access(path, unix.X_OK) != nil {
		return false
	}
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFDIR != 0
}
