//go:build !unix

package env

import (
	"os"
	"os/exec"
)

func waitStatus(ee *exec.ExitError) (struct{}, bool) { return struct{}{}, false }

func statusFromWait(struct{}) ExitStatus { return Error }

// IsReadableDir reports whether path is a directory; signal-aware
// permission checks are unix-only, so this falls back to a plain stat.
func IsReadableDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
