package env

import (
	"os"
	"path/filepath"
	"strings"
)

// WorkingDirEnvironment is the cwd sub-environment (spec §3): current path
// plus logical/physical normalization, as used by `cd`/`pwd` (spec §4.9).
type WorkingDirEnvironment interface {
	// Getwd returns the current logical working directory.
	Getwd() string
	// Chdir changes the logical cwd to path and updates the OS process cwd
	// to match. If physical is true, path is first resolved to its
	// physical (symlink-free) form before either is updated (spec §6
	// "Persisted state... cwd is modified through the OS as a side effect
	// of `cd -P`"); if false, the logical cleanup of path is used as-is.
	Chdir(path string, physical bool) error
	// Physical resolves the given logical path, or the current cwd if
	// path is empty, to its symlink-free physical form.
	Physical(path string) (string, error)
}

type workdirEnv struct {
	logical string
}

// NewWorkingDirEnv seeds a working-directory environment from the OS
// process cwd.
func NewWorkingDirEnv() (WorkingDirEnvironment, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return &workdirEnv{logical: wd}, nil
}

func (w *workdirEnv) Getwd() string { return w.logical }

func (w *workdirEnv) Physical(path string) (string, error) {
	if path == "" {
		path = w.logical
	}
	return filepath.EvalSymlinks(path)
}

func (w *workdirEnv) Chdir(path string, physical bool) error {
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.logical, path)
	}
	// A real shell always chdir(2)s the OS process; -L vs -P only changes
	// how the target path is resolved beforehand (symlink-preserving
	// logical cleanup vs full symlink resolution), and hence what ends up
	// recorded as the new logical cwd / $PWD.
	target := filepath.Clean(path)
	if physical {
		resolved, err := filepath.EvalSymlinks(path)
		if err != nil {
			return err
		}
		target = resolved
	}
	if err := os.Chdir(target); err != nil {
		return err
	}
	w.logical = target
	return nil
}

// HasDotComponents reports whether p contains a "." or ".." path element,
// used by `pwd` to decide whether the logical cwd is trustworthy (spec
// §4.9 "if the current logical cwd contains any ./.. components, fall
// back to physical").
func HasDotComponents(p string) bool {
	for _, part := range strings.Split(filepath.ToSlash(p), "/") {
		if part == "." || part == ".." {
			return true
		}
	}
	return false
}
