package env

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ExecSpec is everything the exec sub-environment needs to spawn an
// external executable (spec §3 "Exec env: spawn an external executable
// given name/args/env/cwd/stdio", §4.6 step 4).
type ExecSpec struct {
	Name                  string
	Args                  []string
	Env                   []string // NAME=VALUE, exported vars only (spec §4.6)
	Dir                   string
	Stdin, Stdout, Stderr FileDesc
}

// ExecEnvironment is the exec sub-environment.
type ExecEnvironment interface {
	Exec(ctx context.Context, spec ExecSpec) (ExitStatus, error)
}

type execEnv struct{}

// NewExecEnv builds the default exec environment: look up spec.Name on
// PATH (spec.Dir-relative if not already absolute) and run it with
// os/exec, grounded on the teacher's DefaultExecHandler.
func NewExecEnv() ExecEnvironment { return execEnv{} }

func (execEnv) Exec(ctx context.Context, spec ExecSpec) (ExitStatus, error) {
	path, err := lookPath(spec.Dir, spec.Env, spec.Name)
	if err != nil {
		fmt.Fprintln(spec.Stderr, err)
		return Code(127), nil
	}
	cmd := exec.Cmd{
		Path: path,
		Args: append([]string{spec.Name}, spec.Args...),
		Env:  spec.Env,
		Dir:  spec.Dir,
	}
	if spec.Stdin.Valid() {
		cmd.Stdin = spec.Stdin.File()
	}
	if spec.Stdout.Valid() {
		cmd.Stdout = spec.Stdout.File()
	}
	if spec.Stderr.Valid() {
		cmd.Stderr = spec.Stderr.File()
	}

	if err := cmd.Start(); err != nil {
		if ee, ok := err.(*exec.Error); ok {
			fmt.Fprintf(spec.Stderr, "%v\n", ee)
			return Code(127), nil
		}
		return ExitStatus{}, err
	}

	stopf := context.AfterFunc(ctx, func() {
		_ = cmd.Process.Signal(os.Interrupt)
	})
	defer stopf()

	err = cmd.Wait()
	if err == nil {
		return Success, nil
	}
	if ee, ok := err.(*exec.ExitError); ok {
		if status, ok := waitStatus(ee); ok {
			if ctx.Err() != nil {
				return ExitStatus{}, ctx.Err()
			}
			return statusFromWait(status), nil
		}
		return Code(uint8Clamp(ee.ExitCode())), nil
	}
	return ExitStatus{}, err
}

func uint8Clamp(n int) int {
	if n < 0 || n > 255 {
		return 1
	}
	return n
}

// lookPath resolves name to an executable path, searching dir-relative
// PATH entries from env (spec §3 "PATH", §4.6 "executable on PATH").
func lookPath(dir string, environ []string, name string) (string, error) {
	if filepath.IsAbs(name) {
		return checkExecutable(name)
	}
	if strings.ContainsRune(name, '/') {
		return checkExecutable(filepath.Join(dir, name))
	}
	pathVar := ""
	for _, kv := range environ {
		if len(kv) > 5 && kv[:5] == "PATH=" {
			pathVar = kv[5:]
		}
	}
	for _, p := range filepath.SplitList(pathVar) {
		if p == "" {
			p = dir
		}
		if candidate, err := checkExecutable(filepath.Join(p, name)); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: command not found", name)
}

func checkExecutable(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: is a directory", path)
	}
	if runtime.GOOS != "windows" && info.Mode()&0o111 == 0 {
		return "", fmt.Errorf("%s: permission denied", path)
	}
	return path, nil
}
