package interp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/coreshell/coreshell/env"
)

// RegisterBuiltins wires the standard built-in set into e (spec §4.9):
// `:`, `true`, `false`, `echo`, `pwd`, `cd`, `shift`.
func RegisterBuiltins(e *env.Env) {
	e.SetBuiltin(":", builtinTrue)
	e.SetBuiltin("true", builtinTrue)
	e.SetBuiltin("false", builtinFalse)
	e.SetBuiltin("echo", builtinEcho)
	e.SetBuiltin("pwd", builtinPwd)
	e.SetBuiltin("cd", builtinCd)
	e.SetBuiltin("shift", builtinShift)
}

func builtinTrue(context.Context, env.BuiltinContext) env.ExitStatus  { return env.Success }
func builtinFalse(context.Context, env.BuiltinContext) env.ExitStatus { return env.Error }

// builtinEcho implements spec §4.9's echo: leading -n/-e/-E flags,
// recognized only as a contiguous run of flag letters right after the
// dash, `--` always literal, `-e` turning on backslash escape
// interpretation.
func builtinEcho(_ context.Context, bc env.BuiltinContext) env.ExitStatus {
	args := bc.Args
	noNewline := false
	interpret := false
	for len(args) > 0 && isEchoFlag(args[0]) {
		for _, c := range args[0][1:] {
			switch c {
			case 'n':
				noNewline = true
			case 'e':
				interpret = true
			case 'E':
				interpret = false
			}
		}
		args = args[1:]
	}

	out := strings.Join(args, " ")
	if interpret {
		var stop bool
		out, stop = echoEscape(out)
		if stop {
			noNewline = true
		}
	}
	fmt.Fprint(bc.Stdout, out)
	if !noNewline {
		fmt.Fprint(bc.Stdout, "\n")
	}
	return env.Success
}

// isEchoFlag reports whether a is a recognized echo flag token: starts
// with `-`, has at least one more character, every character after the
// dash is n/e/E, and it isn't the literal `--`.
func isEchoFlag(a string) bool {
	if a == "--" || len(a) < 2 || a[0] != '-' {
		return false
	}
	for _, c := range a[1:] {
		if c != 'n' && c != 'e' && c != 'E' {
			return false
		}
	}
	return true
}

// echoEscape interprets \a \b \c \e \f \n \r \t \v \\, octal \NNN (1-3
// digits), and \xHH (1-2 hex digits); \c stops output immediately and the
// caller should suppress the trailing newline. Unknown \x sequences are
// left as-is (spec §4.9 "Unknown \x sequences remain literal").
func echoEscape(s string) (string, bool) {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			sb.WriteByte(s[i])
			continue
		}
		c := s[i+1]
		switch c {
		case 'a':
			sb.WriteByte('\a')
			i++
		case 'b':
			sb.WriteByte('\b')
			i++
		case 'c':
			return sb.String(), true
		case 'e':
			sb.WriteByte('\x1b')
			i++
		case 'f':
			sb.WriteByte('\f')
			i++
		case 'n':
			sb.WriteByte('\n')
			i++
		case 'r':
			sb.WriteByte('\r')
			i++
		case 't':
			sb.WriteByte('\t')
			i++
		case 'v':
			sb.WriteByte('\v')
			i++
		case '\\':
			sb.WriteByte('\\')
			i++
		case 'x':
			if n, width, ok := parseEscapeDigits(s[i+2:], 2, isHexDigit); ok {
				sb.WriteByte(byte(n))
				i += 1 + width
			} else {
				sb.WriteByte(s[i])
			}
		case '0', '1', '2', '3', '4', '5', '6', '7':
			if n, width, ok := parseEscapeDigits(s[i+1:], 3, isOctalDigit); ok {
				sb.WriteByte(byte(n))
				i += width
			} else {
				sb.WriteByte(s[i])
			}
		default:
			sb.WriteByte(s[i])
		}
	}
	return sb.String(), false
}

func isHexDigit(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func isOctalDigit(c byte) bool { return c >= '0' && c <= '7' }

// parseEscapeDigits greedily consumes up to maxDigits characters of s
// satisfying pred and parses them as a base matching pred (8 or 16).
func parseEscapeDigits(s string, maxDigits int, pred func(byte) bool) (value int, width int, ok bool) {
	for width < maxDigits && width < len(s) && pred(s[width]) {
		width++
	}
	if width == 0 {
		return 0, 0, false
	}
	base := 8
	if pred(byte('a')) {
		base = 16
	}
	n, err := strconv.ParseInt(s[:width], base, 32)
	if err != nil {
		return 0, 0, false
	}
	return int(n), width, true
}

// builtinPwd implements spec §4.9's pwd: -L/-P, last flag wins, default
// logical; falls back to physical if the logical cwd has dot components.
func builtinPwd(_ context.Context, bc env.BuiltinContext) env.ExitStatus {
	physical := false
	for _, a := range bc.Args {
		switch a {
		case "-L":
			physical = false
		case "-P":
			physical = true
		}
	}
	wd := bc.Env.Getwd()
	if physical || env.HasDotComponents(wd) {
		resolved, err := bc.Env.Physical(wd)
		if err != nil {
			fmt.Fprintf(bc.Stderr, "pwd: %v\n", err)
			return env.Error
		}
		wd = resolved
	}
	fmt.Fprintln(bc.Stdout, wd)
	return env.Success
}

// builtinCd implements spec §4.9's cd: -L/-P, $HOME/$OLDPWD, $CDPATH
// search, $OLDPWD/$PWD bookkeeping.
func builtinCd(_ context.Context, bc env.BuiltinContext) env.ExitStatus {
	physical := false
	args := bc.Args
	for len(args) > 0 {
		switch args[0] {
		case "-L":
			physical = false
		case "-P":
			physical = true
		default:
			goto parsed
		}
		args = args[1:]
	}
parsed:

	printPath := false
	var target string
	switch {
	case len(args) == 0:
		home, _, ok := bc.Env.Get("HOME")
		if !ok {
			fmt.Fprintln(bc.Stderr, "cd: HOME not set")
			return env.Error
		}
		target = home
	case args[0] == "-":
		oldpwd, _, ok := bc.Env.Get("OLDPWD")
		if !ok {
			fmt.Fprintln(bc.Stderr, "cd: OLDPWD not set")
			return env.Error
		}
		target = oldpwd
		printPath = true
	case strings.HasPrefix(args[0], "/"):
		target = args[0]
	default:
		if found, ok := searchCDPath(bc.Env, args[0]); ok {
			target = found
			printPath = true
		} else {
			target = args[0]
		}
	}

	prevWd := bc.Env.Getwd()
	if err := bc.Env.Chdir(target, physical); err != nil {
		fmt.Fprintf(bc.Stderr, "cd: %v\n", err)
		return env.Error
	}
	bc.Env.Set("OLDPWD", prevWd, false)
	bc.Env.Set("PWD", bc.Env.Getwd(), false)
	if printPath {
		fmt.Fprintln(bc.Stdout, bc.Env.Getwd())
	}
	return env.Success
}

// searchCDPath walks $CDPATH (colon-separated, an empty entry means the
// current directory) for the first readable directory named rel.
func searchCDPath(e *env.Env, rel string) (string, bool) {
	cdpath, _, ok := e.Get("CDPATH")
	if !ok {
		return "", false
	}
	for _, dir := range strings.Split(cdpath, ":") {
		if dir == "" {
			dir = e.Getwd()
		}
		candidate := dir + "/" + rel
		if env.IsReadableDir(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// builtinShift implements spec §4.9's shift: an optional numeric arg n
// (default 1), error if n exceeds the current argument count.
func builtinShift(_ context.Context, bc env.BuiltinContext) env.ExitStatus {
	n := 1
	if len(bc.Args) > 0 {
		parsed, err := strconv.Atoi(bc.Args[0])
		if err != nil {
			fmt.Fprintf(bc.Stderr, "shift: %s: numeric argument required\n", bc.Args[0])
			return env.Error
		}
		n = parsed
	}
	if err := bc.Env.Shift(n); err != nil {
		fmt.Fprintf(bc.Stderr, "shift: %v\n", err)
		return env.Error
	}
	return env.Success
}
