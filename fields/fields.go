// Package fields implements the result type of shell word expansion: a
// small closed set of variants describing how many fields an expansion
// produced and whether it is eligible for further splitting.
//
// The type is generic over the underlying string representation so that
// callers evaluating against a copy-on-write or interned string type don't
// need a second implementation of the splitting/joining algorithms.
package fields

import "strings"

// Stringish is the set of types Fields can hold: anything backed by string.
type Stringish interface {
	~string
}

type kind uint8

const (
	kindZero kind = iota
	kindSingle
	kindAt
	kindStar
	kindSplit
)

// Fields is the result of evaluating a shell word. See the package doc and
// spec §3/§4.1 for the meaning of each variant.
type Fields[T Stringish] struct {
	kind   kind
	single T
	multi  []T
}

// Zero is the empty result: no fields at all, distinct from a single empty
// field.
func Zero[T Stringish]() Fields[T] { return Fields[T]{kind: kindZero} }

// Single wraps exactly one field.
func Single[T Stringish](v T) Fields[T] { return Fields[T]{kind: kindSingle, single: v} }

// At models "$@": each element keeps its own field identity across
// interpolation.
func At[T Stringish](vs []T) Fields[T] { return Fields[T]{kind: kindAt, multi: vs} }

// Star models "$*": elements join with the first IFS char when
// concatenated with surrounding text inside quotes.
func Star[T Stringish](vs []T) Fields[T] { return Fields[T]{kind: kindStar, multi: vs} }

// Split models the result of explicit field splitting: each element is
// already a field in its own right.
func Split[T Stringish](vs []T) Fields[T] { return Fields[T]{kind: kindSplit, multi: vs} }

// FromSlice converts a slice to a Fields value per spec §4.1: length 0 is
// Zero, length 1 is Single, length >= 2 is Split.
func FromSlice[T Stringish](vs []T) Fields[T] {
	switch len(vs) {
	case 0:
		return Zero[T]()
	case 1:
		return Single(vs[0])
	default:
		return Split(vs)
	}
}

// IsAt reports whether f was built with At.
func (f Fields[T]) IsAt() bool { return f.kind == kindAt }

// IsStar reports whether f was built with Star. The assignment-RHS rule
// (spec §4.2) joins a Star result with IFS instead of a plain space.
func (f Fields[T]) IsStar() bool { return f.kind == kindStar }

// IsZero reports whether f is the Zero variant (no fields at all).
func (f Fields[T]) IsZero() bool { return f.kind == kindZero }

// Len reports the number of fields contained, irrespective of emptiness.
func (f Fields[T]) Len() int {
	switch f.kind {
	case kindZero:
		return 0
	case kindSingle:
		return 1
	default:
		return len(f.multi)
	}
}

// Elements returns the individual fields as a slice, in order.
func (f Fields[T]) Elements() []T {
	switch f.kind {
	case kindZero:
		return nil
	case kindSingle:
		return []T{f.single}
	default:
		return f.multi
	}
}

// IsNull reports whether every contained string is empty. Zero is always
// null; Single("") is null; At/Star/Split are null iff all elements are
// empty.
func (f Fields[T]) IsNull() bool {
	switch f.kind {
	case kindZero:
		return true
	case kindSingle:
		return len(f.single) == 0
	default:
		for _, v := range f.multi {
			if len(v) != 0 {
				return false
			}
		}
		return true
	}
}

// Join concatenates all fields with a single space, regardless of IFS.
// Single/Zero return their inner value ("" for Zero).
func (f Fields[T]) Join() T {
	switch f.kind {
	case kindZero:
		var zero T
		return zero
	case kindSingle:
		return f.single
	default:
		return joinWith(f.multi, " ")
	}
}

// IFSSource supplies the current value of IFS for a join/split operation.
// env implementations satisfy this with a thin method; it lives here to
// avoid fields depending on the env package.
type IFSSource interface {
	// IFS returns the current IFS value and whether it is set at all.
	IFS() (value string, isSet bool)
}

// JoinWithIFS joins At/Star/Split fields using the first character of IFS:
// empty IFS means no separator, unset IFS means a plain space (spec §9
// "Open question: IFS sourcing during join" is fixed to space here), and
// interior empty elements are preserved. Single/Zero are unaffected by IFS.
func (f Fields[T]) JoinWithIFS(src IFSSource) T {
	switch f.kind {
	case kindZero:
		var zero T
		return zero
	case kindSingle:
		return f.single
	default:
		return joinWith(f.multi, ifsSeparator(src))
	}
}

func ifsSeparator(src IFSSource) string {
	value, isSet := src.IFS()
	if !isSet {
		return " "
	}
	if value == "" {
		return ""
	}
	return value[:1]
}

func joinWith[T Stringish](vs []T, sep string) T {
	if len(vs) == 0 {
		var zero T
		return zero
	}
	if len(vs) == 1 {
		return vs[0]
	}
	strs := make([]string, len(vs))
	for i, v := range vs {
		strs[i] = string(v)
	}
	return T(strings.Join(strs, sep))
}

// Split field-splits a Single value per spec §4.1. Non-Single variants are
// returned unchanged: splitting only ever applies to the result of a
// single textual expansion.
func (f Fields[T]) Split(src IFSSource) Fields[T] {
	if f.kind != kindSingle {
		return f
	}
	ifs, isSet := src.IFS()
	if !isSet {
		ifs = " \t\n"
	}
	if ifs == "" {
		return f
	}
	parts := splitByIFS(string(f.single), ifs)
	out := make([]T, 0, len(parts))
	for _, p := range parts {
		out = append(out, T(p))
	}
	return FromSlice(out)
}

// splitByIFS implements POSIX field splitting: a run of IFS-whitespace
// delimits a field and is itself absorbed (stripped entirely at the
// string's edges); a single IFS-non-whitespace character always delimits a
// field on its own, even adjacent to another, so it may introduce empty
// fields, and it absorbs any IFS-whitespace immediately following it.
func splitByIFS(s, ifs string) []string {
	isWhitespace := func(r rune) bool { return r == ' ' || r == '\t' || r == '\n' }
	isIFSWhitespace := func(r rune) bool { return isWhitespace(r) && strings.ContainsRune(ifs, r) }
	isIFSNonWhitespace := func(r rune) bool { return !isWhitespace(r) && strings.ContainsRune(ifs, r) }

	runes := []rune(s)
	n := len(runes)
	i := 0
	for i < n && isIFSWhitespace(runes[i]) {
		i++
	}

	var fields []string
	var cur strings.Builder
	pendingEmpty := false // set when the string ends right after a non-whitespace separator
	for i < n {
		r := runes[i]
		switch {
		case isIFSWhitespace(r):
			fields = append(fields, cur.String())
			cur.Reset()
			pendingEmpty = false
			for i < n && isIFSWhitespace(runes[i]) {
				i++
			}
		case isIFSNonWhitespace(r):
			fields = append(fields, cur.String())
			cur.Reset()
			i++
			pendingEmpty = true
			for i < n && isIFSWhitespace(runes[i]) {
				i++
				pendingEmpty = false
			}
		default:
			cur.WriteRune(r)
			i++
			pendingEmpty = false
		}
	}
	if cur.Len() > 0 || pendingEmpty {
		fields = append(fields, cur.String())
	}
	return fields
}
