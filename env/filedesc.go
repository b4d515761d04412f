package env

import (
	"io"
	"os"
	"sync/atomic"
)

// FileDesc is an owned OS file primitive: read/write/seek, shareable via
// reference counting (spec §3 "FileDesc. An owned OS file primitive...
// Each handle is shared via reference counting when placed into the
// environment."). The zero value is not usable; build one with NewFileDesc
// or Pipe.
type FileDesc struct {
	f      *os.File
	refs   *int32
	closed *int32
}

// NewFileDesc wraps an *os.File as a fresh, singly-referenced FileDesc.
func NewFileDesc(f *os.File) FileDesc {
	refs := int32(1)
	closed := int32(0)
	return FileDesc{f: f, refs: &refs, closed: &closed}
}

// Valid reports whether h wraps a real file.
func (h FileDesc) Valid() bool { return h.f != nil }

func (h FileDesc) Read(p []byte) (int, error)  { return h.f.Read(p) }
func (h FileDesc) Write(p []byte) (int, error) { return h.f.Write(p) }
func (h FileDesc) Seek(offset int64, whence int) (int64, error) {
	return h.f.Seek(offset, whence)
}

// File exposes the underlying *os.File for OS-level plumbing (dup2'ing
// into a child's stdio, Fd() for syscalls); spec §3 notes fd handling is
// otherwise external OS-primitive territory.
func (h FileDesc) File() *os.File { return h.f }

// Dup increments the reference count and returns a handle that shares the
// same underlying OS file descriptor. This is how redirects duplicate fds
// (spec §4.5 DupRead/DupWrite) without actually calling dup(2): both
// handles point at the same *os.File, and the last Close wins.
func (h FileDesc) Dup() FileDesc {
	if h.refs != nil {
		atomic.AddInt32(h.refs, 1)
	}
	return h
}

// Close decrements the reference count; the OS handle is closed only once
// the last reference drops, mirroring spec §5's "File handles are
// reference-counted; the last dropper closes the OS handle."
func (h FileDesc) Close() error {
	if h.refs == nil {
		return nil
	}
	if atomic.AddInt32(h.refs, -1) > 0 {
		return nil
	}
	if atomic.SwapInt32(h.closed, 1) != 0 {
		return nil
	}
	return h.f.Close()
}

var _ io.ReadWriteCloser = FileDesc{}
var _ io.Seeker = FileDesc{}

// Pipe creates a connected reader/writer FileDesc pair.
func Pipe() (r, w FileDesc, err error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return FileDesc{}, FileDesc{}, err
	}
	return NewFileDesc(pr), NewFileDesc(pw), nil
}
