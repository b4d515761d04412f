package interp

import (
	"bytes"
	"os"
	"testing"

	"github.com/coreshell/coreshell/env"
)

func TestDefaultReporterWritesToFd2(t *testing.T) {
	e := newTestEnv(t)
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	e.SetFileDesc(2, env.NewFileDesc(w), env.WriteOnly)

	defaultReporter(e, &fakeErr{"boom"})
	w.Close()

	var buf bytes.Buffer
	buf.ReadFrom(r)
	if got := buf.String(); got != "coreshell: boom\n" {
		t.Errorf("stderr = %q, want %q", got, "coreshell: boom\n")
	}
}

func TestReportOrDefaultFallsBackWhenNil(t *testing.T) {
	report := reportOrDefault(nil)
	if report == nil {
		t.Fatal("reportOrDefault(nil) returned nil")
	}
}

type fakeErr struct{ msg string }

func (e *fakeErr) Error() string { return e.msg }
