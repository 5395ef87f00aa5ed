package utils_test

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/dataprep-cli/internal/utils"
)

func TestSafeWriteFileOverwrites(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.txt")
	if err := utils.SafeWriteFile(p, []byte("first version, long")); err != nil {
		t.Fatalf("write 1: %v", err)
	}
	if err := utils.SafeWriteFile(p, []byte("second")); err != nil {
		t.Fatalf("write 2: %v", err)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != "second" {
		t.Fatalf("content = %q, want %q", b, "second")
	}
}

func TestSafeWriteFailureKeepsOldFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "out.txt")
	if err := utils.SafeWriteFile(p, []byte("keep")); err != nil {
		t.Fatalf("write: %v", err)
	}
	boom := errors.New("boom")
	err := utils.SafeWrite(p, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	b, _ := os.ReadFile(p)
	if string(b) != "keep" {
		t.Fatalf("content = %q, want keep", b)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %d entries", len(entries))
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := utils.ExpandHome("~/.dataprep/runs")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if want := filepath.Join(home, ".dataprep", "runs"); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	got, _ = utils.ExpandHome("out/./x")
	if got != filepath.Join("out", "x") {
		t.Fatalf("got %q", got)
	}
}
