package loader_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/dataprep-cli/internal/loader"
)

func TestLoadUnsupportedExtension(t *testing.T) {
	for _, name := range []string{"notes.txt", "data.json", "README", "sheet.xls"} {
		tb, err := loader.Load(strings.NewReader("a,b\n1,2\n"), name, loader.Options{})
		if tb != nil {
			t.Fatalf("%s: expected no table, got %+v", name, tb)
		}
		if !errors.Is(err, loader.ErrUnsupportedFormat) {
			t.Fatalf("%s: expected ErrUnsupportedFormat, got %v", name, err)
		}
		var ue *loader.UnsupportedFormatError
		if !errors.As(err, &ue) {
			t.Fatalf("%s: expected *UnsupportedFormatError, got %T", name, err)
		}
	}
}

func TestLoadExtensionIsCaseInsensitive(t *testing.T) {
	tb, err := loader.Load(strings.NewReader("a\n1\n"), "DATA.CSV", loader.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tb.NumRows() != 1 {
		t.Fatalf("rows = %d, want 1", tb.NumRows())
	}
}

func TestLoadFileMissingPath(t *testing.T) {
	_, err := loader.LoadFile(filepath.Join(t.TempDir(), "nope.csv"), loader.Options{})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
	if errors.Is(err, loader.ErrParse) || errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Fatalf("missing file should not be classified as format error: %v", err)
	}
}

func TestLoadFileUnsupportedSkipsIO(t *testing.T) {
	// The file does not exist: the extension check must fire first.
	_, err := loader.LoadFile(filepath.Join(t.TempDir(), "nope.txt"), loader.Options{})
	if !errors.Is(err, loader.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestLoadFileCSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "hop_harvest.csv")
	content := "date,plot,alpha_acids,moisture\n" +
		"2024-08-10,A1,12.5,74\n" +
		"2024-08-12,A1,11.8,\n" +
		"2024-08-15,B3,10.2,68\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tb, err := loader.LoadFile(p, loader.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tb.Name != "hop_harvest.csv" {
		t.Fatalf("name = %q", tb.Name)
	}
	if tb.NumRows() != 3 || tb.NumCols() != 4 {
		t.Fatalf("shape = %dx%d, want 3x4", tb.NumRows(), tb.NumCols())
	}
	info := tb.Describe()
	if info[2].Type != "numeric" || info[1].Type != "text" {
		t.Fatalf("unexpected types: %+v", info)
	}
	if info[3].Missing != 1 {
		t.Fatalf("moisture missing = %d, want 1", info[3].Missing)
	}
}
