package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"devdiag/internal/console"
)

func quietLogger() *console.Logger {
	return console.New(console.Options{NoColor: true, Stderr: io.Discard, Stdout: io.Discard})
}

func TestZipPacksDirectory(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "diag-report")
	if err := os.MkdirAll(filepath.Join(dir, "project"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "diag.log"), []byte("log line\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "project", "out.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "diag-report.zip")
	if err := Zip(dir, out, quietLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := zip.OpenReader(out)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()

	names := map[string]bool{}
	for _, f := range r.File {
		names[f.Name] = true
	}
	for _, want := range []string{"diag-report/diag.log", "diag-report/project/", "diag-report/project/out.txt"} {
		if !names[want] {
			t.Errorf("archive missing entry %q, have %v", want, names)
		}
	}

	for _, f := range r.File {
		if f.Name != "diag-report/project/out.txt" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		if string(data) != "hello" {
			t.Errorf("unexpected content %q", data)
		}
	}
}

func TestZipMissingDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.zip")
	if err := Zip("/no/such/dir", out, quietLogger()); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
