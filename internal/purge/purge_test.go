package purge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinEntriesAreValid(t *testing.T) {
	entries, err := Builtin()
	if err != nil {
		t.Fatalf("builtin purge rules do not validate: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("expected builtin purge entries")
	}
}

func TestParseKeepsOrder(t *testing.T) {
	yml := `
- regex: 'alpha'
  repl: 'A'
- regex: 'beta'
  repl: 'B'
`
	entries, err := Parse([]byte(yml))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Repl != "A" || entries[1].Repl != "B" {
		t.Errorf("entries out of order: %+v", entries)
	}
	if !entries[0].Regex.MatchString("xx alpha yy") {
		t.Error("pattern does not match")
	}
}

func TestParseRejectsNonList(t *testing.T) {
	if _, err := Parse([]byte("regex: x\nrepl: y\n")); err == nil {
		t.Fatal("expected error for non-list purge")
	}
}

func TestParseRejectsUnknownKey(t *testing.T) {
	yml := `
- regex: 'x'
  repl: 'y'
  mode: all
`
	if _, err := Parse([]byte(yml)); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestParseRejectsEntryWithoutRegex(t *testing.T) {
	if _, err := Parse([]byte("- repl: 'y'\n")); err == nil {
		t.Fatal("expected error for entry without regex")
	}
}

func TestParseRejectsMissingRepl(t *testing.T) {
	if _, err := Parse([]byte("- regex: 'x'\n")); err == nil {
		t.Fatal("expected error for missing repl")
	}
	if _, err := Parse([]byte("- regex: 'x'\n  repl: ''\n")); err == nil {
		t.Fatal("expected error for empty repl")
	}
}

func TestParseRejectsInvalidRegex(t *testing.T) {
	if _, err := Parse([]byte("- regex: '['\n  repl: 'y'\n")); err == nil {
		t.Fatal("expected error for invalid regex")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "purge.yml")
	yml := "- regex: 'secret=\\S+'\n  repl: 'secret=<redacted>'\n"
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	entries, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := entries[0].Regex.ReplaceAllString("secret=hunter2 rest", entries[0].Repl)
	if got != "secret=<redacted> rest" {
		t.Errorf("unexpected replacement %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/no/such/purge.yml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}
