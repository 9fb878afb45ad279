// Package redact mirrors the staging tree into a copy with sensitive
// substrings replaced according to the ordered purge entries.
package redact

import (
	"io/fs"
	"os"
	"path/filepath"

	"devdiag/internal/console"
	"devdiag/internal/purge"
)

// Redact walks every regular file under srcRoot, applies the purge entries in
// order to the full text (each substitution is global and operates on the
// accumulated result of earlier entries) and writes the result to the
// mirrored relative path under dstRoot. The source tree is never modified.
// Per-file failures are logged and do not stop the walk. A unified diff of
// each mirrored pair is emitted at debug level afterwards.
func Redact(srcRoot, dstRoot string, entries []purge.Entry, log *console.Logger) error {
	log.Debugf("redacting files in %q into %q", srcRoot, dstRoot)
	if err := os.MkdirAll(dstRoot, 0o755); err != nil {
		return err
	}
	err := filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Errorf("cannot walk %q: %v", path, err)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			log.Errorf("cannot resolve %q: %v", path, err)
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			log.Errorf("cannot read %q for redaction: %v", path, err)
			return nil
		}
		text := string(data)
		for _, e := range entries {
			// An empty pattern matches between every character; it shows up
			// when the USERNAME variable resolves to nothing.
			if e.Regex.String() == "" {
				continue
			}
			text = e.Regex.ReplaceAllString(text, e.Repl)
		}

		dst := filepath.Join(dstRoot, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			log.Errorf("cannot create %q: %v", filepath.Dir(dst), err)
			return nil
		}
		if err := os.WriteFile(dst, []byte(text), 0o644); err != nil {
			log.Errorf("cannot write redacted file %q: %v", dst, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	DiffTrees(srcRoot, dstRoot, log)
	return nil
}
