package redact

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"devdiag/internal/console"
)

// DiffTrees emits a unified diff between every mirrored file pair at debug
// level so redactions can be audited. Diff failures never abort processing.
func DiffTrees(srcRoot, dstRoot string, log *console.Logger) {
	if !log.Debugging() {
		return
	}
	log.Debugf("diff %q to %q", srcRoot, dstRoot)
	filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return nil
		}

		a, aerr := os.ReadFile(path)
		b, berr := os.ReadFile(filepath.Join(dstRoot, rel))
		if aerr != nil || berr != nil {
			log.Debugf("cannot diff %q: %v %v", rel, aerr, berr)
			return nil
		}

		text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(a)),
			B:        difflib.SplitLines(string(b)),
			FromFile: filepath.Join(filepath.Base(srcRoot), rel),
			ToFile:   filepath.Join(filepath.Base(dstRoot), rel),
			Context:  0,
		})
		if err != nil {
			log.Debugf("diff failed for %q: %v", rel, err)
			return nil
		}
		for _, line := range strings.Split(text, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				log.Debugf("%s", line)
			}
		}
		return nil
	})
}
