package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"devdiag/internal/recipe"
)

// OutputPath composes the destination path for a collected file.
//
// The base is root plus the recipe and step output directories, when set.
// A dst ending with a path separator is a directory: the src file name is
// appended to it, or, when srcRoot is given, src relocated relative to
// srcRoot so the source layout is preserved. A dst without a trailing
// separator is the literal destination file. With no dst, the src file name
// lands directly in the base; with neither, the base itself is returned.
func OutputPath(root, src, dst string, step recipe.Step, rec *recipe.Recipe, srcRoot string) string {
	path := root
	if rec != nil && rec.Output != "" {
		path = filepath.Join(path, rec.Output)
	}
	if step.Output != "" {
		path = filepath.Join(path, step.Output)
	}

	switch {
	case dst != "":
		path = filepath.Join(path, dst)
		if endsWithSeparator(dst) && src != "" {
			if srcRoot != "" {
				if rel, err := filepath.Rel(srcRoot, src); err == nil {
					return filepath.Join(path, rel)
				}
			}
			path = filepath.Join(path, filepath.Base(src))
		}
	case src != "":
		path = filepath.Join(path, filepath.Base(src))
	}
	return path
}

// CollisionFree returns path unchanged if nothing exists there, otherwise the
// first free name formed by appending an incrementing numeric suffix. Existing
// files are never overwritten.
func CollisionFree(path string) string {
	if _, err := os.Lstat(path); err != nil {
		return path
	}
	for cnt := 1; ; cnt++ {
		candidate := fmt.Sprintf("%s.%d", path, cnt)
		if _, err := os.Lstat(candidate); err != nil {
			return candidate
		}
	}
}

func endsWithSeparator(path string) bool {
	return strings.HasSuffix(path, "/") || strings.HasSuffix(path, string(os.PathSeparator))
}
