package engine

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"devdiag/internal/recipe"
	"devdiag/internal/report"
)

// runGlob enumerates files matching the pattern under the search root,
// optionally filters them by content and reduces to the newest match, then
// copies each survivor into the report tree without ever overwriting.
func (rc *Context) runGlob(cmd recipe.GlobCmd, step recipe.Step, rec *recipe.Recipe) {
	pattern := cmd.Pattern
	if cmd.Recursive {
		pattern = filepath.Join("**", pattern)
	}
	matches, err := doublestar.FilepathGlob(filepath.Join(cmd.Path, pattern))
	if err != nil {
		rc.Log.Errorf("cannot glob %q in %q: %v", cmd.Pattern, cmd.Path, err)
		return
	}

	var files []string
	for _, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		rc.Log.Warnf("no files matching glob %q found in %q", cmd.Pattern, cmd.Path)
		return
	}

	if cmd.Regex != nil {
		var kept []string
		for _, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				rc.Log.Errorf("failed to search for the regex %q in %q: %v", cmd.Regex, f, err)
				continue
			}
			if cmd.Regex.Match(data) {
				kept = append(kept, f)
			}
		}
		if len(kept) == 0 {
			rc.Log.Warnf("no files with content matching regex %q found in %q", cmd.Regex, cmd.Path)
			return
		}
		files = kept
	}

	if cmd.Mtime {
		latest := latestModified(files)
		if latest == "" {
			rc.Log.Warnf("no last modified file found for %q in %q", cmd.Pattern, cmd.Path)
			return
		}
		files = []string{latest}
	}

	for _, f := range files {
		srcRoot := ""
		if cmd.Relative {
			srcRoot = cmd.Path
		}
		dst := report.OutputPath(rc.Tree.StagingDir, f, cmd.Output, step, rec, srcRoot)
		if free := report.CollisionFree(dst); free != dst {
			rc.Log.Debugf("file %q for %q already exists, using %q", filepath.Base(dst), f, filepath.Base(free))
			dst = free
		}
		rc.Log.Debugf("copy %q to %q", f, dst)
		if err := report.CopyFile(f, dst); err != nil {
			rc.Log.Errorf("cannot copy glob file %q: %v", f, err)
		}
	}
}

// latestModified returns the most recently modified file; on equal times the
// later entry wins. Files that cannot be stat-ed are skipped.
func latestModified(files []string) string {
	var best string
	var bestTime time.Time
	for _, f := range files {
		fi, err := os.Stat(f)
		if err != nil {
			continue
		}
		if best != "" && fi.ModTime().Before(bestTime) {
			continue
		}
		best, bestTime = f, fi.ModTime()
	}
	return best
}
