package engine

import (
	"os"
	"regexp"
	"slices"
	"strings"

	"devdiag/internal/recipe"
	"devdiag/internal/report"
)

// runEnv captures environment variables selected by name or by a name regex
// anchored at the start. Each variable is reported at most once.
func (rc *Context) runEnv(cmd recipe.EnvCmd, step recipe.Step, rec *recipe.Recipe) {
	outputPath := report.OutputPath(rc.Tree.StagingDir, "", cmd.Output, step, rec, "")

	seen := map[string]bool{}
	var lines []string
	for _, kv := range os.Environ() {
		name, val, ok := strings.Cut(kv, "=")
		if !ok || seen[name] {
			continue
		}
		if slices.Contains(cmd.Vars, name) || matchesStart(cmd.Regex, name) {
			seen[name] = true
			lines = append(lines, name+"="+val)
		}
	}

	if cmd.Output == "" {
		return
	}
	if err := writeCapture(outputPath, strings.Join(lines, "\n"), cmd.Append); err != nil {
		rc.Log.Errorf("cannot write env command output to %q: %v", cmd.Output, err)
	}
}

// matchesStart reports whether re matches s starting at the first character.
func matchesStart(re *regexp.Regexp, s string) bool {
	if re == nil {
		return false
	}
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0
}
