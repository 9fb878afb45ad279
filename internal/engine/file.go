package engine

import (
	"errors"
	"io/fs"

	"devdiag/internal/recipe"
	"devdiag/internal/report"
)

// runFile copies a single file into the report tree. A missing source is a
// warning; any other copy failure is an error. Neither stops the run.
func (rc *Context) runFile(cmd recipe.FileCmd, step recipe.Step, rec *recipe.Recipe) {
	dst := report.OutputPath(rc.Tree.StagingDir, cmd.Path, cmd.Output, step, rec, "")

	err := report.CopyFile(cmd.Path, dst)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist):
		rc.Log.Warnf("file %q does not exist", cmd.Path)
	default:
		rc.Log.Errorf("cannot copy file %q: %v", cmd.Path, err)
	}
}
