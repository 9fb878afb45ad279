package engine

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"devdiag/internal/recipe"
	"devdiag/internal/report"
	"devdiag/internal/runner"
)

// runExec invokes the external program and writes its captured output into
// the report tree. A spawn failure, timeout or non-zero exit is a warning.
func (rc *Context) runExec(ctx context.Context, cmd recipe.ExecCmd, step recipe.Step, rec *recipe.Recipe) {
	stdoutPath := report.OutputPath(rc.Tree.StagingDir, "", cmd.Output, step, rec, "")
	stderrPath := report.OutputPath(rc.Tree.StagingDir, "", cmd.Stderr, step, rec, "")

	res, err := runner.Run(ctx, runner.Spec{
		Argv:    cmd.Argv,
		Line:    cmd.Line,
		Timeout: time.Duration(cmd.Timeout) * time.Second,
	})
	if err != nil {
		rc.Log.Warnf("exec command %q failed: %v", cmd.CommandLine(), err)
		return
	}

	if res.ExitCode != 0 {
		rc.Log.Warnf("exec command %q failed with exit code %d", cmd.CommandLine(), res.ExitCode)
		if res.Stderr != "" {
			rc.Log.Debugf("stderr: %q", res.Stderr)
		}
	}

	if cmd.Output != "" && res.Stdout != "" {
		if err := writeCapture(stdoutPath, res.Stdout, cmd.Append); err != nil {
			rc.Log.Errorf("cannot write exec command %q stdout to %q: %v", cmd.CommandLine(), cmd.Output, err)
		}
	}
	if cmd.Stderr != "" && res.Stderr != "" {
		if err := writeCapture(stderrPath, res.Stderr, cmd.Append); err != nil {
			rc.Log.Errorf("cannot write exec command %q stderr to %q: %v", cmd.CommandLine(), cmd.Stderr, err)
		}
	}
}

// writeCapture writes captured text, truncating unless appendMode is set.
func writeCapture(path, data string, appendMode bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
