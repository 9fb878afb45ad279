// Package runner invokes external processes for the exec command.
package runner

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"time"
)

// Result holds the captured output of a finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Spec describes one invocation. Exactly one of Argv (direct execution, no
// shell interpretation) or Line (run through the system shell) is set. A zero
// Timeout means no limit.
type Spec struct {
	Argv    []string
	Line    string
	Timeout time.Duration
}

// Run executes the process and captures stdout and stderr as text. A non-zero
// exit status is reported through Result, not as an error; a spawn failure or
// an expired timeout is returned as an error with no Result.
func Run(ctx context.Context, spec Spec) (*Result, error) {
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	var cmd *exec.Cmd
	if len(spec.Argv) > 0 {
		cmd = exec.CommandContext(ctx, spec.Argv[0], spec.Argv[1:]...)
	} else {
		shell, flag := systemShell()
		cmd = exec.CommandContext(ctx, shell, flag, spec.Line)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, err
		}
		return &Result{Stdout: stdout.String(), Stderr: stderr.String(), ExitCode: exitErr.ExitCode()}, nil
	}
	return &Result{Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

func systemShell() (shell, flag string) {
	if runtime.GOOS == "windows" {
		return "cmd", "/c"
	}
	return "sh", "-c"
}
