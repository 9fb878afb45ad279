// Package engine executes validated recipes step by step, dispatching each
// command to its executor. Individual command failures are logged and never
// abort the run.
package engine

import (
	"context"

	"devdiag/internal/recipe"
)

// Execute runs every step of the recipe in declaration order. Steps gated on
// another platform or on a missing device port are skipped with a debug note.
// The only error returned is context cancellation.
func Execute(ctx context.Context, rc *Context, rec *recipe.Recipe) error {
	for _, step := range rec.Steps {
		if step.System != "" && step.System != rc.System {
			rc.Log.Debugf("skipping step %q for %q", step.Name, step.System)
			continue
		}
		if step.Port && rc.Port == "" {
			rc.Log.Debugf("skipping step %q, requires device serial port", step.Name)
			continue
		}

		rc.Log.Debugf("processing step %q", step.Name)
		rc.Log.Printf("* %s", step.Name)
		for _, cmd := range step.Cmds {
			if err := ctx.Err(); err != nil {
				return err
			}
			rc.Log.Debugf("cmd: %s %+v", cmd.Name(), cmd)
			switch c := cmd.(type) {
			case recipe.ExecCmd:
				rc.runExec(ctx, c, step, rec)
			case recipe.FileCmd:
				rc.runFile(c, step, rec)
			case recipe.EnvCmd:
				rc.runEnv(c, step, rec)
			case recipe.GlobCmd:
				rc.runGlob(c, step, rec)
			default:
				rc.Log.Errorf("unknown command %q in step %q", cmd.Name(), step.Name)
			}
		}
	}
	return nil
}
