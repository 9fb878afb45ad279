package recipe

import (
	"strings"
	"testing"
)

const fullRecipe = `
description: Project diagnostics
tags: [project, base]
output: project
steps:
  - name: Build logs
    output: build
    cmds:
      - exec: null
        cmd: cmake --version
        output: cmake_version.txt
        timeout: 10
      - exec: null
        cmd: [git, log, "-1"]
        output: git.txt
        stderr: git_err.txt
        append: true
      - file: null
        path: /work/app/sdkconfig
      - env: null
        vars: [PATH, HOME]
        regex: SDK_
        output: env.txt
      - glob: null
        pattern: "*.log"
        path: /work/app/build
        recursive: true
        relative: true
        regex: "^error"
        output: logs/
  - name: Windows only
    system: Windows
    port: true
    cmds:
      - exec: null
        cmd: ver
`

func TestParseFullRecipe(t *testing.T) {
	rec, err := Parse([]byte(fullRecipe))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Description != "Project diagnostics" {
		t.Errorf("unexpected description %q", rec.Description)
	}
	if len(rec.Tags) != 2 || rec.Tags[0] != "project" {
		t.Errorf("unexpected tags %v", rec.Tags)
	}
	if rec.Output != "project" {
		t.Errorf("unexpected output %q", rec.Output)
	}
	if len(rec.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(rec.Steps))
	}

	step := rec.Steps[0]
	if step.Name != "Build logs" || step.Output != "build" {
		t.Errorf("unexpected step %+v", step)
	}
	if len(step.Cmds) != 5 {
		t.Fatalf("expected 5 commands, got %d", len(step.Cmds))
	}

	ex, ok := step.Cmds[0].(ExecCmd)
	if !ok {
		t.Fatalf("expected ExecCmd, got %T", step.Cmds[0])
	}
	if ex.Line != "cmake --version" || ex.Timeout != 10 || ex.Append {
		t.Errorf("unexpected exec %+v", ex)
	}

	ex2 := step.Cmds[1].(ExecCmd)
	if len(ex2.Argv) != 3 || ex2.Argv[0] != "git" || !ex2.Append || ex2.Stderr != "git_err.txt" {
		t.Errorf("unexpected exec %+v", ex2)
	}
	if ex2.CommandLine() != "git log -1" {
		t.Errorf("unexpected command line %q", ex2.CommandLine())
	}

	fl := step.Cmds[2].(FileCmd)
	if fl.Path != "/work/app/sdkconfig" || fl.Output != "" {
		t.Errorf("unexpected file %+v", fl)
	}

	env := step.Cmds[3].(EnvCmd)
	if len(env.Vars) != 2 || env.Regex == nil || env.Output != "env.txt" {
		t.Errorf("unexpected env %+v", env)
	}

	gl := step.Cmds[4].(GlobCmd)
	if gl.Pattern != "*.log" || !gl.Recursive || !gl.Relative || gl.Output != "logs/" {
		t.Errorf("unexpected glob %+v", gl)
	}

	gated := rec.Steps[1]
	if gated.System != "Windows" || !gated.Port {
		t.Errorf("unexpected gates %+v", gated)
	}
}

func TestParseGlobRegexIsMultiline(t *testing.T) {
	rec, err := Parse([]byte(fullRecipe))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	gl := rec.Steps[0].Cmds[4].(GlobCmd)
	if !gl.Regex.MatchString("ok\nerror: boom\n") {
		t.Error("glob content regex must anchor to line starts")
	}
}

func TestParseRejectsNonMapping(t *testing.T) {
	if _, err := Parse([]byte("- a\n- b\n")); err == nil {
		t.Fatal("expected error for non-mapping recipe")
	}
}

func TestParseRejectsInvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("description: [unterminated\n")); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func errorFromParse(t *testing.T, yml string) string {
	t.Helper()
	_, err := Parse([]byte(yml))
	if err == nil {
		t.Fatal("expected validation error")
	}
	return err.Error()
}

func TestParseRejectsMissingDescription(t *testing.T) {
	msg := errorFromParse(t, `
steps:
  - name: s
    cmds:
      - exec: null
        cmd: echo ok
`)
	if !strings.Contains(msg, `missing "description"`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsUnknownRecipeKey(t *testing.T) {
	msg := errorFromParse(t, `
description: d
bogus: 1
steps:
  - name: s
    cmds:
      - exec: null
        cmd: echo ok
`)
	if !strings.Contains(msg, `unknown recipe key "bogus"`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsMissingSteps(t *testing.T) {
	msg := errorFromParse(t, "description: d\n")
	if !strings.Contains(msg, `missing "steps"`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsUnknownStepKey(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
    when: always
    cmds:
      - exec: null
        cmd: echo ok
`)
	if !strings.Contains(msg, `unknown recipe step key "when"`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsStepWithoutName(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - cmds:
      - exec: null
        cmd: echo ok
`)
	if !strings.Contains(msg, `missing "name"`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsUnknownSystem(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
    system: BeOS
    cmds:
      - exec: null
        cmd: echo ok
`)
	if !strings.Contains(msg, `unknown "system" key value "BeOS"`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsNonBoolPort(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
    port: yes please
    cmds:
      - exec: null
        cmd: echo ok
`)
	if !strings.Contains(msg, `"port" key is not a bool`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsStepWithoutCmds(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
`)
	if !strings.Contains(msg, `missing "cmds"`) {
		t.Errorf("unexpected message %q", msg)
	}
	if !strings.Contains(msg, `step "s"`) {
		t.Errorf("step name must be part of the message, got %q", msg)
	}
}

func TestParseRejectsUnknownCommand(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
    cmds:
      - fetch: null
        url: http://x
`)
	if !strings.Contains(msg, "unknown command with keys [fetch url]") {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsExecWithoutCmd(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
    cmds:
      - exec: null
        output: out.txt
`)
	if !strings.Contains(msg, `command "exec"`) || !strings.Contains(msg, `missing "cmd"`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsExecUnknownArgument(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
    cmds:
      - exec: null
        cmd: echo ok
        shell: bash
`)
	if !strings.Contains(msg, `unknown argument "shell"`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsExecNonPositiveTimeout(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
    cmds:
      - exec: null
        cmd: echo ok
        timeout: -1
`)
	if !strings.Contains(msg, `"timeout" must be a positive integer`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsExecNonStringArgvEntry(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
    cmds:
      - exec: null
        cmd: [git, 42]
`)
	if !strings.Contains(msg, `list entry 42 in "cmd" argument is not a string`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsFileWithoutPath(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
    cmds:
      - file: null
        output: copy.txt
`)
	if !strings.Contains(msg, `command "file"`) || !strings.Contains(msg, `missing "path"`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsEnvWithoutSelector(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
    cmds:
      - env: null
        output: env.txt
`)
	if !strings.Contains(msg, `missing both "vars" and "regex"`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsGlobWithoutPath(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
    cmds:
      - glob: null
        pattern: "*.log"
`)
	if !strings.Contains(msg, `command "glob"`) || !strings.Contains(msg, `missing "path"`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestParseRejectsInvalidRegex(t *testing.T) {
	msg := errorFromParse(t, `
description: d
steps:
  - name: s
    cmds:
      - env: null
        regex: "["
`)
	if !strings.Contains(msg, `"regex" is not a valid regular expression`) {
		t.Errorf("unexpected message %q", msg)
	}
}

func TestHasTag(t *testing.T) {
	rec := &Recipe{Tags: []string{"project", "base"}}
	if !rec.HasTag([]string{"base"}) {
		t.Error("expected tag match")
	}
	if !rec.HasTag([]string{"missing", "project"}) {
		t.Error("expected match on any requested tag")
	}
	if rec.HasTag([]string{"target"}) {
		t.Error("unexpected tag match")
	}
	if rec.HasTag(nil) {
		t.Error("empty filter must not match")
	}
}
