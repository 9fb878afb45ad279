package recipe

import (
	"regexp"
	"strings"
)

// Recipe is a named, ordered collection of diagnostic collection steps.
type Recipe struct {
	Description string
	Tags        []string
	Output      string // optional directory under the report root
	Steps       []Step

	// Path names the file the recipe was loaded from. Builtin is set for
	// recipes embedded in the binary.
	Path    string
	Builtin bool
}

// HasTag reports whether the recipe carries any of the given tags.
func (r *Recipe) HasTag(tags []string) bool {
	for _, want := range tags {
		for _, have := range r.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Step is an ordered group of commands, optionally gated by platform or
// device-port availability.
type Step struct {
	Name   string
	Output string // optional directory under the recipe output
	System string // Linux, Windows or Darwin; empty runs everywhere
	Port   bool   // step requires a device serial port
	Cmds   []Command
}

// Command is one typed collection operation. The concrete type is one of
// ExecCmd, FileCmd, EnvCmd or GlobCmd.
type Command interface {
	// Name returns the command discriminant key.
	Name() string
}

// ExecCmd runs an external program and captures its output. Exactly one of
// Line (shell form) or Argv (direct form) is set.
type ExecCmd struct {
	Line    string
	Argv    []string
	Output  string
	Stderr  string
	Timeout int // seconds, 0 means no timeout
	Append  bool
}

func (ExecCmd) Name() string { return "exec" }

// CommandLine returns the command in display form.
func (c ExecCmd) CommandLine() string {
	if c.Line != "" {
		return c.Line
	}
	return strings.Join(c.Argv, " ")
}

// FileCmd copies a single file into the report tree.
type FileCmd struct {
	Path   string
	Output string
}

func (FileCmd) Name() string { return "file" }

// EnvCmd captures environment variables selected by name or by an anchored
// name regex.
type EnvCmd struct {
	Vars   []string
	Regex  *regexp.Regexp // nil when not set
	Output string
	Append bool
}

func (EnvCmd) Name() string { return "env" }

// GlobCmd copies files matching a glob pattern, optionally filtered by file
// content and reduced to the most recently modified match.
type GlobCmd struct {
	Pattern   string
	Path      string
	Regex     *regexp.Regexp // content filter, nil when not set
	Mtime     bool
	Recursive bool
	Relative  bool
	Output    string
}

func (GlobCmd) Name() string { return "glob" }
