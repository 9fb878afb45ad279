package engine

import (
	"runtime"

	"devdiag/internal/console"
	"devdiag/internal/report"
)

// Context carries the shared state threaded through the orchestrator and the
// command executors: the logger, the staging tree and the run parameters.
type Context struct {
	Log    *console.Logger
	Tree   *report.Tree
	Port   string // device serial port, empty when unavailable
	System string // Linux, Windows or Darwin
}

// NewContext builds an execution context for the current platform.
func NewContext(log *console.Logger, tree *report.Tree, port string) *Context {
	return &Context{Log: log, Tree: tree, Port: port, System: SystemName()}
}

// SystemName maps the runtime platform to the names used by step system gates.
func SystemName() string {
	switch runtime.GOOS {
	case "windows":
		return "Windows"
	case "darwin":
		return "Darwin"
	default:
		return "Linux"
	}
}
