// Package console provides the leveled logger used across the diagnostic
// pipeline. Messages go to stderr with severity colors, while the stdout and
// hint channels carry user-facing report output. Every message is also
// mirrored, uncolored and severity-prefixed, into a log file that ships as
// part of the report.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level is a stderr log severity. Lower values are more severe.
type Level int

const (
	LevelFatal Level = iota + 1
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
)

// Options configures a Logger.
type Options struct {
	Debug   bool   // raise the stderr level to debug
	NoColor bool   // disable ANSI styling
	Prefix  bool   // prepend the severity character to console lines
	NoHints bool   // silence the hint channel
	LogPath string // mirror file path; empty disables the file sink
	Stderr  io.Writer
	Stdout  io.Writer
}

// Logger writes leveled messages to the console and to an optional log file.
type Logger struct {
	mu     sync.Mutex
	level  Level
	prefix bool
	hints  bool
	stderr io.Writer
	stdout io.Writer
	file   *os.File
	styles map[string]lipgloss.Style
}

// New creates a Logger. Opening the log file is best-effort: on failure the
// file sink is disabled and an error is reported on stderr.
func New(opts Options) *Logger {
	l := &Logger{
		level:  LevelInfo,
		prefix: opts.Prefix,
		hints:  !opts.NoHints,
		stderr: opts.Stderr,
		stdout: opts.Stdout,
	}
	if opts.Debug {
		l.level = LevelDebug
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}
	if l.stdout == nil {
		l.stdout = os.Stdout
	}

	l.styles = map[string]lipgloss.Style{
		"F": lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"E": lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		"W": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"I": lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		"D": lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		"H": lipgloss.NewStyle().Foreground(lipgloss.Color("172")),
		"O": lipgloss.NewStyle(),
	}
	if opts.NoColor {
		for k := range l.styles {
			l.styles[k] = lipgloss.NewStyle()
		}
	}

	if opts.LogPath != "" {
		f, err := os.Create(opts.LogPath)
		if err != nil {
			fmt.Fprintf(l.stderr, "error: cannot open log file %q, logging to file is turned off\n", opts.LogPath)
		} else {
			l.file = f
		}
	}
	return l
}

// Close flushes and closes the log file sink.
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.file.Close()
		l.file = nil
	}
}

func (l *Logger) log(level Level, prefix, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		if _, err := l.file.WriteString(indent(msg, prefix+" ") + "\n"); err != nil {
			l.file.Close()
			l.file = nil
			fmt.Fprintln(l.stderr, "error: cannot write to log file, logging to file is turned off")
		}
	}

	out := msg
	if l.prefix {
		out = indent(msg, prefix+" ")
	}
	out = l.styles[prefix].Render(out)

	if prefix == "O" || prefix == "H" {
		fmt.Fprintln(l.stdout, out)
		return
	}
	if level <= l.level {
		fmt.Fprintln(l.stderr, out)
	}
}

// Fatalf reports an irrecoverable error.
func (l *Logger) Fatalf(format string, args ...any) {
	l.log(LevelFatal, "F", "fatal: "+fmt.Sprintf(format, args...))
}

// Errorf reports an operational error; execution continues.
func (l *Logger) Errorf(format string, args ...any) {
	l.log(LevelError, "E", "error: "+fmt.Sprintf(format, args...))
}

// Warnf reports a recoverable problem.
func (l *Logger) Warnf(format string, args ...any) {
	l.log(LevelWarning, "W", "warning: "+fmt.Sprintf(format, args...))
}

// Infof reports progress information.
func (l *Logger) Infof(format string, args ...any) {
	l.log(LevelInfo, "I", fmt.Sprintf(format, args...))
}

// Debugf reports diagnostic detail shown only with --debug.
func (l *Logger) Debugf(format string, args ...any) {
	l.log(LevelDebug, "D", fmt.Sprintf(format, args...))
}

// Printf writes user-facing output to stdout.
func (l *Logger) Printf(format string, args ...any) {
	l.log(LevelInfo, "O", fmt.Sprintf(format, args...))
}

// Hintf writes a suggestion to stdout unless hints are disabled.
func (l *Logger) Hintf(format string, args ...any) {
	if !l.hints {
		return
	}
	l.log(LevelInfo, "H", fmt.Sprintf(format, args...))
}

// Debugging reports whether the stderr level is set to debug.
func (l *Logger) Debugging() bool {
	return l.level >= LevelDebug
}

func indent(msg, prefix string) string {
	lines := strings.Split(msg, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
