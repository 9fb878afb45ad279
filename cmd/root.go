package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagDebug     bool
	flagNoColor   bool
	flagLogPrefix bool
	flagNoHints   bool
)

var rootCmd = &cobra.Command{
	Use:   "devdiag",
	Short: "Diagnostic report collector for development environments",
	Long: "devdiag gathers project, build and device diagnostics described by " +
		"recipes into a redacted, shareable report.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&flagDebug, "debug", "d", false, "Print debug information")
	pf.BoolVar(&flagNoColor, "no-color", false, "Do not emit ANSI color codes")
	pf.BoolVar(&flagLogPrefix, "log-prefix", false, "Add a severity character at the beginning of log messages")
	pf.BoolVar(&flagNoHints, "no-hints", false, "Disable hint messages")
}

// exitError carries the process exit code chosen by a subcommand. Returning
// it instead of calling os.Exit lets deferred cleanup run first.
type exitError struct{ code int }

func (e exitError) Error() string { return fmt.Sprintf("exit code %d", e.code) }

// Execute runs the root command and terminates the process on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
