package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"devdiag/internal/console"
)

var (
	flagRecipes    []string
	flagTags       []string
	flagAppend     bool
	flagProjectDir string
	flagBuildDir   string
)

func addRecipeFlags(c *cobra.Command) {
	c.Flags().StringArrayVarP(&flagRecipes, "recipe", "r", nil,
		"Recipe to use, a file path or a builtin short name; can be given multiple times")
	c.Flags().StringArrayVarP(&flagTags, "tag", "t", nil,
		"Consider only recipes containing the tag; can be given multiple times")
	c.Flags().BoolVarP(&flagAppend, "append", "a", false,
		"Use recipes given with -r/--recipe in combination with the builtin recipes")
	c.Flags().StringVarP(&flagProjectDir, "project-dir", "P", "", "Project directory (default: current directory)")
	c.Flags().StringVarP(&flagBuildDir, "build-dir", "B", "", "Build directory (default: ./build)")
}

func newLogger(logPath string) *console.Logger {
	return console.New(console.Options{
		Debug:   flagDebug,
		NoColor: flagNoColor,
		Prefix:  flagLogPrefix,
		NoHints: flagNoHints,
		LogPath: logPath,
	})
}

// die logs a fatal error and returns the exit sentinel for code 128.
func die(log *console.Logger, showHint bool, format string, args ...any) error {
	log.Fatalf(format, args...)
	log.Fatalf("devdiag command failed.")
	if showHint && !log.Debugging() {
		log.Hintf(`Using the "-d/--debug" option may provide more information.`)
	}
	return exitError{code: 128}
}

// requireSDK refuses to run outside an activated SDK environment.
func requireSDK(log *console.Logger) error {
	if os.Getenv("SDK_PATH") == "" {
		return die(log, false,
			"SDK_PATH is not set. This command must be initiated from within an activated SDK environment.")
	}
	return nil
}

// templateVars builds the substitution variables available to recipes.
func templateVars(reportDir, devicePort string) map[string]string {
	vars := map[string]string{
		"PROJECT_DIR": projectDir(),
		"BUILD_DIR":   buildDir(),
		"SDK_PATH":    os.Getenv("SDK_PATH"),
		"REPORT_DIR":  reportDir,
	}
	if devicePort != "" {
		vars["PORT"] = devicePort
	}
	return vars
}

func projectDir() string {
	if flagProjectDir != "" {
		return expandUser(flagProjectDir)
	}
	wd, _ := os.Getwd()
	return wd
}

func buildDir() string {
	if flagBuildDir != "" {
		return expandUser(flagBuildDir)
	}
	wd, _ := os.Getwd()
	return filepath.Join(wd, "build")
}

func expandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

func hasAnyTag(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
