package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"devdiag/internal/console"
	"devdiag/internal/engine"
	"devdiag/internal/port"
	"devdiag/internal/purge"
	"devdiag/internal/recipe"
	"devdiag/internal/redact"
	"devdiag/internal/report"
)

var (
	createPurge  string
	createForce  bool
	createOutput string
	createPort   string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a diagnostic report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCreate()
	},
}

func init() {
	createCmd.Flags().StringVarP(&createPurge, "purge", "p", "",
		"Purge file describing what to redact from the report (default: builtin rules)")
	createCmd.Flags().BoolVarP(&createForce, "force", "f", false,
		"Remove an existing report directory before creating a new one")
	createCmd.Flags().StringVarP(&createOutput, "output", "o", "",
		"Report directory path (default: diag-<uuid>)")
	createCmd.Flags().StringVar(&createPort, "port", "", "Device serial port")
	addRecipeFlags(createCmd)
	rootCmd.AddCommand(createCmd)
}

func runCreate() error {
	// The staging tree comes first so the log file can live inside it and
	// ship with the report. It is removed on every exit path.
	tree, err := report.NewTree()
	if err != nil {
		log := newLogger("")
		defer log.Close()
		return die(log, true, "cannot create staging directory: %v", err)
	}
	defer tree.Cleanup()

	log := newLogger(tree.LogPath)
	defer log.Close()

	if err := requireSDK(log); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	outputDir := createOutput
	if outputDir == "" {
		outputDir = fmt.Sprintf("diag-%s", uuid.New())
	}
	outputDir = expandUser(outputDir)
	log.Infof("Creating report in %q directory.", outputDir)

	devicePort := createPort
	if devicePort == "" {
		log.Infof("Searching for device serial port ...")
		devicePort = port.Detect(log)
	}
	if devicePort == "" {
		log.Infof("Serial port: N/A")
		log.Warnf("The device serial port is unavailable. Target information will not be gathered.")
	} else {
		log.Infof("Serial port: %s", devicePort)
	}

	if fi, err := os.Stat(outputDir); err == nil {
		if !fi.IsDir() {
			return die(log, true,
				"directory entry %q already exists and is not a directory. Please select a directory that does not exist or remove %q manually.",
				outputDir, outputDir)
		}
		if !createForce {
			return die(log, true,
				`report directory %q already exists. Please select a directory that does not exist or use the "-f/--force" option to delete it.`,
				outputDir)
		}
		log.Debugf("removing existing report %q directory", outputDir)
		if err := os.RemoveAll(outputDir); err != nil {
			return die(log, true, "cannot remove existing %q directory: %v", outputDir, err)
		}
	}

	if _, err := os.Stat(filepath.Join(buildDir(), "compile_commands.json")); err != nil {
		log.Warnf("Directory %q does not seem to be a project build directory.", buildDir())
		log.Hintf(`You can use the "--build-dir" option to set it.`)
	}

	sources, err := recipe.ResolveSources(flagRecipes, flagAppend)
	if err != nil {
		return die(log, true, "unable to create list of recipe files: %v", err)
	}

	vars := templateVars(tree.StagingDir, devicePort)
	log.Debugf("recipe variables: %v", vars)
	log.Debugf("project directory: %s", projectDir())
	log.Debugf("build directory: %s", buildDir())
	log.Debugf("system: %s", engine.SystemName())

	var recipes []*recipe.Recipe
	for _, src := range sources {
		log.Debugf("loading recipe file %q", src.Path)
		rec, err := src.Load(vars)
		if err != nil {
			return die(log, true, "file %q is not a valid diagnostic recipe: %v", src.Path, err)
		}
		recipes = append(recipes, rec)
	}
	if len(flagTags) > 0 {
		log.Debugf("filtering recipes with tags %q", strings.Join(flagTags, ", "))
		tagged := recipes[:0]
		for _, rec := range recipes {
			if rec.HasTag(flagTags) {
				tagged = append(tagged, rec)
			}
		}
		recipes = tagged
	}
	if len(recipes) == 0 {
		return die(log, true, "no recipes available")
	}

	entries, err := loadPurge(log)
	if err != nil {
		return err
	}

	rc := engine.NewContext(log, tree, devicePort)
	for _, rec := range recipes {
		log.Debugf("processing recipe %q file %q", rec.Description, rec.Path)
		log.Printf("%s", rec.Description)
		if err := engine.Execute(ctx, rc, rec); err != nil {
			return die(log, false, "process interrupted by user")
		}
	}
	log.Debugf("report is done")

	if err := report.CopyFile(tree.LogPath, filepath.Join(tree.StagingDir, "diag.log")); err != nil {
		log.Errorf("cannot copy the log file to the report directory: %v", err)
	}

	if err := redact.Redact(tree.StagingDir, tree.RedactedDir, entries, log); err != nil {
		log.Errorf("the redaction was unsuccessful: %v", err)
	}

	if ctx.Err() != nil {
		return die(log, false, "process interrupted by user")
	}

	if err := tree.Relocate(outputDir); err != nil {
		return die(log, true, "cannot move diagnostic report directory from %q to %q: %v",
			tree.RedactedDir, outputDir, err)
	}

	log.Infof("The report has been created in the %q directory.", outputDir)
	log.Hintf("Please make sure to thoroughly check the report for any sensitive information "+
		"before sharing and remove files you do not want to share. Kindly include any additional "+
		"files you find relevant that were not automatically added. To archive the final report "+
		"directory run:\n\"devdiag zip %s\".", outputDir)
	return nil
}

func loadPurge(log *console.Logger) ([]purge.Entry, error) {
	if createPurge == "" {
		entries, err := purge.Builtin()
		if err != nil {
			return nil, die(log, true, "builtin purge rules are not valid: %v", err)
		}
		return entries, nil
	}
	log.Debugf("purge file: %s", createPurge)
	entries, err := purge.Load(expandUser(createPurge))
	if err != nil {
		return nil, die(log, true, "file %q is not a valid purge file: %v", createPurge, err)
	}
	return entries, nil
}
