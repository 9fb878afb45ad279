package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"devdiag/internal/archive"
)

var (
	zipForce  bool
	zipOutput string
)

var zipCmd = &cobra.Command{
	Use:   "zip <directory>",
	Short: "Create a zip archive for a diagnostic report directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runZip(args[0])
	},
}

func init() {
	zipCmd.Flags().BoolVarP(&zipForce, "force", "f", false,
		"Delete an existing zip archive before creating a new one")
	zipCmd.Flags().StringVarP(&zipOutput, "output", "o", "",
		"Zip archive path (default: the report directory with a .zip extension)")
	rootCmd.AddCommand(zipCmd)
}

func runZip(dir string) error {
	log := newLogger("")
	defer log.Close()

	if err := requireSDK(log); err != nil {
		return err
	}

	dirPath := expandUser(dir)
	out := zipOutput
	if out == "" {
		out = dir
	}
	archivePath := withZipExt(expandUser(out))

	log.Infof("Creating archive %q", archivePath)

	if fi, err := os.Stat(dirPath); err != nil || !fi.IsDir() {
		return die(log, true, "the path %q either does not exist or is not a directory", dirPath)
	}
	if fi, err := os.Stat(archivePath); err == nil {
		if !fi.Mode().IsRegular() {
			return die(log, true,
				"directory entry %q already exists and is not a regular file. Please use the --output option or remove %q manually.",
				archivePath, archivePath)
		}
		if !zipForce {
			return die(log, true,
				"archive file %q already exists. Please use the --output option or the --force option to overwrite it.",
				archivePath)
		}
	}

	if err := archive.Zip(dirPath, archivePath, log); err != nil {
		return die(log, true, "cannot create zip archive for %q directory: %v", dir, err)
	}

	log.Infof("The archive %q is prepared and can be included with your issue report.", archivePath)
	return nil
}

func withZipExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".zip"
}
