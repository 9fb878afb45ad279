package cmd

import (
	"github.com/spf13/cobra"

	"devdiag/internal/recipe"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck()
	},
}

func init() {
	addRecipeFlags(checkCmd)
	rootCmd.AddCommand(checkCmd)
}

func runCheck() error {
	log := newLogger("")
	defer log.Close()

	if err := requireSDK(log); err != nil {
		return err
	}

	sources, err := recipe.ResolveSources(flagRecipes, flagAppend)
	if err != nil {
		return die(log, true, "unable to create list of recipe files: %v", err)
	}

	vars := templateVars("", "")
	checked := 0
	failed := false
	for _, src := range sources {
		_, tags := src.Peek(vars)
		if len(flagTags) > 0 && !hasAnyTag(tags, flagTags) {
			continue
		}
		checked++

		if _, err := src.Load(vars); err != nil {
			log.Printf("Checking recipe %q ... Failed", src.Path)
			log.Errorf("validation failed: %v", err)
			failed = true
		} else {
			log.Printf("Checking recipe %q ... OK", src.Path)
		}
	}
	if checked == 0 {
		return die(log, true, "no recipes available")
	}
	if failed {
		log.Errorf("recipes validation failed")
		return exitError{code: 1}
	}
	return nil
}
