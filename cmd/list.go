package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"devdiag/internal/recipe"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show information about available recipes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList()
	},
}

func init() {
	addRecipeFlags(listCmd)
	rootCmd.AddCommand(listCmd)
}

func runList() error {
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
	invalid := false
	listed := 0
	for _, src := range sources {
		desc, tags := src.Peek(vars)
		if len(flagTags) > 0 && !hasAnyTag(tags, flagTags) {
			continue
		}
		listed++

		_, lerr := src.Load(vars)
		if lerr != nil {
			invalid = true
		}

		log.Printf("%s", src.Path)
		log.Printf("   description: %s", desc)
		log.Printf("   short name: %s", src.Short())
		log.Printf("   valid: %t", lerr == nil)
		log.Printf("   builtin: %t", src.Builtin)
		log.Printf("   tags: %s", strings.Join(tags, ", "))
	}
	if listed == 0 {
		return die(log, true, "no recipes available")
	}
	if invalid {
		return exitError{code: 1}
	}
	return nil
}
