package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ancestree/ancestree/pkg/pipeline"
)

// validateCommand creates the validate command for data-quality checks.
func (c *CLI) validateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate [family.json|csv-dir]",
		Short: "Check family data for structural problems",
		Long: `Check family data for structural problems: people who are their own
parent, references to unknown people, ancestry cycles, and marriages with
missing or identical spouses.

The layout engine tolerates all of these, so validation is advisory. With
--strict the command exits non-zero when any issue is found, for use in
scripts and CI.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0], strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when issues are found")

	return cmd
}

// runValidate loads the tree and reports every issue found.
func (c *CLI) runValidate(input string, strict bool) error {
	opts, err := c.newOptions(input)
	if err != nil {
		return err
	}

	tree, _, err := pipeline.Load(opts)
	if err != nil {
		return err
	}

	issues := tree.ValidateParentage()
	issues = append(issues, tree.ValidateMarriages()...)

	if len(issues) == 0 {
		printSuccess("No issues found in %d people, %d marriages",
			len(tree.People()), len(tree.Marriages()))
		return nil
	}

	for _, issue := range issues {
		printWarning("%s", issue.Message)
	}
	printNewline()
	printInfo("%d issues found", len(issues))

	if strict {
		return fmt.Errorf("validation found %d issues", len(issues))
	}
	return nil
}
