package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ancestree/ancestree/pkg/csvimport"
	"github.com/ancestree/ancestree/pkg/treejson"
)

// importCommand creates the import command for converting CSV data to JSON.
func (c *CLI) importCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import [csv-dir]",
		Short: "Convert a CSV directory to a family JSON document",
		Long: `Convert a directory holding people.csv and an optional marriages.csv
into the canonical JSON document format.

Rows with missing or duplicate IDs are skipped and unparseable fields are
degraded to unknown; each such row is reported as a warning. The import
never fails on bad rows, only on unreadable files.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runImport(args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <dir>/family.json)")

	return cmd
}

// runImport converts the CSV directory and writes the JSON document.
func (c *CLI) runImport(dir, output string) error {
	tree, warnings, err := csvimport.ImportDir(dir)
	if err != nil {
		return fmt.Errorf("import %s: %w", dir, err)
	}

	for _, w := range warnings {
		printWarning("%s", w)
	}

	outputPath := output
	if outputPath == "" {
		outputPath = filepath.Join(dir, "family.json")
	}

	if err := treejson.ExportFile(tree, outputPath); err != nil {
		return err
	}

	printSuccess("Imported %d people, %d marriages", len(tree.People()), len(tree.Marriages()))
	if len(warnings) > 0 {
		printDetail("%d rows skipped or degraded", len(warnings))
	}
	printFile(outputPath)
	printNewline()
	printNextStep("Render", "ancestree render "+outputPath)

	return nil
}
