package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ancestree/ancestree/pkg/pipeline"
)

// renderCommand creates the render command for generating visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output    string
		formats   string
		noCache   bool
		refresh   bool
		noBands   bool
		yearRuler bool
		detailed  bool
		scale     float64
	)

	cmd := &cobra.Command{
		Use:   "render [family.json|csv-dir]",
		Short: "Render the family tree as SVG, PNG, DOT, or JSON",
		Long: `Render the family tree as one or more output formats.

The render command runs the full pipeline: load the family data, compute
the layout, and draw the scene. SVG and PNG show boxes, marriage markers,
connectors, and generation bands; DOT emits a Graphviz digraph of the
family structure; JSON is the raw layout geometry.

Formats are comma-separated, e.g. -f svg,png.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.newOptions(args[0])
			if err != nil {
				return err
			}
			opts.Formats = parseFormats(formats)
			opts.Refresh = refresh
			opts.NoBands = noBands
			opts.YearRuler = yearRuler
			opts.Detailed = detailed
			opts.PNGScale = scale
			return c.runRender(cmd.Context(), args[0], output, opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output basename (default: input name)")
	cmd.Flags().StringVarP(&formats, "formats", "f", "svg", "comma-separated output formats: svg, png, dot, json")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-render even when cached")
	cmd.Flags().BoolVar(&noBands, "no-bands", false, "omit generation bands")
	cmd.Flags().BoolVar(&yearRuler, "year-ruler", false, "draw the calendar year ruler")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include life spans in DOT labels")
	cmd.Flags().Float64Var(&scale, "scale", pipeline.DefaultPNGScale, "PNG raster scale factor")

	return cmd
}

// runRender executes the pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input, output string, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}
	if base == "" || base == "." {
		base = appName
	}

	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.PersonCount, result.Stats.MarriageCount, result.CacheInfo.RenderHit)

	return nil
}
