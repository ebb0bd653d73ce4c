package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ancestree/ancestree/pkg/kin"
	"github.com/ancestree/ancestree/pkg/layout"
	"github.com/ancestree/ancestree/pkg/observability"
	"github.com/ancestree/ancestree/pkg/render"
)

// RenderFromLayout generates output artifacts in the requested formats.
//
// SVG and PNG render the computed scene geometry; DOT emits a Graphviz
// digraph derived from the tree structure alone; JSON serializes the layout
// itself for downstream tooling.
func RenderFromLayout(ctx context.Context, t *kin.Tree, res layout.Result, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		start := time.Now()
		observability.Pipeline().OnRenderStart(ctx, format)

		data, err := renderFormat(t, res, format, opts)

		observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderFormat produces a single artifact.
func renderFormat(t *kin.Tree, res layout.Result, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		return render.RenderSVG(t, res, buildSVGOptions(opts)...), nil

	case FormatPNG:
		svg := render.RenderSVG(t, res, buildSVGOptions(opts)...)
		return render.ToPNG(svg, opts.PNGScale)

	case FormatDOT:
		dot := render.ToDOT(t, render.DOTOptions{Detailed: opts.Detailed})
		return []byte(dot), nil

	case FormatJSON:
		return json.MarshalIndent(res, "", "  ")

	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// buildSVGOptions maps pipeline options onto SVG rendering options.
func buildSVGOptions(opts Options) []render.SVGOption {
	svgOpts := []render.SVGOption{render.WithSpacing(opts.Spacing)}
	if opts.NoBands {
		svgOpts = append(svgOpts, render.WithoutBands())
	}
	if opts.YearRuler {
		svgOpts = append(svgOpts, render.WithYearRuler())
	}
	return svgOpts
}
