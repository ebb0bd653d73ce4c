// Package render turns computed layouts into visual outputs.
//
// The primary output is a self-contained SVG scene: generation bands, person
// boxes, marriage markers, and parent-child connectors, with an optional
// year ruler along the left edge. [ToPNG] and [ToPDF] convert the SVG to
// raster and print formats, and [ToDOT] exports the tree structure as a
// Graphviz digraph for interchange with graph tooling.
package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"slices"

	"github.com/ancestree/ancestree/pkg/kin"
	"github.com/ancestree/ancestree/pkg/layout"
)

const (
	sceneMargin = 40.0

	bandFill    = "#f5f1e8"
	bandAltFill = "#ece5d4"
	bandLabel   = "#8a8066"
	boxFill     = "#ffffff"
	boxStroke   = "#4a4a4a"
	markerFill  = "#b5838d"
	lineStroke  = "#6d6875"
	rulerStroke = "#b0a890"
)

// SVGOption configures scene rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	spacing   layout.Spacing
	showBands bool
	showRuler bool
}

// WithSpacing sets the spacing the layout was computed with. Rendering with
// different spacing than the layout misplaces box outlines.
func WithSpacing(s layout.Spacing) SVGOption {
	return func(r *svgRenderer) { r.spacing = s }
}

// WithoutBands suppresses the generation background bands.
func WithoutBands() SVGOption {
	return func(r *svgRenderer) { r.showBands = false }
}

// WithYearRuler draws a calendar-year ruler along the left edge. It is
// omitted automatically when the data set has no dated people.
func WithYearRuler() SVGOption {
	return func(r *svgRenderer) { r.showRuler = true }
}

// RenderSVG renders the scene as a self-contained SVG document.
// Elements are emitted in sorted ID order so output is deterministic.
func RenderSVG(t *kin.Tree, res layout.Result, opts ...SVGOption) []byte {
	r := svgRenderer{spacing: layout.DefaultSpacing(), showBands: true}
	for _, opt := range opts {
		opt(&r)
	}

	minX, minY, maxX, maxY := sceneBounds(res, r.spacing)
	width := maxX - minX + 2*sceneMargin
	height := maxY - minY + 2*sceneMargin
	offX := sceneMargin - minX
	offY := sceneMargin - minY

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, "  <rect x=\"0\" y=\"0\" width=\"%.1f\" height=\"%.1f\" fill=\"#fbf9f4\"/>\n", width, height)

	if r.showBands {
		renderBands(&buf, res, width, offY)
	}
	renderConnectors(&buf, res, offX, offY)
	renderPeople(&buf, t, res, r.spacing, offX, offY)
	renderMarkers(&buf, t, res, r.spacing, offX, offY)
	if r.showRuler {
		renderYearRuler(&buf, res, offY)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// sceneBounds computes the extent of everything placed, so the viewBox hugs
// the content regardless of where generation rows start.
func sceneBounds(res layout.Result, s layout.Spacing) (minX, minY, maxX, maxY float64) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)

	for _, p := range res.PersonPositions {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X+s.BoxWidth)
		maxY = max(maxY, p.Y+s.BoxHeight)
	}
	for _, b := range res.Bands {
		minY = min(minY, b.Y)
		maxY = max(maxY, b.Y+b.Height)
	}
	if math.IsInf(minX, 1) {
		return 0, 0, 0, 0
	}
	return minX, minY, maxX, maxY
}

func renderBands(buf *bytes.Buffer, res layout.Result, width, offY float64) {
	for i, gen := range sortedKeys(res.Bands) {
		band := res.Bands[gen]
		fill := bandFill
		if i%2 == 1 {
			fill = bandAltFill
		}
		fmt.Fprintf(buf, "  <rect x=\"0\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" fill=\"%s\"/>\n",
			band.Y+offY, width, band.Height, fill)
		fmt.Fprintf(buf, "  <text x=\"8\" y=\"%.1f\" font-size=\"14\" fill=\"%s\">%s</text>\n",
			band.Y+offY+18, bandLabel, html.EscapeString(band.Label))
	}
}

func renderConnectors(buf *bytes.Buffer, res layout.Result, offX, offY float64) {
	for _, line := range res.Connectors {
		var pts bytes.Buffer
		for i, p := range line.Points {
			if i > 0 {
				pts.WriteByte(' ')
			}
			fmt.Fprintf(&pts, "%.1f,%.1f", p.X+offX, p.Y+offY)
		}
		fmt.Fprintf(buf, "  <polyline points=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" class=\"%s\"/>\n",
			pts.String(), lineStroke, line.Kind)
	}
}

func renderPeople(buf *bytes.Buffer, t *kin.Tree, res layout.Result, s layout.Spacing, offX, offY float64) {
	for _, id := range sortedKeys(res.PersonPositions) {
		pos := res.PersonPositions[id]
		x, y := pos.X+offX, pos.Y+offY

		fmt.Fprintf(buf, "  <g id=\"person-%d\">\n", id)
		fmt.Fprintf(buf, "    <rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" rx=\"6\" fill=\"%s\" stroke=\"%s\" stroke-width=\"1.5\"/>\n",
			x, y, s.BoxWidth, s.BoxHeight, boxFill, boxStroke)

		if p, ok := t.Person(id); ok {
			name := p.FullName()
			if name == "" {
				name = fmt.Sprintf("#%d", id)
			}
			fmt.Fprintf(buf, "    <text x=\"%.1f\" y=\"%.1f\" font-size=\"18\" text-anchor=\"middle\">%s</text>\n",
				x+s.BoxWidth/2, y+s.BoxHeight/2-6, html.EscapeString(name))
			if span := lifeSpan(p); span != "" {
				fmt.Fprintf(buf, "    <text x=\"%.1f\" y=\"%.1f\" font-size=\"14\" text-anchor=\"middle\" fill=\"#6b6b6b\">%s</text>\n",
					x+s.BoxWidth/2, y+s.BoxHeight/2+16, span)
			}
		}
		buf.WriteString("  </g>\n")
	}
}

func renderMarkers(buf *bytes.Buffer, t *kin.Tree, res layout.Result, s layout.Spacing, offX, offY float64) {
	for _, id := range sortedKeys(res.MarriagePositions) {
		pos := res.MarriagePositions[id]
		fmt.Fprintf(buf, "  <rect id=\"marriage-%d\" x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"%.1f\" rx=\"4\" fill=\"%s\"",
			id, pos.X+offX, pos.Y+offY, s.MarkerSize, s.MarkerSize, markerFill)
		if m, ok := t.Marriage(id); ok && !m.IsActive() {
			buf.WriteString(` opacity="0.5"`)
		}
		buf.WriteString("/>\n")
	}
}

// renderYearRuler draws decade ticks mapped through the layout's year scale.
func renderYearRuler(buf *bytes.Buffer, res layout.Result, offY float64) {
	sc, ok := layout.NewScale(res)
	if !ok {
		return
	}

	fmt.Fprintf(buf, "  <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\"/>\n",
		sceneMargin/2, sc.TopY+offY, sceneMargin/2, sc.BotY+offY, rulerStroke)

	first := ((sc.Years.Min + 9) / 10) * 10
	for year := first; year <= sc.Years.Max; year += 10 {
		y := sc.YAt(float64(year)) + offY
		fmt.Fprintf(buf, "  <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke=\"%s\"/>\n",
			sceneMargin/2-4, y, sceneMargin/2+4, y, rulerStroke)
		fmt.Fprintf(buf, "  <text x=\"%.1f\" y=\"%.1f\" font-size=\"11\" fill=\"%s\">%d</text>\n",
			2.0, y-3, bandLabel, year)
	}
}

func lifeSpan(p kin.Person) string {
	switch {
	case p.Birth.Year != 0 && p.Death.Year != 0:
		return fmt.Sprintf("%d–%d", p.Birth.Year, p.Death.Year)
	case p.Birth.Year != 0:
		return fmt.Sprintf("*%d", p.Birth.Year)
	case p.Death.Year != 0:
		return fmt.Sprintf("†%d", p.Death.Year)
	}
	return ""
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
