package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/ancestree/ancestree/pkg/kin"
)

// DOTOptions configures Graphviz export.
type DOTOptions struct {
	// Detailed includes life dates in node labels.
	Detailed bool
}

// ToDOT exports the tree as a Graphviz digraph for interchange with graph
// tooling. Marriages appear as small point nodes between the spouses, and
// parent edges run from the marriage node when one exists, from the parent
// otherwise - mirroring how the scene renderer anchors connectors.
func ToDOT(t *kin.Tree, opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph family {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for _, p := range t.People() {
		fmt.Fprintf(&buf, "  p%d [label=%q];\n", p.ID, dotLabel(p, opts.Detailed))
	}

	buf.WriteString("\n")
	for _, m := range t.Marriages() {
		fmt.Fprintf(&buf, "  m%d [shape=point, width=0.15, color=\"#b5838d\"];\n", m.ID)
		for _, spouseID := range [2]int{m.Spouse1ID, m.Spouse2ID} {
			if _, ok := t.Person(spouseID); ok {
				fmt.Fprintf(&buf, "  p%d -> m%d [style=dashed];\n", spouseID, m.ID)
			}
		}
	}

	buf.WriteString("\n")
	for _, child := range t.People() {
		from, ok := childAnchor(t, child)
		if !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %s -> p%d;\n", from, child.ID)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotLabel(p kin.Person, detailed bool) string {
	name := p.FullName()
	if name == "" {
		name = fmt.Sprintf("#%d", p.ID)
	}
	if !detailed {
		return name
	}
	if span := lifeSpan(p); span != "" {
		return name + "\n" + span
	}
	return name
}

// childAnchor picks the DOT node a child's parent edge starts at: the
// parents' marriage node when both are known and married, else the father,
// else the mother.
func childAnchor(t *kin.Tree, child kin.Person) (string, bool) {
	if child.FatherID != 0 && child.MotherID != 0 {
		if m, ok := t.SpouseMarriage(child.FatherID, child.MotherID); ok {
			return fmt.Sprintf("m%d", m.ID), true
		}
	}
	for _, parentID := range [2]int{child.FatherID, child.MotherID} {
		if _, ok := t.Person(parentID); ok {
			return fmt.Sprintf("p%d", parentID), true
		}
	}
	return "", false
}

// GraphvizSVG renders a DOT string to SVG in-process.
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	return graphvizRender(ctx, dot, graphviz.SVG)
}

// GraphvizPNG renders a DOT string to PNG in-process.
func GraphvizPNG(ctx context.Context, dot string) ([]byte, error) {
	return graphvizRender(ctx, dot, graphviz.PNG)
}

func graphvizRender(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
