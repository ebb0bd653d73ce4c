package layout

import (
	"math"
	"slices"

	"github.com/ancestree/ancestree/pkg/kin"
)

// connectorAnchor is the point a child group's connectors descend from:
// either a marriage marker or a single parent's box.
type connectorAnchor struct {
	// X, Y is where the descending stroke starts (marker center, or the
	// parent's bottom-center).
	X, Y float64
	// Bottom is the anchor's lower edge, used to center sibling bars in the
	// gap between the anchor and the children below it.
	Bottom float64

	marriageID int
	parentID   int
}

// childGroup collects the placed children hanging off one anchor.
type childGroup struct {
	anchor   connectorAnchor
	children []childDrop
}

// childDrop is one placed child with its top-center attachment point.
type childDrop struct {
	id   int
	x, y float64
}

// routeConnectors produces the parent->child polyline set.
//
// Children are grouped by their parents' shared marriage when one exists and
// received a marker; otherwise by a single placed parent, father preferred.
// A lone child in a group gets one direct connector (straight vertical, or a
// vertical-horizontal-vertical elbow when the endpoints are not aligned).
// Siblings share a single horizontal bar halfway between the anchor and the
// topmost child, with one drop per child; the shared bar keeps exactly one
// stroke per relationship and avoids crossed lines when sibling centers are
// close but unequal.
func routeConnectors(t *kin.Tree, r *Result, s Spacing) []Polyline {
	groups := groupChildren(t, r, s)

	keys := make([]connectorAnchor, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b connectorAnchor) int {
		if c := a.marriageID - b.marriageID; c != 0 {
			return c
		}
		return a.parentID - b.parentID
	})

	var lines []Polyline
	for _, key := range keys {
		g := groups[key]
		slices.SortFunc(g.children, func(a, b childDrop) int {
			if a.x != b.x {
				if a.x < b.x {
					return -1
				}
				return 1
			}
			return a.id - b.id
		})

		if len(g.children) == 1 {
			lines = append(lines, directConnector(g.anchor, g.children[0]))
			continue
		}
		lines = append(lines, siblingConnectors(g.anchor, g.children)...)
	}
	return lines
}

// groupChildren buckets every placed child under its connector anchor.
//
// Preference order when both parents are recorded but never married to each
// other in the data: the father anchors the group if placed, then the
// mother. That tie-break mirrors the historical behavior and changes only
// visual grouping, not correctness.
func groupChildren(t *kin.Tree, r *Result, s Spacing) map[connectorAnchor]*childGroup {
	groups := make(map[connectorAnchor]*childGroup)

	for _, child := range t.People() {
		pos, placed := r.PersonPositions[child.ID]
		if !placed {
			continue
		}

		anchor, ok := anchorFor(t, r, s, child)
		if !ok {
			continue
		}

		g := groups[anchor]
		if g == nil {
			g = &childGroup{anchor: anchor}
			groups[anchor] = g
		}
		g.children = append(g.children, childDrop{
			id: child.ID,
			x:  pos.X + s.BoxWidth/2,
			y:  pos.Y,
		})
	}
	return groups
}

// anchorFor resolves the connector anchor for one child, or reports false
// when no parent is resolvable to a placed position.
func anchorFor(t *kin.Tree, r *Result, s Spacing, child kin.Person) (connectorAnchor, bool) {
	if child.FatherID != 0 && child.MotherID != 0 {
		if m, ok := t.SpouseMarriage(child.FatherID, child.MotherID); ok {
			if origin, placed := r.MarriagePositions[m.ID]; placed {
				center := s.MarkerCenter(origin)
				return connectorAnchor{
					X:          center.X,
					Y:          center.Y,
					Bottom:     origin.Y + s.MarkerSize,
					marriageID: m.ID,
				}, true
			}
		}
	}

	for _, parentID := range [2]int{child.FatherID, child.MotherID} {
		if parentID == 0 {
			continue
		}
		pos, placed := r.PersonPositions[parentID]
		if !placed {
			continue
		}
		return connectorAnchor{
			X:        pos.X + s.BoxWidth/2,
			Y:        pos.Y + s.BoxHeight,
			Bottom:   pos.Y + s.BoxHeight,
			parentID: parentID,
		}, true
	}
	return connectorAnchor{}, false
}

// directConnector routes a single child straight down from the anchor, or
// through a vertical-horizontal-vertical elbow when the centers differ.
func directConnector(a connectorAnchor, c childDrop) Polyline {
	line := Polyline{
		Kind:       KindDirect,
		MarriageID: a.marriageID,
		ParentID:   a.parentID,
		ChildID:    c.id,
	}

	if math.Abs(a.X-c.x) < 1 {
		line.Points = []Point{{X: a.X, Y: a.Y}, {X: a.X, Y: c.y}}
		return line
	}

	midY := a.Bottom + (c.y-a.Bottom)/2
	line.Points = []Point{
		{X: a.X, Y: a.Y},
		{X: a.X, Y: midY},
		{X: c.x, Y: midY},
		{X: c.x, Y: c.y},
	}
	return line
}

// siblingConnectors routes a multi-child group: one drop from the anchor to
// the shared bar, the bar itself spanning the outermost child centers, and
// one vertical drop per child.
func siblingConnectors(a connectorAnchor, children []childDrop) []Polyline {
	topY := children[0].y
	for _, c := range children[1:] {
		topY = min(topY, c.y)
	}
	barY := a.Bottom + (topY-a.Bottom)/2

	lines := make([]Polyline, 0, len(children)+2)
	lines = append(lines, Polyline{
		Kind:       KindParentDrop,
		MarriageID: a.marriageID,
		ParentID:   a.parentID,
		Points:     []Point{{X: a.X, Y: a.Y}, {X: a.X, Y: barY}},
	})
	lines = append(lines, Polyline{
		Kind:       KindSiblingBar,
		MarriageID: a.marriageID,
		ParentID:   a.parentID,
		Points: []Point{
			{X: children[0].x, Y: barY},
			{X: children[len(children)-1].x, Y: barY},
		},
	})
	for _, c := range children {
		lines = append(lines, Polyline{
			Kind:       KindChildDrop,
			MarriageID: a.marriageID,
			ParentID:   a.parentID,
			ChildID:    c.id,
			Points:     []Point{{X: c.x, Y: barY}, {X: c.x, Y: c.y}},
		})
	}
	return lines
}
