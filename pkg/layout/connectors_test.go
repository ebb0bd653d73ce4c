package layout

import (
	"testing"

	"github.com/ancestree/ancestree/pkg/kin"
)

func linesOfKind(lines []Polyline, kind PolylineKind) []Polyline {
	var out []Polyline
	for _, l := range lines {
		if l.Kind == kind {
			out = append(out, l)
		}
	}
	return out
}

func TestConnectors_SingleChildStraightDrop(t *testing.T) {
	// A lone parent directly above their only child: one straight vertical.
	r := computeFor(t,
		[]kin.Person{{ID: 1}, {ID: 2, FatherID: 1}},
		nil,
	)

	if len(r.Connectors) != 1 {
		t.Fatalf("got %d connectors, want 1", len(r.Connectors))
	}
	line := r.Connectors[0]
	if line.Kind != KindDirect {
		t.Fatalf("kind = %q, want %q", line.Kind, KindDirect)
	}
	if len(line.Points) != 2 {
		t.Fatalf("straight drop has %d points, want 2", len(line.Points))
	}
	if line.Points[0].X != line.Points[1].X {
		t.Errorf("straight drop is not vertical: %v", line.Points)
	}
	if line.ParentID != 1 || line.ChildID != 2 {
		t.Errorf("line endpoints parent=%d child=%d, want 1 and 2", line.ParentID, line.ChildID)
	}
}

func TestConnectors_SingleChildElbow(t *testing.T) {
	// Married parents: the marker anchor is horizontally offset from the
	// only child's center, so the route is a vertical-horizontal-vertical
	// elbow.
	r := computeFor(t,
		[]kin.Person{{ID: 1}, {ID: 2}, {ID: 3, FatherID: 1, MotherID: 2}},
		[]kin.Marriage{{ID: 10, Spouse1ID: 1, Spouse2ID: 2}},
	)

	if len(r.Connectors) != 1 {
		t.Fatalf("got %d connectors, want 1", len(r.Connectors))
	}
	line := r.Connectors[0]
	if line.MarriageID != 10 {
		t.Errorf("anchor marriage = %d, want 10", line.MarriageID)
	}
	if len(line.Points) != 4 {
		t.Fatalf("elbow has %d points, want 4", len(line.Points))
	}
	// Segments alternate vertical, horizontal, vertical.
	p := line.Points
	if p[0].X != p[1].X || p[1].Y != p[2].Y || p[2].X != p[3].X {
		t.Errorf("elbow segments not orthogonal: %v", p)
	}
	s := DefaultSpacing()
	child := r.PersonPositions[3]
	if p[3].X != child.X+s.BoxWidth/2 || p[3].Y != child.Y {
		t.Errorf("elbow ends at %v, want child top-center", p[3])
	}
}

func TestConnectors_SiblingsShareOneBar(t *testing.T) {
	r := computeFor(t,
		[]kin.Person{
			{ID: 1}, {ID: 2},
			{ID: 3, FatherID: 1, MotherID: 2},
			{ID: 4, FatherID: 1, MotherID: 2},
			{ID: 5, FatherID: 1, MotherID: 2},
		},
		[]kin.Marriage{{ID: 10, Spouse1ID: 1, Spouse2ID: 2}},
	)

	bars := linesOfKind(r.Connectors, KindSiblingBar)
	if len(bars) != 1 {
		t.Fatalf("got %d sibling bars, want 1 shared bar", len(bars))
	}
	drops := linesOfKind(r.Connectors, KindChildDrop)
	if len(drops) != 3 {
		t.Fatalf("got %d child drops, want 3", len(drops))
	}
	parentDrops := linesOfKind(r.Connectors, KindParentDrop)
	if len(parentDrops) != 1 {
		t.Fatalf("got %d parent drops, want 1", len(parentDrops))
	}

	bar := bars[0]
	barY := bar.Points[0].Y
	if bar.Points[1].Y != barY {
		t.Fatalf("bar is not horizontal: %v", bar.Points)
	}
	for _, d := range drops {
		if d.Points[0].Y != barY {
			t.Errorf("child %d drop starts at y=%v, want bar y=%v", d.ChildID, d.Points[0].Y, barY)
		}
	}
	if pd := parentDrops[0]; pd.Points[len(pd.Points)-1].Y != barY {
		t.Errorf("parent drop ends at y=%v, want bar y=%v", pd.Points[len(pd.Points)-1].Y, barY)
	}

	// Bar y sits halfway between marker bottom and the children's top row.
	s := DefaultSpacing()
	marker := r.MarriagePositions[10]
	markerBottom := marker.Y + s.MarkerSize
	childTop := r.PersonPositions[3].Y
	if want := markerBottom + (childTop-markerBottom)/2; barY != want {
		t.Errorf("bar y = %v, want %v", barY, want)
	}

	// Bar spans the outermost child centers.
	leftmost := r.PersonPositions[3].X + s.BoxWidth/2
	rightmost := r.PersonPositions[5].X + s.BoxWidth/2
	if bar.Points[0].X != leftmost || bar.Points[1].X != rightmost {
		t.Errorf("bar spans %v..%v, want %v..%v", bar.Points[0].X, bar.Points[1].X, leftmost, rightmost)
	}
}

func TestConnectors_UnmarriedParentsPreferFather(t *testing.T) {
	// Both parents known and placed but never married to each other: the
	// child groups under the father.
	r := computeFor(t,
		[]kin.Person{{ID: 1}, {ID: 2}, {ID: 3, FatherID: 1, MotherID: 2}},
		nil,
	)

	if len(r.Connectors) != 1 {
		t.Fatalf("got %d connectors, want 1", len(r.Connectors))
	}
	if line := r.Connectors[0]; line.ParentID != 1 || line.MarriageID != 0 {
		t.Errorf("anchor parent=%d marriage=%d, want father 1 with no marriage", line.ParentID, line.MarriageID)
	}
}

func TestConnectors_MotherOnlyFallback(t *testing.T) {
	tests := []struct {
		name  string
		child kin.Person
	}{
		{"no father recorded", kin.Person{ID: 3, MotherID: 2}},
		{"father not resolvable", kin.Person{ID: 3, FatherID: 404, MotherID: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := computeFor(t, []kin.Person{{ID: 2}, tt.child}, nil)

			if len(r.Connectors) != 1 {
				t.Fatalf("got %d connectors, want 1", len(r.Connectors))
			}
			if line := r.Connectors[0]; line.ParentID != 2 {
				t.Errorf("anchor parent = %d, want mother 2", line.ParentID)
			}
		})
	}
}

func TestConnectors_NoResolvableParent(t *testing.T) {
	r := computeFor(t,
		[]kin.Person{{ID: 3, FatherID: 404, MotherID: 405}},
		nil,
	)

	if len(r.Connectors) != 0 {
		t.Errorf("got %d connectors for an orphan, want 0", len(r.Connectors))
	}
}

func TestConnectors_HalfSiblingsSplitGroups(t *testing.T) {
	// Father 1 has a child with wife 2 and another child with an unknown
	// partner: two separate connector groups, no shared bar.
	r := computeFor(t,
		[]kin.Person{
			{ID: 1}, {ID: 2},
			{ID: 3, FatherID: 1, MotherID: 2},
			{ID: 4, FatherID: 1},
		},
		[]kin.Marriage{{ID: 10, Spouse1ID: 1, Spouse2ID: 2}},
	)

	if bars := linesOfKind(r.Connectors, KindSiblingBar); len(bars) != 0 {
		t.Errorf("half-siblings must not share a bar, got %d bars", len(bars))
	}
	directs := linesOfKind(r.Connectors, KindDirect)
	if len(directs) != 2 {
		t.Fatalf("got %d direct connectors, want 2", len(directs))
	}

	anchors := map[int]int{} // marriageID or -parentID -> count
	for _, d := range directs {
		if d.MarriageID != 0 {
			anchors[d.MarriageID]++
		} else {
			anchors[-d.ParentID]++
		}
	}
	if anchors[10] != 1 || anchors[-1] != 1 {
		t.Errorf("anchor split = %v, want one via marriage 10 and one via father 1", anchors)
	}
}
