package layout

import (
	"github.com/ancestree/ancestree/pkg/kin"
)

// placeMarkers assigns a marker origin to every marriage with at least one
// placed spouse.
//
// With both spouses placed, the marker's center sits at the horizontal
// midpoint between the adjoining box edges, vertically centered on the box
// height. With a single placed spouse the marker is offset a fixed distance
// beside that spouse - to the right of spouse 1, to the left of spouse 2.
// Marriages with no placed spouse contribute nothing.
func placeMarkers(t *kin.Tree, positions map[int]Point, s Spacing, out map[int]Point) {
	for _, m := range t.Marriages() {
		p1, ok1 := resolveSpouse(positions, m.Spouse1ID)
		p2, ok2 := resolveSpouse(positions, m.Spouse2ID)

		switch {
		case ok1 && ok2:
			midX := (p1.X + s.BoxWidth + p2.X) / 2
			topY := min(p1.Y, p2.Y)
			out[m.ID] = Point{
				X: midX - s.MarkerSize/2,
				Y: topY + s.BoxHeight/2 - s.MarkerSize/2,
			}
		case ok1:
			out[m.ID] = Point{
				X: p1.X + s.BoxWidth + s.SoloMarkerOffset,
				Y: p1.Y + s.BoxHeight/2 - s.MarkerSize/2,
			}
		case ok2:
			out[m.ID] = Point{
				X: p2.X - s.MarkerSize - s.SoloMarkerOffset,
				Y: p2.Y + s.BoxHeight/2 - s.MarkerSize/2,
			}
		}
	}
}

func resolveSpouse(positions map[int]Point, spouseID int) (Point, bool) {
	if spouseID == 0 {
		return Point{}, false
	}
	p, ok := positions[spouseID]
	return p, ok
}

// MarkerCenter returns the center point of a marker placed at origin.
func (s Spacing) MarkerCenter(origin Point) Point {
	return Point{X: origin.X + s.MarkerSize/2, Y: origin.Y + s.MarkerSize/2}
}
