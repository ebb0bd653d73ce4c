// Package layout computes automatic family-tree layouts.
//
// Given a [kin.Tree] snapshot, [Compute] assigns every person a generation
// in dependency order from the founders (children one row below their
// deepest parent, married-in spouses on their partner's row), places spouse
// pairs side by side on generation rows, positions marriage markers between
// spouses, routes
// parent->child connectors (with shared sibling bars), derives per-generation
// background bands, and extracts the global year range for the time scale.
//
// The engine is a pure, synchronous computation: it performs no I/O, holds no
// state between calls, and rebuilds every internal structure per invocation.
// Concurrent calls on independent Tree snapshots are safe. Malformed
// relationship data (missing parents, cycles, unresolved spouses) never
// produces an error - fallback rules absorb it, because hand-edited data
// cannot guarantee referential integrity.
//
// All coordinates are scene units (pixels at 1:1 zoom). Person positions are
// box origins (top-left); marker positions are marker origins. The consumer
// turns these into drawn shapes.
package layout

// Spacing holds the geometric constants the engine places against. The zero
// value is not usable - start from [DefaultSpacing] and override fields.
type Spacing struct {
	// BoxWidth and BoxHeight are the person box dimensions.
	BoxWidth  float64
	BoxHeight float64

	// HorizontalGap separates unpaired neighbours within a generation row.
	HorizontalGap float64

	// MarriageMarkerGap separates the boxes of a placed spouse pair, leaving
	// room for the marriage marker between them.
	MarriageMarkerGap float64

	// VerticalGap separates consecutive generation rows.
	VerticalGap float64

	// MarkerSize is the side length of the square marriage marker.
	MarkerSize float64

	// SoloMarkerOffset is the horizontal distance between a lone placed
	// spouse's box edge and the marker, used when the other spouse never
	// received a position.
	SoloMarkerOffset float64

	// BandPaddingTop and BandPaddingBottom pad generation bands so band edges
	// do not clip person boxes.
	BandPaddingTop    float64
	BandPaddingBottom float64

	// PixelsPerYear and YearBuffer drive the auxiliary time scale: how tall a
	// calendar year is on screen, and how many years of headroom surround the
	// recorded range.
	PixelsPerYear float64
	YearBuffer    int
}

// DefaultSpacing returns the standard spacing constants.
func DefaultSpacing() Spacing {
	return Spacing{
		BoxWidth:          300,
		BoxHeight:         130,
		HorizontalGap:     60,
		MarriageMarkerGap: 40,
		VerticalGap:       120,
		MarkerSize:        24,
		SoloMarkerOffset:  10,
		BandPaddingTop:    30,
		BandPaddingBottom: 30,
		PixelsPerYear:     12,
		YearBuffer:        5,
	}
}

// RowY returns the vertical origin of the given generation row.
func (s Spacing) RowY(generation int) float64 {
	return float64(generation) * (s.BoxHeight + s.VerticalGap)
}

// Point is a scene coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Band is the vertical strip of the scene associated with one generation,
// used for background shading and labeling.
type Band struct {
	Y      float64 `json:"y" bson:"y"`
	Height float64 `json:"height" bson:"height"`
	Label  string  `json:"label" bson:"label"`
}

// YearRange is the inclusive span of calendar years across all recorded
// birth, death, and arrival dates. The zero value means "no dated person" and
// downstream scales treat it as "no scale available".
type YearRange struct {
	Min int `json:"min" bson:"min"`
	Max int `json:"max" bson:"max"`
}

// IsZero reports whether no person carried any recorded year.
func (r YearRange) IsZero() bool { return r.Min == 0 && r.Max == 0 }

// PolylineKind tags what a routed polyline represents so the presentation
// layer can stroke each kind with its own style.
type PolylineKind string

const (
	// KindParentDrop runs from the parent anchor down to a sibling bar.
	KindParentDrop PolylineKind = "parent-drop"
	// KindSiblingBar is the shared horizontal segment spanning a sibling group.
	KindSiblingBar PolylineKind = "sibling-bar"
	// KindChildDrop runs from a sibling bar down to one child's top-center.
	KindChildDrop PolylineKind = "child-drop"
	// KindDirect connects a parent anchor straight to an only child.
	KindDirect PolylineKind = "direct"
)

// Polyline is one routed connector stroke. Points are ordered; consecutive
// points are joined by straight segments. All segments are orthogonal.
type Polyline struct {
	Kind PolylineKind `json:"kind" bson:"kind"`

	// MarriageID is set when the connector group is anchored at a marriage
	// marker; ParentID is set when it is anchored at a single parent's box.
	// Exactly one of the two is non-zero.
	MarriageID int `json:"marriage_id,omitempty" bson:"marriage_id,omitempty"`
	ParentID   int `json:"parent_id,omitempty" bson:"parent_id,omitempty"`

	// ChildID identifies the child a drop or direct connector terminates at.
	// Zero for parent drops and sibling bars, which belong to the whole group.
	ChildID int `json:"child_id,omitempty" bson:"child_id,omitempty"`

	Points []Point `json:"points" bson:"points"`
}

// Result is the complete layout output. It is created fresh by every
// [Compute] call and never persisted by the engine; two calls on unchanged
// input produce identical results.
type Result struct {
	// PersonPositions maps person ID to box origin. One entry per input
	// person with a valid ID.
	PersonPositions map[int]Point `json:"person_positions" bson:"person_positions"`

	// MarriagePositions maps marriage ID to marker origin. One entry per
	// marriage with at least one placed spouse.
	MarriagePositions map[int]Point `json:"marriage_positions" bson:"marriage_positions"`

	// Generations maps person ID to the assigned generation number.
	Generations map[int]int `json:"generations" bson:"generations"`

	// Bands maps generation number to its background band.
	Bands map[int]Band `json:"bands" bson:"bands"`

	// Connectors is the routed polyline set for parent->child relationships.
	Connectors []Polyline `json:"connectors" bson:"connectors"`

	// Years is the global year range for the auxiliary time scale.
	Years YearRange `json:"year_range" bson:"year_range"`
}

// Positions returns only the person coordinate map. It exists for callers
// that predate the full Result and need nothing else.
func (r Result) Positions() map[int]Point { return r.PersonPositions }

func newResult() Result {
	return Result{
		PersonPositions:   make(map[int]Point),
		MarriagePositions: make(map[int]Point),
		Generations:       make(map[int]int),
		Bands:             make(map[int]Band),
	}
}
