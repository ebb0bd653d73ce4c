package layout

import (
	"github.com/ancestree/ancestree/pkg/kin"
)

// Compute runs the full layout: generation assignment, spouse-pair
// placement, marriage markers, connector routing, generation bands, and the
// year range. An empty tree produces an empty Result; malformed relationship
// data degrades via the fallback rules documented on each stage instead of
// failing.
func Compute(t *kin.Tree, s Spacing) Result {
	result := newResult()
	if t == nil || t.PersonCount() == 0 {
		return result
	}

	result.Years = ComputeYearRange(t.People())
	result.Generations = AssignGenerations(t)

	groups := GroupByGeneration(t, result.Generations)

	placePeople(t, groups, result.Generations, s, result.PersonPositions)
	placeMarkers(t, result.PersonPositions, s, result.MarriagePositions)
	computeBands(groups, s, result.Bands)
	result.Connectors = routeConnectors(t, &result, s)

	return result
}

// ComputePositions is the reduced legacy entry point: it runs the full
// layout and returns only the person coordinate map.
func ComputePositions(t *kin.Tree, s Spacing) map[int]Point {
	return Compute(t, s).Positions()
}
