package layout

import (
	"github.com/ancestree/ancestree/pkg/kin"
)

// placePeople assigns a box origin to every grouped person.
//
// Rows are processed in ascending generation order; the vertical origin of a
// row is fixed by the generation index. Within a row a horizontal cursor
// scans left to right: a person with an unplaced same-generation spouse is
// placed at the cursor with the spouse immediately to their right, separated
// by the marriage-marker gap; everyone else sits alone separated by the
// standard gap. A person already placed as someone's spouse is skipped when
// the scan reaches them.
func placePeople(t *kin.Tree, groups map[int][]kin.Person, generations map[int]int, s Spacing, out map[int]Point) {
	placedAsSpouse := make(map[int]bool)

	for _, gen := range sortedGenerations(groups) {
		y := s.RowY(gen)
		x := 0.0

		for _, p := range groups[gen] {
			if placedAsSpouse[p.ID] {
				continue
			}

			spouseID := sameGenerationSpouse(t, p.ID, generations, gen)
			if spouseID != 0 && !placedAsSpouse[spouseID] {
				if _, placed := out[spouseID]; !placed {
					out[p.ID] = Point{X: x, Y: y}
					x += s.BoxWidth + s.MarriageMarkerGap
					out[spouseID] = Point{X: x, Y: y}
					placedAsSpouse[spouseID] = true
					x += s.BoxWidth + s.HorizontalGap
					continue
				}
			}

			out[p.ID] = Point{X: x, Y: y}
			x += s.BoxWidth + s.HorizontalGap
		}
	}
}

// sameGenerationSpouse returns the first spouse of personID who resolves to
// a person assigned to the same generation, or zero when none exists.
// Marriage insertion order makes the choice deterministic for people with
// several marriages. A self-marriage record resolves to nobody, so the
// person places once like any unmarried neighbour.
func sameGenerationSpouse(t *kin.Tree, personID int, generations map[int]int, gen int) int {
	for _, m := range t.MarriagesOf(personID) {
		spouseID := m.OtherSpouse(personID)
		if spouseID == 0 || spouseID == personID {
			continue
		}
		if g, ok := generations[spouseID]; ok && g == gen {
			return spouseID
		}
	}
	return 0
}
