package layout

import (
	"maps"
	"slices"

	"github.com/ancestree/ancestree/pkg/kin"
)

// GroupByGeneration partitions people into generation rows and orders each
// row deterministically: by family grouping ID, then birth year (absent
// values sort as zero), then person ID as the final tie-break. Stable
// ordering is what makes repeated layouts of unchanged data bit-identical.
func GroupByGeneration(t *kin.Tree, generations map[int]int) map[int][]kin.Person {
	groups := make(map[int][]kin.Person)
	for _, p := range t.People() {
		gen := generations[p.ID]
		groups[gen] = append(groups[gen], p)
	}

	for gen := range groups {
		slices.SortFunc(groups[gen], func(a, b kin.Person) int {
			if c := a.FamilyID - b.FamilyID; c != 0 {
				return c
			}
			if c := a.Birth.Year - b.Birth.Year; c != 0 {
				return c
			}
			return a.ID - b.ID
		})
	}
	return groups
}

// sortedGenerations returns the group keys in ascending order.
func sortedGenerations(groups map[int][]kin.Person) []int {
	return slices.Sorted(maps.Keys(groups))
}
