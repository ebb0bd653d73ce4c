package layout

import (
	"slices"

	"github.com/ancestree/ancestree/pkg/kin"
)

// AssignGenerations maps every person in the tree to a non-negative
// generation number, processed in dependency order over an index-based FIFO
// queue.
//
// A person with resolvable parents receives max(parent generations) + 1, so
// child = parent + 1 holds on every resolvable link even when the two
// parents sit at unequal depths. People with no recorded ancestry split in
// two: those married to someone with ancestry are pulled to that partner's
// row (an in-law lines up with their spouse, not with the dynasty's
// founding couple), the rest seed the traversal at generation 0.
//
// Fallbacks keep the mapping total for deficient data:
//   - Parent references to missing people or to oneself resolve to
//     "parent unknown".
//   - When nobody qualifies as a seed (every person references some parent,
//     so the data is cyclic), the lowest-ID person seeds alone.
//   - Anyone whose ancestry never resolves - a member or descendant of a
//     parent cycle - lands at generation 0 after traversal.
func AssignGenerations(t *kin.Tree) map[int]int {
	people := t.People()
	generations := make(map[int]int, len(people))
	if len(people) == 0 {
		return generations
	}

	parents := resolvedParents(t, people)
	pulls, pullCount := spousePulls(t, parents)

	pending := make(map[int]int, len(people))
	best := make(map[int]int, len(people))
	queue := make([]int, 0, len(people))
	for _, p := range people {
		if deg := len(parents[p.ID]) + pullCount[p.ID]; deg == 0 {
			queue = append(queue, p.ID)
		} else {
			pending[p.ID] = deg
		}
	}
	if len(queue) == 0 {
		queue = append(queue, people[0].ID)
	}

	for head := 0; head < len(queue); head++ {
		id := queue[head]
		if _, seen := generations[id]; seen {
			continue
		}
		gen := best[id]
		generations[id] = gen

		for _, childID := range t.Children(id) {
			if childID == id {
				continue
			}
			if _, seen := generations[childID]; seen {
				continue
			}
			if gen+1 > best[childID] {
				best[childID] = gen + 1
			}
			pending[childID]--
			if pending[childID] == 0 {
				queue = append(queue, childID)
			}
		}

		for _, spouseID := range pulls[id] {
			if _, seen := generations[spouseID]; seen {
				continue
			}
			if gen > best[spouseID] {
				best[spouseID] = gen
			}
			pending[spouseID]--
			if pending[spouseID] == 0 {
				queue = append(queue, spouseID)
			}
		}
	}

	for _, p := range people {
		if _, seen := generations[p.ID]; !seen {
			generations[p.ID] = 0
		}
	}

	return generations
}

// resolvedParents indexes each person's usable parent links. References to
// missing people or to oneself are dropped; a father and mother recorded as
// the same person count once.
func resolvedParents(t *kin.Tree, people []kin.Person) map[int][]int {
	parents := make(map[int][]int, len(people))
	for _, p := range people {
		for _, parentID := range [2]int{p.FatherID, p.MotherID} {
			if parentID == 0 || parentID == p.ID {
				continue
			}
			if _, ok := t.Person(parentID); !ok {
				continue
			}
			if !slices.Contains(parents[p.ID], parentID) {
				parents[p.ID] = append(parents[p.ID], parentID)
			}
		}
	}
	return parents
}

// spousePulls indexes marriages where one spouse has resolvable ancestry
// and the other has none: the latter follows the former's generation. The
// returned count is the number of anchors each pulled person waits on.
func spousePulls(t *kin.Tree, parents map[int][]int) (map[int][]int, map[int]int) {
	pulls := make(map[int][]int)
	count := make(map[int]int)
	for _, m := range t.Marriages() {
		for _, pair := range [2][2]int{{m.Spouse1ID, m.Spouse2ID}, {m.Spouse2ID, m.Spouse1ID}} {
			anchor, follower := pair[0], pair[1]
			if anchor == 0 || follower == 0 || anchor == follower {
				continue
			}
			if len(parents[anchor]) == 0 || len(parents[follower]) != 0 {
				continue
			}
			if _, ok := t.Person(follower); !ok {
				continue
			}
			if !slices.Contains(pulls[anchor], follower) {
				pulls[anchor] = append(pulls[anchor], follower)
				count[follower]++
			}
		}
	}
	return pulls, count
}
