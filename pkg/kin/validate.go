package kin

import "fmt"

// Issue describes one data-quality problem found by validation. Issues are
// advisory: the layout engine absorbs all of these with fallback rules, so
// validation exists to let tooling report problems, not to gate processing.
type Issue struct {
	// Kind is a stable machine-readable tag (e.g. "self-parent").
	Kind string
	// PersonID or MarriageID identifies the offending record; the unused one
	// is zero.
	PersonID   int
	MarriageID int
	// Message is the human-readable description.
	Message string
}

func (i Issue) String() string { return i.Message }

// ValidateParentage reports parent-reference problems: self-parentage,
// references to unknown people, and cyclic ancestor chains.
func (t *Tree) ValidateParentage() []Issue {
	var issues []Issue

	for _, p := range t.People() {
		for _, parentID := range [2]int{p.FatherID, p.MotherID} {
			if parentID == 0 {
				continue
			}
			if parentID == p.ID {
				issues = append(issues, Issue{
					Kind:     "self-parent",
					PersonID: p.ID,
					Message:  fmt.Sprintf("person %d (%s) is recorded as their own parent", p.ID, p.FullName()),
				})
				continue
			}
			if _, ok := t.people[parentID]; !ok {
				issues = append(issues, Issue{
					Kind:     "unknown-parent",
					PersonID: p.ID,
					Message:  fmt.Sprintf("person %d (%s) references unknown parent %d", p.ID, p.FullName(), parentID),
				})
			}
		}
	}

	issues = append(issues, t.findParentCycles()...)
	return issues
}

// ValidateMarriages reports marriage problems: self-marriage, marriages with
// no resolvable spouse, and references to unknown people.
func (t *Tree) ValidateMarriages() []Issue {
	var issues []Issue

	for _, m := range t.Marriages() {
		if m.Spouse1ID == 0 && m.Spouse2ID == 0 {
			issues = append(issues, Issue{
				Kind:       "empty-marriage",
				MarriageID: m.ID,
				Message:    fmt.Sprintf("marriage %d has no recorded spouses", m.ID),
			})
			continue
		}
		if m.Spouse1ID != 0 && m.Spouse1ID == m.Spouse2ID {
			issues = append(issues, Issue{
				Kind:       "self-marriage",
				MarriageID: m.ID,
				Message:    fmt.Sprintf("marriage %d records person %d married to themselves", m.ID, m.Spouse1ID),
			})
		}
		for _, spouseID := range [2]int{m.Spouse1ID, m.Spouse2ID} {
			if spouseID == 0 {
				continue
			}
			if _, ok := t.people[spouseID]; !ok {
				issues = append(issues, Issue{
					Kind:       "unknown-spouse",
					MarriageID: m.ID,
					Message:    fmt.Sprintf("marriage %d references unknown person %d", m.ID, spouseID),
				})
			}
		}
	}

	return issues
}

// findParentCycles detects cyclic parent chains using depth-first search
// with white/gray/black coloring over the parent->child relation.
func (t *Tree) findParentCycles() []Issue {
	const (
		white = iota
		gray
		black
	)

	color := make(map[int]int, len(t.people))
	var issues []Issue

	var dfs func(id int)
	dfs = func(id int) {
		color[id] = gray
		for _, childID := range t.childrenOf[id] {
			if _, ok := t.people[childID]; !ok {
				continue
			}
			switch color[childID] {
			case white:
				dfs(childID)
			case gray:
				issues = append(issues, Issue{
					Kind:     "parent-cycle",
					PersonID: childID,
					Message:  fmt.Sprintf("person %d is part of a cyclic parent chain", childID),
				})
			}
		}
		color[id] = black
	}

	for _, p := range t.People() {
		if color[p.ID] == white {
			dfs(p.ID)
		}
	}
	return issues
}
