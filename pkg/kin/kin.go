// Package kin provides the core genealogical data model: people, marriages,
// and the Tree container that indexes them for layout computation.
//
// A Tree is a read-mostly snapshot of a family data set. It owns nothing
// beyond the records it was given: persistence, editing, and undo/redo live
// in the layers that produce the snapshot. The layout engine in
// [github.com/ancestree/ancestree/pkg/layout] consumes a Tree and never
// mutates it.
package kin

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidPersonID is returned by [Tree.AddPerson] when the person ID
	// is zero or negative. All people must have positive identifiers.
	ErrInvalidPersonID = errors.New("person ID must be positive")

	// ErrDuplicatePersonID is returned by [Tree.AddPerson] when a person with
	// the same ID already exists in the tree.
	ErrDuplicatePersonID = errors.New("duplicate person ID")

	// ErrInvalidMarriageID is returned by [Tree.AddMarriage] when the
	// marriage ID is zero or negative.
	ErrInvalidMarriageID = errors.New("marriage ID must be positive")

	// ErrDuplicateMarriageID is returned by [Tree.AddMarriage] when a
	// marriage with the same ID already exists in the tree.
	ErrDuplicateMarriageID = errors.New("duplicate marriage ID")
)

// Date holds a partial calendar date. Month and Day may be zero when only the
// year is recorded; Year zero means the whole date is unknown.
type Date struct {
	Year  int
	Month int
	Day   int
}

// IsZero reports whether no part of the date is recorded.
func (d Date) IsZero() bool { return d.Year == 0 && d.Month == 0 && d.Day == 0 }

// Person is a single individual in the data set.
//
// All reference fields (FatherID, MotherID, FamilyID) use zero to mean
// "unknown". References to IDs that are absent from the tree are tolerated
// everywhere and treated as unknown; hand-edited data sets cannot guarantee
// referential integrity.
type Person struct {
	ID         int
	FirstName  string
	LastName   string
	MaidenName string
	Gender     string

	Birth   Date
	Death   Date
	Arrival Date

	FatherID int
	MotherID int
	FamilyID int

	Notes string
}

// FullName returns the person's display name.
func (p Person) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// IsDeceased reports whether a death year is recorded.
func (p Person) IsDeceased() bool { return p.Death.Year != 0 }

// IsFounder reports whether the person has neither a recorded father nor a
// recorded mother. Founders seed the generation traversal.
func (p Person) IsFounder() bool { return p.FatherID == 0 && p.MotherID == 0 }

// Marriage links two people. Either spouse ID may be zero when the other
// party is absent from the data set.
type Marriage struct {
	ID        int
	Spouse1ID int
	Spouse2ID int

	Married     Date
	Dissolved   Date
	DissolvedBy string
}

// IsActive reports whether no dissolution year is recorded.
func (m Marriage) IsActive() bool { return m.Dissolved.Year == 0 }

// OtherSpouse returns the spouse ID opposite to personID, or zero if
// personID is not part of the marriage or the other party is unknown.
func (m Marriage) OtherSpouse(personID int) int {
	switch personID {
	case m.Spouse1ID:
		return m.Spouse2ID
	case m.Spouse2ID:
		return m.Spouse1ID
	}
	return 0
}

// Tree is an indexed snapshot of people and marriages.
//
// The zero value is not usable - use New to create a Tree. Tree is not safe
// for concurrent mutation; callers that share a Tree across goroutines must
// finish building it first.
type Tree struct {
	people    map[int]*Person
	marriages map[int]*Marriage

	childrenOf  map[int][]int      // parent ID -> child IDs, insertion order
	marriagesOf map[int][]Marriage // person ID -> marriages involving them
}

// New creates an empty Tree.
func New() *Tree {
	return &Tree{
		people:      make(map[int]*Person),
		marriages:   make(map[int]*Marriage),
		childrenOf:  make(map[int][]int),
		marriagesOf: make(map[int][]Marriage),
	}
}

// Build creates a Tree from record slices, skipping records with
// non-positive IDs. Duplicate IDs keep the first occurrence. This is the
// forgiving constructor used for data that arrives from files or the wire;
// use AddPerson/AddMarriage when errors should surface.
func Build(people []Person, marriages []Marriage) *Tree {
	t := New()
	for _, p := range people {
		_ = t.AddPerson(p)
	}
	for _, m := range marriages {
		_ = t.AddMarriage(m)
	}
	return t
}

// AddPerson adds a person and indexes their parent links.
// Returns ErrInvalidPersonID for non-positive IDs or ErrDuplicatePersonID
// when the ID is already taken.
func (t *Tree) AddPerson(p Person) error {
	if p.ID <= 0 {
		return ErrInvalidPersonID
	}
	if _, exists := t.people[p.ID]; exists {
		return ErrDuplicatePersonID
	}
	person := &p
	t.people[person.ID] = person
	for _, parentID := range [2]int{p.FatherID, p.MotherID} {
		if parentID != 0 {
			t.childrenOf[parentID] = append(t.childrenOf[parentID], p.ID)
		}
	}
	return nil
}

// AddMarriage adds a marriage and indexes it under both spouses.
// Spouse IDs are not required to resolve to people in the tree; unresolved
// spouses simply contribute nothing to layout.
func (t *Tree) AddMarriage(m Marriage) error {
	if m.ID <= 0 {
		return ErrInvalidMarriageID
	}
	if _, exists := t.marriages[m.ID]; exists {
		return ErrDuplicateMarriageID
	}
	marriage := &m
	t.marriages[marriage.ID] = marriage
	if m.Spouse1ID != 0 {
		t.marriagesOf[m.Spouse1ID] = append(t.marriagesOf[m.Spouse1ID], m)
	}
	if m.Spouse2ID != 0 && m.Spouse2ID != m.Spouse1ID {
		t.marriagesOf[m.Spouse2ID] = append(t.marriagesOf[m.Spouse2ID], m)
	}
	return nil
}

// Person returns the person with the given ID and true, or a zero Person and
// false if not found.
func (t *Tree) Person(id int) (Person, bool) {
	p, ok := t.people[id]
	if !ok {
		return Person{}, false
	}
	return *p, true
}

// Marriage returns the marriage with the given ID and true, or a zero
// Marriage and false if not found.
func (t *Tree) Marriage(id int) (Marriage, bool) {
	m, ok := t.marriages[id]
	if !ok {
		return Marriage{}, false
	}
	return *m, true
}

// People returns all people sorted by ID for deterministic iteration.
func (t *Tree) People() []Person {
	ids := slices.Sorted(maps.Keys(t.people))
	out := make([]Person, 0, len(ids))
	for _, id := range ids {
		out = append(out, *t.people[id])
	}
	return out
}

// Marriages returns all marriages sorted by ID for deterministic iteration.
func (t *Tree) Marriages() []Marriage {
	ids := slices.Sorted(maps.Keys(t.marriages))
	out := make([]Marriage, 0, len(ids))
	for _, id := range ids {
		out = append(out, *t.marriages[id])
	}
	return out
}

// PersonCount returns the number of people in the tree.
func (t *Tree) PersonCount() int { return len(t.people) }

// MarriageCount returns the number of marriages in the tree.
func (t *Tree) MarriageCount() int { return len(t.marriages) }

// Children returns the IDs of people recording the given person as father or
// mother, in insertion order. The returned slice is a read-only view.
func (t *Tree) Children(personID int) []int { return t.childrenOf[personID] }

// MarriagesOf returns the marriages involving the given person, in insertion
// order. The returned slice is a read-only view.
func (t *Tree) MarriagesOf(personID int) []Marriage { return t.marriagesOf[personID] }

// Founders returns all people with no recorded parents, sorted by ID.
// These seed the generation traversal.
func (t *Tree) Founders() []Person {
	var out []Person
	for _, p := range t.People() {
		if p.IsFounder() {
			out = append(out, p)
		}
	}
	return out
}

// SpouseMarriage returns the marriage linking the two people, if one exists.
// The spouse order within the marriage record does not matter. When several
// marriages link the same pair, the one with the lowest ID wins.
func (t *Tree) SpouseMarriage(a, b int) (Marriage, bool) {
	if a == 0 || b == 0 {
		return Marriage{}, false
	}
	var best Marriage
	found := false
	for _, m := range t.marriagesOf[a] {
		if m.OtherSpouse(a) != b {
			continue
		}
		if !found || m.ID < best.ID {
			best = m
			found = true
		}
	}
	return best, found
}
