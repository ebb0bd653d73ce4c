package kin

import (
	"errors"
	"slices"
	"testing"
)

func TestDateIsZero(t *testing.T) {
	if !(Date{}).IsZero() {
		t.Error("empty date must report IsZero")
	}
	for _, d := range []Date{{Year: 1900}, {Month: 6}, {Day: 12}} {
		if d.IsZero() {
			t.Errorf("%+v reported IsZero", d)
		}
	}
}

func TestPersonFullName(t *testing.T) {
	tests := []struct {
		first, last string
		want        string
	}{
		{"Anna", "Berg", "Anna Berg"},
		{"Anna", "", "Anna"},
		{"", "Berg", "Berg"},
		{"", "", ""},
	}
	for _, tt := range tests {
		p := Person{FirstName: tt.first, LastName: tt.last}
		if got := p.FullName(); got != tt.want {
			t.Errorf("FullName(%q, %q) = %q, want %q", tt.first, tt.last, got, tt.want)
		}
	}
}

func TestPersonPredicates(t *testing.T) {
	if (Person{}).IsDeceased() {
		t.Error("person with no death year reported deceased")
	}
	if !(Person{Death: Date{Year: 1990}}).IsDeceased() {
		t.Error("person with a death year not reported deceased")
	}
	if !(Person{}).IsFounder() {
		t.Error("parentless person not reported as founder")
	}
	if (Person{MotherID: 2}).IsFounder() {
		t.Error("person with a recorded mother reported as founder")
	}
}

func TestMarriageOtherSpouse(t *testing.T) {
	m := Marriage{ID: 1, Spouse1ID: 10, Spouse2ID: 20}
	if got := m.OtherSpouse(10); got != 20 {
		t.Errorf("OtherSpouse(10) = %d, want 20", got)
	}
	if got := m.OtherSpouse(20); got != 10 {
		t.Errorf("OtherSpouse(20) = %d, want 10", got)
	}
	if got := m.OtherSpouse(99); got != 0 {
		t.Errorf("OtherSpouse(99) = %d, want 0 for a non-member", got)
	}

	half := Marriage{ID: 2, Spouse1ID: 10}
	if got := half.OtherSpouse(10); got != 0 {
		t.Errorf("OtherSpouse with absent partner = %d, want 0", got)
	}
}

func TestAddPerson(t *testing.T) {
	tree := New()

	if err := tree.AddPerson(Person{ID: 1, FirstName: "Anna"}); err != nil {
		t.Fatalf("AddPerson: %v", err)
	}
	if err := tree.AddPerson(Person{ID: 0}); !errors.Is(err, ErrInvalidPersonID) {
		t.Errorf("zero ID: err = %v, want ErrInvalidPersonID", err)
	}
	if err := tree.AddPerson(Person{ID: -3}); !errors.Is(err, ErrInvalidPersonID) {
		t.Errorf("negative ID: err = %v, want ErrInvalidPersonID", err)
	}
	if err := tree.AddPerson(Person{ID: 1, FirstName: "Other"}); !errors.Is(err, ErrDuplicatePersonID) {
		t.Errorf("duplicate ID: err = %v, want ErrDuplicatePersonID", err)
	}

	p, ok := tree.Person(1)
	if !ok || p.FirstName != "Anna" {
		t.Errorf("Person(1) = %+v, %v; want the first insertion kept", p, ok)
	}
	if tree.PersonCount() != 1 {
		t.Errorf("PersonCount = %d, want 1", tree.PersonCount())
	}
}

func TestAddMarriage(t *testing.T) {
	tree := New()

	if err := tree.AddMarriage(Marriage{ID: 1, Spouse1ID: 10, Spouse2ID: 20}); err != nil {
		t.Fatalf("AddMarriage: %v", err)
	}
	if err := tree.AddMarriage(Marriage{ID: 0}); !errors.Is(err, ErrInvalidMarriageID) {
		t.Errorf("zero ID: err = %v, want ErrInvalidMarriageID", err)
	}
	if err := tree.AddMarriage(Marriage{ID: 1}); !errors.Is(err, ErrDuplicateMarriageID) {
		t.Errorf("duplicate ID: err = %v, want ErrDuplicateMarriageID", err)
	}

	if got := tree.MarriagesOf(10); len(got) != 1 || got[0].ID != 1 {
		t.Errorf("MarriagesOf(10) = %v, want the one marriage", got)
	}
	if got := tree.MarriagesOf(20); len(got) != 1 {
		t.Errorf("MarriagesOf(20) = %v, want the one marriage", got)
	}
}

func TestAddMarriage_SelfMarriageIndexedOnce(t *testing.T) {
	tree := New()
	if err := tree.AddMarriage(Marriage{ID: 1, Spouse1ID: 5, Spouse2ID: 5}); err != nil {
		t.Fatalf("AddMarriage: %v", err)
	}
	if got := tree.MarriagesOf(5); len(got) != 1 {
		t.Errorf("self-marriage indexed %d times, want 1", len(got))
	}
}

func TestBuildSkipsInvalidRecords(t *testing.T) {
	tree := Build(
		[]Person{{ID: 1}, {ID: 0}, {ID: 1, FirstName: "dup"}, {ID: 2}},
		[]Marriage{{ID: 1, Spouse1ID: 1, Spouse2ID: 2}, {ID: -1}, {ID: 1}},
	)

	if tree.PersonCount() != 2 {
		t.Errorf("PersonCount = %d, want 2", tree.PersonCount())
	}
	if tree.MarriageCount() != 1 {
		t.Errorf("MarriageCount = %d, want 1", tree.MarriageCount())
	}
	if p, _ := tree.Person(1); p.FirstName != "" {
		t.Errorf("duplicate overwrote original: %+v", p)
	}
}

func TestTreeIterationSorted(t *testing.T) {
	tree := Build(
		[]Person{{ID: 7}, {ID: 2}, {ID: 5}},
		[]Marriage{{ID: 9, Spouse1ID: 7, Spouse2ID: 2}, {ID: 3, Spouse1ID: 2, Spouse2ID: 5}},
	)

	var ids []int
	for _, p := range tree.People() {
		ids = append(ids, p.ID)
	}
	if !slices.Equal(ids, []int{2, 5, 7}) {
		t.Errorf("People order = %v, want ascending IDs", ids)
	}

	ids = ids[:0]
	for _, m := range tree.Marriages() {
		ids = append(ids, m.ID)
	}
	if !slices.Equal(ids, []int{3, 9}) {
		t.Errorf("Marriages order = %v, want ascending IDs", ids)
	}
}

func TestChildren(t *testing.T) {
	tree := Build([]Person{
		{ID: 1},
		{ID: 2},
		{ID: 3, FatherID: 1, MotherID: 2},
		{ID: 4, FatherID: 1},
	}, nil)

	if got := tree.Children(1); !slices.Equal(got, []int{3, 4}) {
		t.Errorf("Children(1) = %v, want [3 4]", got)
	}
	if got := tree.Children(2); !slices.Equal(got, []int{3}) {
		t.Errorf("Children(2) = %v, want [3]", got)
	}
	if got := tree.Children(3); len(got) != 0 {
		t.Errorf("Children(3) = %v, want none", got)
	}
}

func TestFounders(t *testing.T) {
	tree := Build([]Person{
		{ID: 1},
		{ID: 2},
		{ID: 3, FatherID: 1, MotherID: 2},
		{ID: 4, MotherID: 2},
	}, nil)

	founders := tree.Founders()
	var ids []int
	for _, p := range founders {
		ids = append(ids, p.ID)
	}
	if !slices.Equal(ids, []int{1, 2}) {
		t.Errorf("Founders = %v, want [1 2]", ids)
	}
}

func TestSpouseMarriage(t *testing.T) {
	tree := Build(
		[]Person{{ID: 1}, {ID: 2}},
		[]Marriage{
			{ID: 8, Spouse1ID: 2, Spouse2ID: 1}, // reversed order, higher ID
			{ID: 4, Spouse1ID: 1, Spouse2ID: 2},
		},
	)

	m, ok := tree.SpouseMarriage(1, 2)
	if !ok {
		t.Fatal("SpouseMarriage(1, 2) found nothing")
	}
	if m.ID != 4 {
		t.Errorf("SpouseMarriage picked marriage %d, want lowest ID 4", m.ID)
	}

	if _, ok := tree.SpouseMarriage(2, 1); !ok {
		t.Error("SpouseMarriage must be symmetric in its arguments")
	}
	if _, ok := tree.SpouseMarriage(1, 9); ok {
		t.Error("SpouseMarriage found a marriage for an unmarried pair")
	}
	if _, ok := tree.SpouseMarriage(0, 1); ok {
		t.Error("SpouseMarriage must reject the unknown ID zero")
	}
}
