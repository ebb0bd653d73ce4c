// Package treejson is the canonical serialization format for family trees.
// Used for API requests and responses, storage, caching, and file exchange
// with other genealogy tooling.
//
// The format is human-readable and designed for round-trip fidelity:
// import → layout → export → re-import produces identical results.
package treejson

import (
	"encoding/json"

	"github.com/ancestree/ancestree/pkg/kin"
)

// =============================================================================
// Document - Family Tree Serialization
// =============================================================================

// Document is the serialized form of one family data set.
type Document struct {
	People    []PersonRecord   `json:"people" bson:"people"`
	Marriages []MarriageRecord `json:"marriages,omitempty" bson:"marriages,omitempty"`
}

// DateRecord is a partial calendar date. Absent parts are zero and omitted
// from the encoding; a fully zero date is omitted entirely.
type DateRecord struct {
	Year  int `json:"year,omitempty" bson:"year,omitempty"`
	Month int `json:"month,omitempty" bson:"month,omitempty"`
	Day   int `json:"day,omitempty" bson:"day,omitempty"`
}

// PersonRecord is the serialized form of one person.
type PersonRecord struct {
	ID         int    `json:"id" bson:"id"`
	FirstName  string `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty" bson:"last_name,omitempty"`
	MaidenName string `json:"maiden_name,omitempty" bson:"maiden_name,omitempty"`
	Gender     string `json:"gender,omitempty" bson:"gender,omitempty"`

	Birth   *DateRecord `json:"birth,omitempty" bson:"birth,omitempty"`
	Death   *DateRecord `json:"death,omitempty" bson:"death,omitempty"`
	Arrival *DateRecord `json:"arrival,omitempty" bson:"arrival,omitempty"`

	FatherID int `json:"father_id,omitempty" bson:"father_id,omitempty"`
	MotherID int `json:"mother_id,omitempty" bson:"mother_id,omitempty"`
	FamilyID int `json:"family_id,omitempty" bson:"family_id,omitempty"`

	Notes string `json:"notes,omitempty" bson:"notes,omitempty"`
}

// MarriageRecord is the serialized form of one marriage.
type MarriageRecord struct {
	ID        int `json:"id" bson:"id"`
	Spouse1ID int `json:"spouse1_id,omitempty" bson:"spouse1_id,omitempty"`
	Spouse2ID int `json:"spouse2_id,omitempty" bson:"spouse2_id,omitempty"`

	Married     *DateRecord `json:"married,omitempty" bson:"married,omitempty"`
	Dissolved   *DateRecord `json:"dissolved,omitempty" bson:"dissolved,omitempty"`
	DissolvedBy string      `json:"dissolved_by,omitempty" bson:"dissolved_by,omitempty"`
}

// =============================================================================
// Tree ↔ Document Conversion
// =============================================================================

// FromTree converts a Tree to its serialization format. People and
// marriages are sorted by ID for deterministic output.
func FromTree(t *kin.Tree) Document {
	people := t.People()
	marriages := t.Marriages()

	doc := Document{
		People: make([]PersonRecord, len(people)),
	}
	for i, p := range people {
		doc.People[i] = personRecord(p)
	}
	if len(marriages) > 0 {
		doc.Marriages = make([]MarriageRecord, len(marriages))
		for i, m := range marriages {
			doc.Marriages[i] = marriageRecord(m)
		}
	}
	return doc
}

// ToTree converts a Document to a Tree using the forgiving constructor:
// records with non-positive or duplicate IDs are dropped rather than
// rejected, matching how all other tree sources behave.
func ToTree(doc Document) *kin.Tree {
	people := make([]kin.Person, len(doc.People))
	for i, r := range doc.People {
		people[i] = kin.Person{
			ID:         r.ID,
			FirstName:  r.FirstName,
			LastName:   r.LastName,
			MaidenName: r.MaidenName,
			Gender:     r.Gender,
			Birth:      toDate(r.Birth),
			Death:      toDate(r.Death),
			Arrival:    toDate(r.Arrival),
			FatherID:   r.FatherID,
			MotherID:   r.MotherID,
			FamilyID:   r.FamilyID,
			Notes:      r.Notes,
		}
	}

	marriages := make([]kin.Marriage, len(doc.Marriages))
	for i, r := range doc.Marriages {
		marriages[i] = kin.Marriage{
			ID:          r.ID,
			Spouse1ID:   r.Spouse1ID,
			Spouse2ID:   r.Spouse2ID,
			Married:     toDate(r.Married),
			Dissolved:   toDate(r.Dissolved),
			DissolvedBy: r.DissolvedBy,
		}
	}

	return kin.Build(people, marriages)
}

// UnmarshalDocument deserializes JSON bytes to a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Canonical returns the compact deterministic encoding of a tree, used as
// cache-key input. Equal trees always produce equal bytes.
func Canonical(t *kin.Tree) ([]byte, error) {
	return json.Marshal(FromTree(t))
}

// =============================================================================
// Internal Helpers
// =============================================================================

func personRecord(p kin.Person) PersonRecord {
	return PersonRecord{
		ID:         p.ID,
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		MaidenName: p.MaidenName,
		Gender:     p.Gender,
		Birth:      fromDate(p.Birth),
		Death:      fromDate(p.Death),
		Arrival:    fromDate(p.Arrival),
		FatherID:   p.FatherID,
		MotherID:   p.MotherID,
		FamilyID:   p.FamilyID,
		Notes:      p.Notes,
	}
}

func marriageRecord(m kin.Marriage) MarriageRecord {
	return MarriageRecord{
		ID:          m.ID,
		Spouse1ID:   m.Spouse1ID,
		Spouse2ID:   m.Spouse2ID,
		Married:     fromDate(m.Married),
		Dissolved:   fromDate(m.Dissolved),
		DissolvedBy: m.DissolvedBy,
	}
}

func toDate(r *DateRecord) kin.Date {
	if r == nil {
		return kin.Date{}
	}
	return kin.Date{Year: r.Year, Month: r.Month, Day: r.Day}
}

func fromDate(d kin.Date) *DateRecord {
	if d.IsZero() {
		return nil
	}
	return &DateRecord{Year: d.Year, Month: d.Month, Day: d.Day}
}
