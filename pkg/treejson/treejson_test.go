package treejson

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ancestree/ancestree/pkg/kin"
)

func sampleTree() *kin.Tree {
	return kin.Build(
		[]kin.Person{
			{ID: 1, FirstName: "Abel", LastName: "Berg", Birth: kin.Date{Year: 1900, Month: 3, Day: 14}},
			{ID: 2, FirstName: "Berta", LastName: "Berg", MaidenName: "Holm", Gender: "f", Birth: kin.Date{Year: 1902}},
			{ID: 3, FirstName: "Carl", FatherID: 1, MotherID: 2, FamilyID: 7, Notes: "emigrated"},
		},
		[]kin.Marriage{
			{ID: 1, Spouse1ID: 1, Spouse2ID: 2, Married: kin.Date{Year: 1924, Month: 6}},
		},
	)
}

func TestRoundTrip(t *testing.T) {
	original := sampleTree()

	var buf bytes.Buffer
	if err := WriteJSON(original, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	restored, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	if !reflect.DeepEqual(restored.People(), original.People()) {
		t.Errorf("people changed in round trip:\ngot  %+v\nwant %+v", restored.People(), original.People())
	}
	if !reflect.DeepEqual(restored.Marriages(), original.Marriages()) {
		t.Errorf("marriages changed in round trip:\ngot  %+v\nwant %+v", restored.Marriages(), original.Marriages())
	}
}

func TestFromTree_OmitsAbsentDates(t *testing.T) {
	doc := FromTree(kin.Build([]kin.Person{{ID: 1}}, nil))
	if doc.People[0].Birth != nil {
		t.Error("unrecorded birth serialized as a date record")
	}

	var buf bytes.Buffer
	if err := WriteJSON(kin.Build([]kin.Person{{ID: 1}}, nil), &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if strings.Contains(buf.String(), "birth") {
		t.Errorf("encoding contains an absent date: %s", buf.String())
	}
}

func TestReadJSON_MalformedInput(t *testing.T) {
	if _, err := ReadJSON(strings.NewReader("{not json")); err == nil {
		t.Error("malformed JSON did not error")
	}
}

func TestReadJSON_DropsInvalidRecords(t *testing.T) {
	input := `{
		"people": [{"id": 1}, {"id": 0}, {"id": 1, "first_name": "dup"}],
		"marriages": [{"id": 1, "spouse1_id": 1, "spouse2_id": 404}]
	}`

	tree, err := ReadJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if tree.PersonCount() != 1 {
		t.Errorf("PersonCount = %d, want 1 (invalid records dropped)", tree.PersonCount())
	}
	// Unknown spouse references are tolerated, not dropped.
	if tree.MarriageCount() != 1 {
		t.Errorf("MarriageCount = %d, want 1", tree.MarriageCount())
	}
}

func TestCanonicalDeterministic(t *testing.T) {
	a, err := Canonical(sampleTree())
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	b, err := Canonical(sampleTree())
	if err != nil {
		t.Fatalf("Canonical: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("canonical encodings of equal trees differ")
	}
}

func TestImportExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")

	if err := ExportFile(sampleTree(), path); err != nil {
		t.Fatalf("ExportFile: %v", err)
	}
	tree, err := ImportFile(path)
	if err != nil {
		t.Fatalf("ImportFile: %v", err)
	}
	if tree.PersonCount() != 3 || tree.MarriageCount() != 1 {
		t.Errorf("restored %d people, %d marriages; want 3 and 1",
			tree.PersonCount(), tree.MarriageCount())
	}

	if _, err := ImportFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("importing a missing file did not error")
	}
}
