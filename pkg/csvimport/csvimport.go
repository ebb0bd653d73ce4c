// Package csvimport reads family data sets from CSV files.
//
// A data set is a pair of files: people.csv and marriages.csv. Columns are
// resolved by header name, so column order does not matter and unknown
// columns are ignored. The only required column in each file is "id".
//
// Import is forgiving in the same way as every other tree source: rows that
// cannot be used (missing ID, unparseable ID, duplicate ID) are skipped and
// reported as warnings instead of failing the import. Only structural
// problems - an unreadable file, a missing header row - are errors.
package csvimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ancestree/ancestree/pkg/errors"
	"github.com/ancestree/ancestree/pkg/kin"
)

// PeopleFilename and MarriagesFilename are the expected file names inside a
// data set directory.
const (
	PeopleFilename    = "people.csv"
	MarriagesFilename = "marriages.csv"
)

// Warning describes one skipped or degraded row.
type Warning struct {
	File    string
	Line    int // 1-based line number, including the header
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s:%d: %s", w.File, w.Line, w.Message)
}

// ImportDir reads people.csv and a (optional) marriages.csv from dir and
// builds a Tree. Warnings accumulate across both files.
func ImportDir(dir string) (*kin.Tree, []Warning, error) {
	peoplePath := filepath.Join(dir, PeopleFilename)
	f, err := os.Open(peoplePath)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", peoplePath)
	}
	people, warnings, err := ReadPeople(f)
	f.Close()
	if err != nil {
		return nil, nil, err
	}

	var marriages []kin.Marriage
	marriagesPath := filepath.Join(dir, MarriagesFilename)
	if mf, err := os.Open(marriagesPath); err == nil {
		var mw []Warning
		marriages, mw, err = ReadMarriages(mf)
		mf.Close()
		if err != nil {
			return nil, nil, err
		}
		warnings = append(warnings, mw...)
	} else if !os.IsNotExist(err) {
		return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", marriagesPath)
	}

	return kin.Build(people, marriages), warnings, nil
}

// ReadPeople decodes person rows from r. See the package documentation for
// the row-level tolerance rules.
func ReadPeople(r io.Reader) ([]kin.Person, []Warning, error) {
	rows, header, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := header["id"]; !ok {
		return nil, nil, errors.New(errors.ErrCodeInvalidData, "%s has no id column", PeopleFilename)
	}

	var (
		people   []kin.Person
		warnings []Warning
		seen     = make(map[int]bool)
	)
	for _, row := range rows {
		id, err := row.intField("id")
		if err != nil || id <= 0 {
			warnings = append(warnings, row.warning(PeopleFilename, "skipped: missing or invalid id"))
			continue
		}
		if seen[id] {
			warnings = append(warnings, row.warning(PeopleFilename, fmt.Sprintf("skipped: duplicate id %d", id)))
			continue
		}
		seen[id] = true

		p := kin.Person{
			ID:         id,
			FirstName:  row.field("first_name"),
			LastName:   row.field("last_name"),
			MaidenName: row.field("maiden_name"),
			Gender:     row.field("gender"),
			Notes:      row.field("notes"),
		}
		p.Birth, warnings = row.dateField("birth", PeopleFilename, warnings)
		p.Death, warnings = row.dateField("death", PeopleFilename, warnings)
		p.Arrival, warnings = row.dateField("arrival", PeopleFilename, warnings)
		p.FatherID, warnings = row.refField("father_id", PeopleFilename, warnings)
		p.MotherID, warnings = row.refField("mother_id", PeopleFilename, warnings)
		p.FamilyID, warnings = row.refField("family_id", PeopleFilename, warnings)

		people = append(people, p)
	}
	return people, warnings, nil
}

// ReadMarriages decodes marriage rows from r.
func ReadMarriages(r io.Reader) ([]kin.Marriage, []Warning, error) {
	rows, header, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := header["id"]; !ok {
		return nil, nil, errors.New(errors.ErrCodeInvalidData, "%s has no id column", MarriagesFilename)
	}

	var (
		marriages []kin.Marriage
		warnings  []Warning
		seen      = make(map[int]bool)
	)
	for _, row := range rows {
		id, err := row.intField("id")
		if err != nil || id <= 0 {
			warnings = append(warnings, row.warning(MarriagesFilename, "skipped: missing or invalid id"))
			continue
		}
		if seen[id] {
			warnings = append(warnings, row.warning(MarriagesFilename, fmt.Sprintf("skipped: duplicate id %d", id)))
			continue
		}
		seen[id] = true

		m := kin.Marriage{
			ID:          id,
			DissolvedBy: row.field("dissolved_by"),
		}
		m.Spouse1ID, warnings = row.refField("spouse1_id", MarriagesFilename, warnings)
		m.Spouse2ID, warnings = row.refField("spouse2_id", MarriagesFilename, warnings)
		m.Married, warnings = row.dateField("married", MarriagesFilename, warnings)
		m.Dissolved, warnings = row.dateField("dissolved", MarriagesFilename, warnings)

		marriages = append(marriages, m)
	}
	return marriages, warnings, nil
}

// row pairs one record with its header mapping and source line.
type row struct {
	header map[string]int
	values []string
	line   int
}

// readTable reads all records and lower-cases the header for lookup.
func readTable(r io.Reader) ([]row, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // ragged rows are handled per field
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidData, err, "read csv")
	}
	if len(records) == 0 {
		return nil, nil, errors.New(errors.ErrCodeInvalidData, "empty file: header row required")
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}

	rows := make([]row, 0, len(records)-1)
	for i, rec := range records[1:] {
		rows = append(rows, row{header: header, values: rec, line: i + 2})
	}
	return rows, header, nil
}

func (r row) field(name string) string {
	idx, ok := r.header[name]
	if !ok || idx >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[idx])
}

func (r row) intField(name string) (int, error) {
	v := r.field(name)
	if v == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.Atoi(v)
}

// refField parses an optional reference column. Empty means unknown;
// unparseable values degrade to unknown with a warning.
func (r row) refField(name, file string, warnings []Warning) (int, []Warning) {
	v := r.field(name)
	if v == "" {
		return 0, warnings
	}
	id, err := strconv.Atoi(v)
	if err != nil || id < 0 {
		return 0, append(warnings, r.warning(file, fmt.Sprintf("invalid %s %q ignored", name, v)))
	}
	return id, warnings
}

// dateField parses an optional date column in YYYY, YYYY-MM, or YYYY-MM-DD
// form. Unparseable values degrade to unknown with a warning.
func (r row) dateField(name, file string, warnings []Warning) (kin.Date, []Warning) {
	v := r.field(name)
	if v == "" {
		return kin.Date{}, warnings
	}

	d, err := parseDate(v)
	if err != nil {
		return kin.Date{}, append(warnings, r.warning(file, fmt.Sprintf("invalid %s %q ignored", name, v)))
	}
	return d, warnings
}

func (r row) warning(file, message string) Warning {
	return Warning{File: file, Line: r.line, Message: message}
}

// parseDate accepts YYYY, YYYY-MM, and YYYY-MM-DD.
func parseDate(v string) (kin.Date, error) {
	parts := strings.Split(v, "-")
	if len(parts) > 3 {
		return kin.Date{}, fmt.Errorf("too many components")
	}

	var d kin.Date
	targets := []*int{&d.Year, &d.Month, &d.Day}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return kin.Date{}, fmt.Errorf("bad component %q", part)
		}
		*targets[i] = n
	}
	if d.Year == 0 {
		return kin.Date{}, fmt.Errorf("year required")
	}
	if d.Month < 0 || d.Month > 12 || d.Day < 0 || d.Day > 31 {
		return kin.Date{}, fmt.Errorf("out of range")
	}
	return d, nil
}
