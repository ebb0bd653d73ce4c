package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ancestree/ancestree/pkg/csvimport"
	"github.com/ancestree/ancestree/pkg/kin"
	"github.com/ancestree/ancestree/pkg/treejson"
)

// Load reads the input source and builds a family tree. It returns the tree
// together with the raw source bytes, which callers hash for cache keys.
//
// Malformed records are dropped with a warning rather than failing the load;
// only unreadable files and syntactically invalid JSON are errors.
func Load(opts Options) (*kin.Tree, []byte, error) {
	switch opts.Source {
	case SourceCSV:
		return loadCSV(opts)
	default:
		return loadJSON(opts)
	}
}

// loadJSON builds a tree from a JSON document, either inline or from a file.
func loadJSON(opts Options) (*kin.Tree, []byte, error) {
	raw := opts.Data
	if opts.Path != "" {
		data, err := os.ReadFile(opts.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", opts.Path, err)
		}
		raw = data
	}

	t, err := treejson.ReadJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, err
	}
	return t, raw, nil
}

// loadCSV builds a tree from a directory holding people.csv and, optionally,
// marriages.csv. The raw bytes cover both files so the cache key changes
// when either does.
func loadCSV(opts Options) (*kin.Tree, []byte, error) {
	peoplePath := filepath.Join(opts.Path, csvimport.PeopleFilename)
	peopleData, err := os.ReadFile(peoplePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", peoplePath, err)
	}

	marriagesPath := filepath.Join(opts.Path, csvimport.MarriagesFilename)
	marriageData, err := os.ReadFile(marriagesPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("read %s: %w", marriagesPath, err)
		}
		marriageData = nil
	}

	people, warnings, err := csvimport.ReadPeople(bytes.NewReader(peopleData))
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", peoplePath, err)
	}
	logWarnings(opts, warnings)

	var marriages []kin.Marriage
	if len(marriageData) > 0 {
		var mw []csvimport.Warning
		marriages, mw, err = csvimport.ReadMarriages(bytes.NewReader(marriageData))
		if err != nil {
			return nil, nil, fmt.Errorf("parse %s: %w", marriagesPath, err)
		}
		logWarnings(opts, mw)
	}

	raw := make([]byte, 0, len(peopleData)+len(marriageData)+1)
	raw = append(raw, peopleData...)
	raw = append(raw, 0)
	raw = append(raw, marriageData...)

	return kin.Build(people, marriages), raw, nil
}

func logWarnings(opts Options, warnings []csvimport.Warning) {
	for _, w := range warnings {
		opts.Logger.Warn("skipped csv record", "file", w.File, "line", w.Line, "reason", w.Message)
	}
}
