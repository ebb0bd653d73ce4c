package treejson

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ancestree/ancestree/pkg/kin"
)

// ReadJSON decodes a JSON tree document from r into a Tree.
//
// The input must be a JSON object with a "people" array and an optional
// "marriages" array:
//
//	{
//	  "people": [{"id": 1}, {"id": 2, "father_id": 1}],
//	  "marriages": [{"id": 1, "spouse1_id": 1, "spouse2_id": 2}]
//	}
//
// Records with non-positive or duplicate IDs are dropped; references to
// absent people are kept and treated as unknown, consistent with every
// other tree source. ReadJSON fails only on malformed JSON.
//
// The returned Tree is independent of r and can be used safely after
// ReadJSON returns. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*kin.Tree, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToTree(doc), nil
}

// WriteJSON encodes a Tree as an indented JSON document and writes it to w.
// The output can be re-imported with [ReadJSON] for round-trip processing.
func WriteJSON(t *kin.Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromTree(t)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ImportFile reads a JSON tree file at path and returns the decoded Tree.
// The error wraps the underlying cause with the file path for context.
func ImportFile(path string) (*kin.Tree, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

// ExportFile writes a Tree as a JSON file at path, creating or truncating
// the file.
func ExportFile(t *kin.Tree, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteJSON(t, f); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
