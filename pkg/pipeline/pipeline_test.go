package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ancestree/ancestree/pkg/cache"
	"github.com/ancestree/ancestree/pkg/layout"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"dot", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateSource(t *testing.T) {
	tests := []struct {
		source  string
		wantErr bool
	}{
		{"json", false},
		{"csv", false},
		{"invalid", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateSource(tt.source)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateSource(%q) error = %v, wantErr %v", tt.source, err, tt.wantErr)
		}
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	// Missing path and data
	opts := Options{}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Missing path/data should fail")
	}

	// Inline data without path is fine for json
	opts = Options{Data: []byte(`{"people":[]}`)}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("Inline data should pass: %v", err)
	}
	if opts.Source != SourceJSON {
		t.Errorf("Source should default to json, got %q", opts.Source)
	}

	// CSV requires a directory path
	opts = Options{Source: SourceCSV, Data: []byte("id\n1")}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("CSV without path should fail")
	}

	// Unknown source
	opts = Options{Source: "xml", Path: "family.xml"}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Unknown source should fail")
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	def := layout.DefaultSpacing()
	if opts.Spacing != def {
		t.Errorf("Spacing should default to %+v, got %+v", def, opts.Spacing)
	}

	// Explicit overrides survive
	opts = Options{Spacing: layout.Spacing{BoxWidth: 200}}
	opts.SetLayoutDefaults()
	if opts.Spacing.BoxWidth != 200 {
		t.Errorf("BoxWidth override lost: %f", opts.Spacing.BoxWidth)
	}
	if opts.Spacing.BoxHeight != def.BoxHeight {
		t.Errorf("BoxHeight should default to %f, got %f", def.BoxHeight, opts.Spacing.BoxHeight)
	}
}

func TestValidateForRender(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatalf("Defaults should pass: %v", err)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.PNGScale != DefaultPNGScale {
		t.Errorf("PNGScale should be %f, got %f", DefaultPNGScale, opts.PNGScale)
	}

	opts = Options{Formats: []string{"bmp"}}
	if err := opts.ValidateForRender(); err == nil {
		t.Error("Unknown format should fail")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Data: []byte(`{"people":[]}`)}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalSpacing := opts.Spacing
	originalFormats := opts.Formats

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Spacing != originalSpacing {
		t.Error("Spacing changed on second call")
	}
	if len(opts.Formats) != len(originalFormats) {
		t.Error("Formats changed on second call")
	}
}

const familyJSON = `{
	"people": [
		{"id": 1, "first_name": "Abel", "last_name": "Berg", "birth": {"year": 1900}},
		{"id": 2, "first_name": "Berta", "last_name": "Berg", "birth": {"year": 1902}},
		{"id": 3, "first_name": "Carl", "last_name": "Berg", "birth": {"year": 1925}, "father_id": 1, "mother_id": 2}
	],
	"marriages": [
		{"id": 10, "spouse1_id": 1, "spouse2_id": 2, "married": {"year": 1924}}
	]
}`

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "family.json")
	if err := os.WriteFile(path, []byte(familyJSON), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := Options{Path: path}
	if err := opts.ValidateForLoad(); err != nil {
		t.Fatal(err)
	}

	tree, raw, err := Load(opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tree.People()) != 3 {
		t.Errorf("expected 3 people, got %d", len(tree.People()))
	}
	if len(raw) == 0 {
		t.Error("raw source bytes missing")
	}
}

func TestLoadCSVDir(t *testing.T) {
	dir := t.TempDir()
	people := "id,first_name,last_name,birth\n1,Abel,Berg,1900\n2,Berta,Berg,1902\n"
	marriages := "id,spouse1_id,spouse2_id\n10,1,2\n"
	if err := os.WriteFile(filepath.Join(dir, "people.csv"), []byte(people), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "marriages.csv"), []byte(marriages), 0o644); err != nil {
		t.Fatal(err)
	}

	opts := Options{Source: SourceCSV, Path: dir}
	if err := opts.ValidateForLoad(); err != nil {
		t.Fatal(err)
	}

	tree, _, err := Load(opts)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tree.People()) != 2 {
		t.Errorf("expected 2 people, got %d", len(tree.People()))
	}
	if len(tree.Marriages()) != 1 {
		t.Errorf("expected 1 marriage, got %d", len(tree.Marriages()))
	}

	// marriages.csv is optional
	if err := os.Remove(filepath.Join(dir, "marriages.csv")); err != nil {
		t.Fatal(err)
	}
	tree, _, err = Load(opts)
	if err != nil {
		t.Fatalf("Load without marriages.csv: %v", err)
	}
	if len(tree.Marriages()) != 0 {
		t.Errorf("expected 0 marriages, got %d", len(tree.Marriages()))
	}
}

func TestRunnerExecute(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{
		Data:    []byte(familyJSON),
		Formats: []string{FormatSVG, FormatDOT, FormatJSON},
	}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.PersonCount != 3 {
		t.Errorf("PersonCount = %d, want 3", result.Stats.PersonCount)
	}
	if result.Stats.MarriageCount != 1 {
		t.Errorf("MarriageCount = %d, want 1", result.Stats.MarriageCount)
	}
	if result.TreeHash == "" {
		t.Error("TreeHash missing")
	}

	svg := string(result.Artifacts[FormatSVG])
	if !strings.Contains(svg, "Abel Berg") {
		t.Error("SVG missing person name")
	}
	dot := string(result.Artifacts[FormatDOT])
	if !strings.Contains(dot, "digraph family") {
		t.Error("DOT missing digraph header")
	}

	var res layout.Result
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &res); err != nil {
		t.Fatalf("JSON artifact invalid: %v", err)
	}
	if len(res.PersonPositions) != 3 {
		t.Errorf("JSON layout has %d positions, want 3", len(res.PersonPositions))
	}

	// Second run hits all three stage caches
	result2, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !result2.CacheInfo.LoadHit {
		t.Error("second run should hit the tree cache")
	}
	if !result2.CacheInfo.LayoutHit {
		t.Error("second run should hit the layout cache")
	}
	if !result2.CacheInfo.RenderHit {
		t.Error("second run should hit the artifact cache")
	}
	if string(result2.Artifacts[FormatSVG]) != svg {
		t.Error("cached SVG differs from rendered SVG")
	}
}

func TestRunnerExecuteRefresh(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{Data: []byte(familyJSON), Formats: []string{FormatJSON}}
	if _, err := runner.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}

	opts = Options{Data: []byte(familyJSON), Formats: []string{FormatJSON}, Refresh: true}
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if result.CacheInfo.LoadHit || result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("refresh run should bypass all caches")
	}
}

func TestRunnerNilCache(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	opts := Options{Data: []byte(familyJSON)}
	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if result.CacheInfo.LoadHit || result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Error("null cache should never report hits")
	}
	if len(result.Artifacts[FormatSVG]) == 0 {
		t.Error("SVG artifact missing")
	}
}
