package lookup

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/yaml.v3"

	"github.com/lomloe-tools/curfill/tabular"
)

var testColumns = Columns{
	Competencies:   "specific competencies",
	Descriptors:    "profile-exit descriptors",
	Criteria:       "evaluation criteria",
	KnowledgeItems: "basic knowledge items",
}

func mappingSheet(rows ...[]string) *tabular.Sheet {
	records := [][]string{{
		testColumns.Competencies,
		testColumns.Descriptors,
		testColumns.Criteria,
		testColumns.KnowledgeItems,
	}}
	return tabular.FromRecords("mapping", append(records, rows...))
}

func TestForwardFill(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "merged block",
			in:   []string{"C1", "", "", "C2", ""},
			want: []string{"C1", "C1", "C1", "C2", "C2"},
		},
		{
			name: "leading blanks stay blank",
			in:   []string{"", " ", "C1", ""},
			want: []string{"", "", "C1", "C1"},
		},
		{
			name: "whitespace only counts as blank",
			in:   []string{"C1", "  \t", "C2"},
			want: []string{"C1", "C1", "C2"},
		},
		{
			name: "no values",
			in:   []string{"", ""},
			want: []string{"", ""},
		},
		{
			name: "empty input",
			in:   []string{},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForwardFill(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ForwardFill(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildMergedCells(t *testing.T) {
	tables, err := Build(mappingSheet(
		[]string{"C1", "D1", "", "K1"},
		[]string{"", "D2", "", "K1"},
	), testColumns)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := tables.Competencies.Get("K1"); !reflect.DeepEqual(got, []string{"C1"}) {
		t.Errorf("competencies(K1) = %q, want [C1]", got)
	}
	if got := tables.Descriptors.Get("K1"); !reflect.DeepEqual(got, []string{"D1", "D2"}) {
		t.Errorf("descriptors(K1) = %q, want [D1 D2]", got)
	}
	if got := tables.Criteria.Get("K1"); len(got) != 0 {
		t.Errorf("criteria(K1) = %q, want empty", got)
	}
	if !tables.Criteria.Has("K1") {
		t.Error("criteria table should hold K1 with an empty set")
	}
}

func TestBuildGrouping(t *testing.T) {
	tables, err := Build(mappingSheet(
		[]string{"CE1", "DA", "CR1.1", "S1"},
		[]string{"", "DB", "", "S2"},
		[]string{"", "", "CR1.2", ""},
		[]string{"CE2", "", "", "S1"},
		[]string{"", "DA", "", " S3 "},
	), testColumns)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := map[string]Entry{
		"S1": {Item: "S1", Competencies: []string{"CE1", "CE2"}, Descriptors: []string{"DA", "DB"}, Criteria: []string{"CR1.1", "CR1.2"}},
		"S2": {Item: "S2", Competencies: []string{"CE1"}, Descriptors: []string{"DB"}, Criteria: []string{"CR1.1"}},
		"S3": {Item: "S3", Competencies: []string{"CE2"}, Descriptors: []string{"DA"}, Criteria: []string{"CR1.2"}},
	}

	if got := tables.Items(); !reflect.DeepEqual(got, []string{"S1", "S2", "S3"}) {
		t.Fatalf("Items() = %q, want [S1 S2 S3]", got)
	}
	for item, w := range want {
		if got := tables.Entry(item); !reflect.DeepEqual(got, w) {
			t.Errorf("Entry(%q) mismatch\ngot:  %s\nwant: %s", item, spew.Sdump(got), spew.Sdump(w))
		}
	}
}

func TestBuildLeadingBlankValues(t *testing.T) {
	tables, err := Build(mappingSheet(
		[]string{"", "", "", "K0"},
		[]string{"C1", "D1", "CR1", "K1"},
	), testColumns)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := tables.Competencies.Get("K0"); got != nil {
		t.Errorf("competencies(K0) = %q, want nil", got)
	}
	if !tables.Known("K0") {
		t.Error("K0 should be known even without values")
	}
}

func TestBuildMissingColumns(t *testing.T) {
	sheet := tabular.FromRecords("mapping.xlsx", [][]string{
		{"specific competencies", "basic knowledge items"},
		{"C1", "K1"},
	})

	_, err := Build(sheet, testColumns)
	var se *tabular.SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("Build() error = %v, want *tabular.SchemaError", err)
	}
	want := []string{"profile-exit descriptors", "evaluation criteria"}
	if !reflect.DeepEqual(se.Missing, want) {
		t.Errorf("Missing = %q, want %q", se.Missing, want)
	}
}

func TestBuildAmbiguousValues(t *testing.T) {
	b := &Builder{Columns: testColumns}
	tables, err := b.Build(mappingSheet(
		[]string{"Reading, writing", "D1", "CR1", "K1"},
		[]string{"C2", "D2", "CR2", "K2"},
	))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !reflect.DeepEqual(tables.Ambiguous, []string{"Reading, writing"}) {
		t.Errorf("Ambiguous = %q, want [Reading, writing]", tables.Ambiguous)
	}

	b.Delimiter = "; "
	tables, err = b.Build(mappingSheet([]string{"Reading, writing", "D1", "CR1", "K1"}))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(tables.Ambiguous) != 0 {
		t.Errorf("Ambiguous = %q with '; ' delimiter, want none", tables.Ambiguous)
	}
}

func scenarioTables(t *testing.T) *Tables {
	t.Helper()
	tables, err := Build(mappingSheet(
		[]string{"CE1", "DA", "CR1.1", "S1"},
		[]string{"", "DB", "", "S2"},
		[]string{"CE2", "", "CR2.1", "S3"},
		[]string{"", "", "", "S1"},
		[]string{"Oral, written", "DC", "CR4", "S4"},
	), testColumns)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return tables
}

func TestResolve(t *testing.T) {
	tables := scenarioTables(t)

	tests := []struct {
		name          string
		raw           string
		want          Resolution
		wantUnmatched []string
	}{
		{
			name: "blank",
			raw:  "",
			want: Resolution{},
		},
		{
			name: "whitespace only",
			raw:  "   ",
			want: Resolution{},
		},
		{
			name: "single item",
			raw:  "S2",
			want: Resolution{Competencies: "CE1", Descriptors: "DB", Criteria: "CR1.1"},
		},
		{
			name: "union across items",
			raw:  "S1, S3",
			want: Resolution{Competencies: "CE1, CE2", Descriptors: "DA, DB", Criteria: "CR1.1, CR2.1"},
		},
		{
			name: "order independent",
			raw:  "S3, S1",
			want: Resolution{Competencies: "CE1, CE2", Descriptors: "DA, DB", Criteria: "CR1.1, CR2.1"},
		},
		{
			name: "same value from two items appears once",
			raw:  "S1, S2",
			want: Resolution{Competencies: "CE1, CE2", Descriptors: "DA, DB", Criteria: "CR1.1, CR2.1"},
		},
		{
			name:          "unknown item contributes nothing",
			raw:           "S2, missing",
			want:          Resolution{Competencies: "CE1", Descriptors: "DB", Criteria: "CR1.1"},
			wantUnmatched: []string{"missing"},
		},
		{
			name:          "only unknown items",
			raw:           "X, Y",
			want:          Resolution{},
			wantUnmatched: []string{"X", "Y"},
		},
		{
			name: "tokens are trimmed and empty tokens skipped",
			raw:  " S2 ,  , S2",
			want: Resolution{Competencies: "CE1", Descriptors: "DB", Criteria: "CR1.1"},
		},
		{
			name:          "comma without space is one token",
			raw:           "S1,S2",
			want:          Resolution{},
			wantUnmatched: []string{"S1,S2"},
		},
		{
			name: "value containing the delimiter stays whole",
			raw:  "S4, S2",
			want: Resolution{Competencies: "CE1, Oral, written", Descriptors: "DB, DC", Criteria: "CR1.1, CR4"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.raw, tables)
			if got.Competencies != tt.want.Competencies {
				t.Errorf("Competencies = %q, want %q", got.Competencies, tt.want.Competencies)
			}
			if got.Descriptors != tt.want.Descriptors {
				t.Errorf("Descriptors = %q, want %q", got.Descriptors, tt.want.Descriptors)
			}
			if got.Criteria != tt.want.Criteria {
				t.Errorf("Criteria = %q, want %q", got.Criteria, tt.want.Criteria)
			}
			if !reflect.DeepEqual(got.Unmatched, tt.wantUnmatched) {
				t.Errorf("Unmatched = %q, want %q", got.Unmatched, tt.wantUnmatched)
			}
		})
	}
}

func TestResolveEndToEnd(t *testing.T) {
	tables, err := Build(mappingSheet(
		[]string{"C1", "D1", "", "K1"},
		[]string{"", "D2", "", "K1"},
	), testColumns)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got := Resolve("K1, K2", tables)
	want := Resolution{Competencies: "C1", Descriptors: "D1, D2", Criteria: "", Unmatched: []string{"K2"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve() mismatch\ngot:  %s\nwant: %s", spew.Sdump(got), spew.Sdump(want))
	}
}

func TestResolveIdempotent(t *testing.T) {
	tables := scenarioTables(t)
	r := NewResolver(tables, "")

	for _, raw := range []string{"S1, S3", "S4", "", "S2, nope"} {
		first := r.Resolve(raw)
		second := r.Resolve(raw)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Resolve(%q) not idempotent: %+v then %+v", raw, first, second)
		}
	}
}

func TestResolveCustomDelimiter(t *testing.T) {
	tables := scenarioTables(t)
	r := NewResolver(tables, "; ")

	got := r.Resolve("S1; S3")
	if got.Competencies != "CE1; CE2" {
		t.Errorf("Competencies = %q, want %q", got.Competencies, "CE1; CE2")
	}
}

func TestSplitItems(t *testing.T) {
	tests := []struct {
		raw   string
		delim string
		want  []string
	}{
		{raw: "", delim: ", ", want: nil},
		{raw: "A", delim: ", ", want: []string{"A"}},
		{raw: "A, B,  C ", delim: ", ", want: []string{"A", "B", "C"}},
		{raw: "A | B", delim: "|", want: []string{"A", "B"}},
		{raw: "A, B", delim: "", want: []string{"A", "B"}},
	}

	for _, tt := range tests {
		if got := SplitItems(tt.raw, tt.delim); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitItems(%q, %q) = %q, want %q", tt.raw, tt.delim, got, tt.want)
		}
	}
}

func TestWriteYAML(t *testing.T) {
	tables := scenarioTables(t)

	var buf bytes.Buffer
	if err := tables.WriteYAML(&buf); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(buf.Bytes(), &entries); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	if entries[0].Item != "S1" || !reflect.DeepEqual(entries[0].Competencies, []string{"CE1", "CE2"}) {
		t.Errorf("first entry = %s", spew.Sdump(entries[0]))
	}
}

func TestWriteJSON(t *testing.T) {
	tables := scenarioTables(t)

	var buf bytes.Buffer
	if err := tables.WriteJSON(&buf, true); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var decoded map[string]map[string][]string
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if got := decoded["S4"]["competencies"]; !reflect.DeepEqual(got, []string{"Oral, written"}) {
		t.Errorf("S4 competencies = %q", got)
	}
	if got := decoded["S2"]["criteria"]; !reflect.DeepEqual(got, []string{"CR1.1"}) {
		t.Errorf("S2 criteria = %q", got)
	}
	if !strings.HasSuffix(buf.String(), "\n") {
		t.Error("JSON output should end with a newline")
	}
}

func TestSubset(t *testing.T) {
	tables := &Tables{
		Competencies: &Table{entries: map[string][]string{"K1": {"C1"}, "K2": {"C2"}}},
		Descriptors:  &Table{entries: map[string][]string{"K1": nil, "K2": {"D2"}}},
		Criteria:     &Table{entries: map[string][]string{"K1": {"CR1"}, "K2": nil}},
	}

	sub, unknown := tables.Subset([]string{" K2 ", "K9"})

	if got := sub.Items(); len(got) != 1 || got[0] != "K2" {
		t.Errorf("Items() = %v, want [K2]", got)
	}
	if got := sub.Competencies.Get("K2"); len(got) != 1 || got[0] != "C2" {
		t.Errorf("Competencies.Get(K2) = %v", got)
	}
	if !sub.Criteria.Has("K2") {
		t.Error("empty criteria entry should be kept")
	}
	if len(unknown) != 1 || unknown[0] != "K9" {
		t.Errorf("unknown = %v, want [K9]", unknown)
	}
}
