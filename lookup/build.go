package lookup

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/lomloe-tools/curfill/tabular"
)

// DefaultDelimiter separates knowledge items in a target cell and values in an output cell.
const DefaultDelimiter = ", "

// Columns names the mapping sheet columns the builder reads.
type Columns struct {
	Competencies   string
	Descriptors    string
	Criteria       string
	KnowledgeItems string
}

// Builder turns a mapping sheet into lookup tables.
type Builder struct {
	Columns Columns

	// Delimiter is used only to flag values that contain it. Defaults to DefaultDelimiter.
	Delimiter string
}

// Build is shorthand for a Builder with the default delimiter.
func Build(sheet *tabular.Sheet, cols Columns) (*Tables, error) {
	b := &Builder{Columns: cols}
	return b.Build(sheet)
}

// Build reads the four mapping columns, forward-fills the merged value columns
// and groups the rows by knowledge item.
func (b *Builder) Build(sheet *tabular.Sheet) (*Tables, error) {
	cols := b.Columns
	if err := sheet.Require(cols.Competencies, cols.Descriptors, cols.Criteria, cols.KnowledgeItems); err != nil {
		return nil, err
	}

	items, err := sheet.Column(cols.KnowledgeItems)
	if err != nil {
		return nil, err
	}

	values := make(map[Field][]string, len(Fields))
	for f, name := range map[Field]string{
		Competencies: cols.Competencies,
		Descriptors:  cols.Descriptors,
		Criteria:     cols.Criteria,
	} {
		col, err := sheet.Column(name)
		if err != nil {
			return nil, err
		}
		values[f] = ForwardFill(col)
	}

	groups := make(map[Field]map[string]map[string]struct{}, len(Fields))
	for _, f := range Fields {
		groups[f] = make(map[string]map[string]struct{})
	}

	skipped := 0
	for row, raw := range items {
		key := normalizeKey(raw)
		if key == "" {
			skipped++
			continue
		}
		for _, f := range Fields {
			set, ok := groups[f][key]
			if !ok {
				set = make(map[string]struct{})
				groups[f][key] = set
			}
			if v := values[f][row]; !tabular.IsBlank(v) {
				set[v] = struct{}{}
			}
		}
	}

	delim := b.Delimiter
	if delim == "" {
		delim = DefaultDelimiter
	}

	tables := &Tables{
		Competencies: newTable(),
		Descriptors:  newTable(),
		Criteria:     newTable(),
	}
	ambiguous := make(map[string]struct{})
	for _, f := range Fields {
		t := tables.Table(f)
		for key, set := range groups[f] {
			t.entries[key] = sortedSet(set)
			for v := range set {
				if strings.Contains(v, delim) {
					ambiguous[v] = struct{}{}
				}
			}
		}
	}
	tables.Ambiguous = sortedSet(ambiguous)

	slog.Debug("built lookup tables",
		"sheet", sheet.Name,
		"rows", len(items),
		"items", tables.Competencies.Len(),
		"rows_without_item", skipped,
	)

	return tables, nil
}

// ForwardFill replaces each blank value with the nearest preceding non-blank
// one. Blanks before the first value stay blank.
func ForwardFill(values []string) []string {
	out := make([]string, len(values))
	last := ""
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			out[i] = last
			continue
		}
		last = v
		out[i] = v
	}
	return out
}

func sortedSet(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
