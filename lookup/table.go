// Package lookup builds knowledge-item lookup tables from a curriculum mapping
// sheet and resolves the curriculum fields of activity rows against them.
package lookup

import (
	"sort"

	"github.com/lomloe-tools/curfill/tabular"
)

// Field identifies one of the propagated curriculum fields.
type Field int

const (
	Competencies Field = iota
	Descriptors
	Criteria
)

// Fields lists every curriculum field in output order.
var Fields = []Field{Competencies, Descriptors, Criteria}

func (f Field) String() string {
	switch f {
	case Competencies:
		return "competencies"
	case Descriptors:
		return "descriptors"
	case Criteria:
		return "criteria"
	default:
		return "unknown"
	}
}

// Table maps a knowledge item to the sorted, deduplicated values associated with it.
type Table struct {
	entries map[string][]string
}

func newTable() *Table {
	return &Table{entries: make(map[string][]string)}
}

// Get returns the values for a knowledge item. A missing item yields nil.
// The returned slice must not be modified.
func (t *Table) Get(item string) []string {
	if t == nil {
		return nil
	}
	return t.entries[normalizeKey(item)]
}

// Has reports whether the item has an entry, even an empty one.
func (t *Table) Has(item string) bool {
	if t == nil {
		return false
	}
	_, ok := t.entries[normalizeKey(item)]
	return ok
}

// Len returns the number of knowledge items in the table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Items returns every knowledge item in sorted order.
func (t *Table) Items() []string {
	if t == nil {
		return nil
	}
	items := make([]string, 0, len(t.entries))
	for k := range t.entries {
		items = append(items, k)
	}
	sort.Strings(items)
	return items
}

// Tables bundles the three lookup tables built from one mapping sheet.
type Tables struct {
	Competencies *Table
	Descriptors  *Table
	Criteria     *Table

	// Ambiguous lists values that contain the item delimiter. They are kept
	// whole, but a downstream reader splitting on the delimiter would break them.
	Ambiguous []string
}

// Table returns the lookup table for a field.
func (t *Tables) Table(f Field) *Table {
	switch f {
	case Competencies:
		return t.Competencies
	case Descriptors:
		return t.Descriptors
	case Criteria:
		return t.Criteria
	default:
		return nil
	}
}

// Items returns the union of knowledge items across all three tables.
func (t *Tables) Items() []string {
	seen := make(map[string]struct{})
	for _, f := range Fields {
		for _, item := range t.Table(f).Items() {
			seen[item] = struct{}{}
		}
	}
	items := make([]string, 0, len(seen))
	for item := range seen {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

// Known reports whether any table has an entry for the item.
func (t *Tables) Known(item string) bool {
	for _, f := range Fields {
		if t.Table(f).Has(item) {
			return true
		}
	}
	return false
}

func normalizeKey(s string) string {
	return tabular.NormalizeLabel(s)
}

// Subset returns tables restricted to the given knowledge items, along with
// the items no table knows.
func (t *Tables) Subset(items []string) (*Tables, []string) {
	out := &Tables{Competencies: newTable(), Descriptors: newTable(), Criteria: newTable()}
	var unknown []string
	for _, item := range items {
		if !t.Known(item) {
			unknown = append(unknown, item)
			continue
		}
		key := normalizeKey(item)
		for _, f := range Fields {
			if src := t.Table(f); src.Has(key) {
				out.Table(f).entries[key] = src.entries[key]
			}
		}
	}
	return out, unknown
}
