package lookup

import (
	"sort"
	"strings"
)

// Resolution holds the joined curriculum fields for one activity row.
type Resolution struct {
	Competencies string
	Descriptors  string
	Criteria     string

	// Unmatched lists items found in none of the tables, in input order.
	Unmatched []string
}

// Field returns the resolved string for f.
func (r Resolution) Field(f Field) string {
	switch f {
	case Competencies:
		return r.Competencies
	case Descriptors:
		return r.Descriptors
	case Criteria:
		return r.Criteria
	default:
		return ""
	}
}

// Empty reports whether nothing was resolved.
func (r Resolution) Empty() bool {
	return r.Competencies == "" && r.Descriptors == "" && r.Criteria == ""
}

// Resolver resolves knowledge-item lists against a fixed set of tables.
// It is safe for concurrent use since the tables are never modified.
type Resolver struct {
	tables    *Tables
	delimiter string
}

// NewResolver returns a resolver splitting and joining on delimiter.
// An empty delimiter selects DefaultDelimiter.
func NewResolver(tables *Tables, delimiter string) *Resolver {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	return &Resolver{tables: tables, delimiter: delimiter}
}

// Resolve is shorthand for NewResolver(tables, DefaultDelimiter).Resolve(raw).
func Resolve(raw string, tables *Tables) Resolution {
	return NewResolver(tables, DefaultDelimiter).Resolve(raw)
}

// Resolve unions the values of every knowledge item in raw per field, then
// sorts and joins each union. Values are merged as whole strings, so a value
// that itself contains the delimiter is never split apart.
func (r *Resolver) Resolve(raw string) Resolution {
	items := SplitItems(raw, r.delimiter)
	if len(items) == 0 {
		return Resolution{}
	}

	sets := make(map[Field]map[string]struct{}, len(Fields))
	for _, f := range Fields {
		sets[f] = make(map[string]struct{})
	}

	var res Resolution
	for _, item := range items {
		if !r.tables.Known(item) {
			res.Unmatched = append(res.Unmatched, item)
			continue
		}
		for _, f := range Fields {
			for _, v := range r.tables.Table(f).Get(item) {
				sets[f][v] = struct{}{}
			}
		}
	}

	res.Competencies = r.join(sets[Competencies])
	res.Descriptors = r.join(sets[Descriptors])
	res.Criteria = r.join(sets[Criteria])
	return res
}

func (r *Resolver) join(set map[string]struct{}) string {
	vals := make([]string, 0, len(set))
	for v := range set {
		vals = append(vals, v)
	}
	sort.Strings(vals)
	return strings.Join(vals, r.delimiter)
}

// SplitItems splits a knowledge-item cell on delimiter and trims each token.
// Blank cells and empty tokens produce nothing.
func SplitItems(raw, delimiter string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	parts := strings.Split(raw, delimiter)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			items = append(items, p)
		}
	}
	return items
}
