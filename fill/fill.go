// Package fill runs the curriculum fill pipeline: it builds lookup tables from
// a mapping workbook and writes a copy of an activity workbook with the
// competency, descriptor and criterion columns populated.
package fill

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lomloe-tools/curfill/format"
	"github.com/lomloe-tools/curfill/lookup"
	"github.com/lomloe-tools/curfill/profile"
	"github.com/lomloe-tools/curfill/tabular"

	// Register format plugins
	_ "github.com/lomloe-tools/curfill/format/csv"
	_ "github.com/lomloe-tools/curfill/format/xlsx"
)

// Options configures a single fill run.
type Options struct {
	// MappingPath is the curriculum mapping workbook
	MappingPath string

	// InputPath is the activity workbook to fill
	InputPath string

	// OutputPath overrides the derived <base><suffix><ext> output path
	OutputPath string

	// Profile supplies column labels. Nil selects profile.Default().
	Profile *profile.Profile

	// IndexColumn overrides the profile's index column
	IndexColumn string

	// MappingSheet overrides the profile's mapping sheet
	MappingSheet string

	// InputSheet selects the worksheet of the activity workbook. Empty selects the first.
	InputSheet string

	// DryRun resolves every row but writes nothing
	DryRun bool
}

// Stats summarises one filled sheet.
type Stats struct {
	// Rows is the number of data rows
	Rows int

	// WithItems counts rows whose knowledge-item cell was not blank
	WithItems int

	// Resolved counts rows that received at least one value
	Resolved int

	// Unmatched lists distinct knowledge items found in no lookup table, sorted
	Unmatched []string
}

// Result describes a completed run.
type Result struct {
	OutputPath string
	Stats      Stats
}

func (o *Options) columnProfile() *profile.Profile {
	if o.Profile != nil {
		return o.Profile
	}
	return profile.Default()
}

func (o *Options) indexColumn() string {
	if o.IndexColumn != "" {
		return o.IndexColumn
	}
	return o.columnProfile().IndexColumn
}

// Run fills one activity workbook. Schema problems in either workbook abort the
// run before anything is written.
func Run(opts Options) (*Result, error) {
	p := opts.columnProfile()

	sheetName := p.MappingSheet
	if opts.MappingSheet != "" {
		sheetName = opts.MappingSheet
	}
	tables, err := LoadLookups(opts.MappingPath, sheetName, p)
	if err != nil {
		return nil, err
	}

	return RunWithLookups(opts, tables)
}

// RunWithLookups fills one activity workbook against lookup tables that were
// already built, so a batch can share them.
func RunWithLookups(opts Options, tables *lookup.Tables) (*Result, error) {
	p := opts.columnProfile()

	target, err := ReadSheet(opts.InputPath, opts.InputSheet)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}

	resolver := lookup.NewResolver(tables, p.GetDelimiter())
	stats, err := Sheet(target, resolver, p.Target, opts.indexColumn())
	if err != nil {
		return nil, err
	}

	out := opts.OutputPath
	if out == "" {
		out = OutputPath(opts.InputPath, p.GetOutputSuffix())
	}
	result := &Result{OutputPath: out, Stats: *stats}

	if opts.DryRun {
		return result, nil
	}

	if err := WriteSheet(out, target, opts.InputSheet); err != nil {
		return nil, fmt.Errorf("writing output: %w", err)
	}
	slog.Info("filled workbook", "input", opts.InputPath, "output", out, "rows", stats.Rows, "resolved", stats.Resolved)

	return result, nil
}

// LoadLookups reads the mapping workbook and builds the lookup tables. Values
// that contain the item delimiter are logged, since they are indistinguishable
// from two values once joined into an output cell.
func LoadLookups(path, sheetName string, p *profile.Profile) (*lookup.Tables, error) {
	mapping, err := ReadSheet(path, sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading mapping: %w", err)
	}

	b := &lookup.Builder{Columns: p.LookupColumns(), Delimiter: p.GetDelimiter()}
	tables, err := b.Build(mapping)
	if err != nil {
		return nil, err
	}

	for _, v := range tables.Ambiguous {
		slog.Warn("mapping value contains the item delimiter", "value", v, "delimiter", p.GetDelimiter())
	}
	return tables, nil
}

// Sheet checks the activity sheet schema, resolves every row and sets the
// three curriculum columns. The index column is moved to the first position.
func Sheet(target *tabular.Sheet, resolver *lookup.Resolver, cols profile.Columns, indexColumn string) (*Stats, error) {
	if err := target.Require(indexColumn, cols.KnowledgeItems); err != nil {
		return nil, err
	}

	items, err := target.Column(cols.KnowledgeItems)
	if err != nil {
		return nil, err
	}

	stats := &Stats{Rows: len(items)}
	out := map[lookup.Field][]string{
		lookup.Competencies: make([]string, len(items)),
		lookup.Descriptors:  make([]string, len(items)),
		lookup.Criteria:     make([]string, len(items)),
	}
	unmatched := make(map[string]struct{})

	for i, raw := range items {
		res := resolver.Resolve(raw)
		if !tabular.IsBlank(raw) {
			stats.WithItems++
		}
		if !res.Empty() {
			stats.Resolved++
		}
		for _, item := range res.Unmatched {
			if _, seen := unmatched[item]; !seen {
				slog.Debug("knowledge item not in mapping", "item", item, "row", i+2)
			}
			unmatched[item] = struct{}{}
		}
		for _, f := range lookup.Fields {
			out[f][i] = res.Field(f)
		}
	}

	names := map[lookup.Field]string{
		lookup.Competencies: cols.Competencies,
		lookup.Descriptors:  cols.Descriptors,
		lookup.Criteria:     cols.Criteria,
	}
	// New columns are appended in field order.
	for _, f := range lookup.Fields {
		if err := target.SetColumn(names[f], out[f]); err != nil {
			return nil, err
		}
	}
	if err := target.MoveColumnFirst(indexColumn); err != nil {
		return nil, err
	}

	for item := range unmatched {
		stats.Unmatched = append(stats.Unmatched, item)
	}
	sort.Strings(stats.Unmatched)

	return stats, nil
}

// OutputPath inserts suffix between the base name and extension of input.
func OutputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}

// ReadSheet opens path and reads it with the format registered for its extension.
func ReadSheet(path, sheetName string) (sheet *tabular.Sheet, err error) {
	reader, err := format.ReaderForPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()

	return reader.Read(f, &format.ReadOptions{Sheet: sheetName, SourceName: path})
}

// WriteSheet writes the sheet to a temporary file next to path and renames it
// into place, so a failed write never leaves a truncated workbook behind.
func WriteSheet(path string, sheet *tabular.Sheet, sheetName string) (err error) {
	writer, err := format.WriterForPath(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	opts := &format.WriteOptions{Sheet: sheetName, TargetName: path}
	if err := writer.Write(tmp, sheet, opts); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting output permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming output: %w", err)
	}
	return nil
}
