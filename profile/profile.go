// Package profile describes the column labels of curriculum mapping and activity
// workbooks. Profiles are YAML documents, either embedded in the binary, stored in
// ~/.curfill/profiles, or given as a file.
package profile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lomloe-tools/curfill/lookup"
)

// DefaultName is the profile used when none is selected.
const DefaultName = "default"

// DefaultOutputSuffix is inserted before the extension of a filled workbook.
const DefaultOutputSuffix = "_filled"

// Profile is a complete column configuration for one family of workbooks.
type Profile struct {
	// Name is the profile identifier
	Name string `yaml:"name" json:"name"`

	// Description provides human-readable documentation
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// MappingSheet is the sheet of the mapping workbook to read. Empty selects the first sheet.
	MappingSheet string `yaml:"mapping_sheet,omitempty" json:"mapping_sheet,omitempty"`

	// Mapping names the columns of the curriculum mapping sheet
	Mapping Columns `yaml:"mapping" json:"mapping"`

	// Target names the columns of the activity sheet being filled
	Target Columns `yaml:"target" json:"target"`

	// IndexColumn identifies activity rows and is written first in the output
	IndexColumn string `yaml:"index_column" json:"index_column"`

	// Options contains formatting options
	Options Options `yaml:"options,omitempty" json:"options,omitempty"`
}

// Columns names the four curriculum columns of a sheet.
type Columns struct {
	Competencies   string `yaml:"competencies" json:"competencies"`
	Descriptors    string `yaml:"descriptors" json:"descriptors"`
	Criteria       string `yaml:"criteria" json:"criteria"`
	KnowledgeItems string `yaml:"knowledge_items" json:"knowledge_items"`
}

// Options contains formatting options.
type Options struct {
	// Delimiter separates knowledge items in a cell and values in an output cell
	Delimiter string `yaml:"delimiter,omitempty" json:"delimiter,omitempty"`

	// OutputSuffix is added to the input base name to form the output file name
	OutputSuffix string `yaml:"output_suffix,omitempty" json:"output_suffix,omitempty"`
}

// Default returns the built-in profile with English column labels.
func Default() *Profile {
	cols := Columns{
		Competencies:   "specific competencies",
		Descriptors:    "profile-exit descriptors",
		Criteria:       "evaluation criteria",
		KnowledgeItems: "basic knowledge items",
	}
	return &Profile{
		Name:        DefaultName,
		Description: "English column labels",
		Mapping:     cols,
		Target:      cols,
		IndexColumn: "card number",
		Options: Options{
			Delimiter:    lookup.DefaultDelimiter,
			OutputSuffix: DefaultOutputSuffix,
		},
	}
}

// GetDelimiter returns the item delimiter with a default.
func (p *Profile) GetDelimiter() string {
	if p.Options.Delimiter != "" {
		return p.Options.Delimiter
	}
	return lookup.DefaultDelimiter
}

// GetOutputSuffix returns the output suffix with a default.
func (p *Profile) GetOutputSuffix() string {
	if p.Options.OutputSuffix != "" {
		return p.Options.OutputSuffix
	}
	return DefaultOutputSuffix
}

// LookupColumns returns the mapping columns in the form the lookup builder takes.
func (p *Profile) LookupColumns() lookup.Columns {
	return lookup.Columns{
		Competencies:   p.Mapping.Competencies,
		Descriptors:    p.Mapping.Descriptors,
		Criteria:       p.Mapping.Criteria,
		KnowledgeItems: p.Mapping.KnowledgeItems,
	}
}

// Validate checks that every column label is set.
func (p *Profile) Validate() error {
	for _, c := range []struct {
		key, value string
	}{
		{"mapping.competencies", p.Mapping.Competencies},
		{"mapping.descriptors", p.Mapping.Descriptors},
		{"mapping.criteria", p.Mapping.Criteria},
		{"mapping.knowledge_items", p.Mapping.KnowledgeItems},
		{"target.competencies", p.Target.Competencies},
		{"target.descriptors", p.Target.Descriptors},
		{"target.criteria", p.Target.Criteria},
		{"target.knowledge_items", p.Target.KnowledgeItems},
		{"index_column", p.IndexColumn},
	} {
		if c.value == "" {
			return fmt.Errorf("profile %q: %s is required", p.Name, c.key)
		}
	}
	return nil
}

// Merge overlays the non-empty settings of custom onto a copy of base.
func Merge(base, custom *Profile) *Profile {
	merged := *base
	if custom == nil {
		return &merged
	}

	if custom.Name != "" {
		merged.Name = custom.Name
	}
	if custom.Description != "" {
		merged.Description = custom.Description
	}
	if custom.MappingSheet != "" {
		merged.MappingSheet = custom.MappingSheet
	}
	merged.Mapping = mergeColumns(base.Mapping, custom.Mapping)
	merged.Target = mergeColumns(base.Target, custom.Target)
	if custom.IndexColumn != "" {
		merged.IndexColumn = custom.IndexColumn
	}
	if custom.Options.Delimiter != "" {
		merged.Options.Delimiter = custom.Options.Delimiter
	}
	if custom.Options.OutputSuffix != "" {
		merged.Options.OutputSuffix = custom.Options.OutputSuffix
	}

	return &merged
}

func mergeColumns(base, custom Columns) Columns {
	if custom.Competencies != "" {
		base.Competencies = custom.Competencies
	}
	if custom.Descriptors != "" {
		base.Descriptors = custom.Descriptors
	}
	if custom.Criteria != "" {
		base.Criteria = custom.Criteria
	}
	if custom.KnowledgeItems != "" {
		base.KnowledgeItems = custom.KnowledgeItems
	}
	return base
}

// LoadFile reads a profile from a YAML file. Settings the file leaves out are
// taken from the default profile.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile file: %w", err)
	}
	p, err := parse(data)
	if err != nil {
		return nil, err
	}
	return Merge(Default(), p), nil
}

func parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing profile YAML: %w", err)
	}
	return &p, nil
}
