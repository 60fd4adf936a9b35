package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lomloe-tools/curfill/fill"
	"github.com/lomloe-tools/curfill/profile"
)

var (
	fillMapping      string
	fillInputs       []string
	fillOutput       string
	fillIndex        string
	fillProfileName  string
	fillProfileFile  string
	fillMappingSheet string
	fillSheet        string
	fillDryRun       bool
)

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Fill curriculum columns of activity workbooks",
	Long: `Fill the competency, descriptor and criterion columns of activity workbooks.

The mapping workbook is read once. Its competency, descriptor and criterion
columns are forward-filled, so values from merged cells carry down to the
rows below them. Every input workbook is then copied to <name>_filled<ext>
with the three columns set from the knowledge items of each row.

Inputs may be files or glob patterns, including ** for nested directories.
Files that already carry the output suffix are skipped when a pattern matches
them.

When neither --profile nor --profile-file is given, the profile is detected
from the mapping workbook's header.

Examples:
  curfill fill --mapping mapping.xlsx --input cards.xlsx
  curfill fill --mapping mapping.xlsx -i cards.csv --index "card number"
  curfill fill --mapping mapeo.xlsx -i 'cartas/**/*.xlsx' -p lomloe
  curfill fill --mapping mapping.xlsx -i cards.xlsx -o out/cards.xlsx`,
	RunE: runFill,
}

func init() {
	fillCmd.Flags().StringVarP(&fillMapping, "mapping", "m", "", "Curriculum mapping workbook (required)")
	fillCmd.Flags().StringSliceVarP(&fillInputs, "input", "i", nil, "Activity workbook or glob pattern (repeatable, required)")
	fillCmd.Flags().StringVarP(&fillOutput, "output", "o", "", "Output file (single input only; default: <input>_filled<ext>)")
	fillCmd.Flags().StringVar(&fillIndex, "index", "", "Index column of the activity workbook (default from profile)")
	fillCmd.Flags().StringVarP(&fillProfileName, "profile", "p", "", "Column profile name")
	fillCmd.Flags().StringVar(&fillProfileFile, "profile-file", "", "Column profile YAML file")
	fillCmd.Flags().StringVar(&fillMappingSheet, "mapping-sheet", "", "Worksheet of the mapping workbook (default from profile)")
	fillCmd.Flags().StringVar(&fillSheet, "sheet", "", "Worksheet of the activity workbooks (default: first)")
	fillCmd.Flags().BoolVar(&fillDryRun, "dry-run", false, "Resolve every row without writing output")

	_ = fillCmd.MarkFlagRequired("mapping")
	_ = fillCmd.MarkFlagRequired("input")
}

func runFill(cmd *cobra.Command, args []string) error {
	p, err := selectProfile(fillProfileName, fillProfileFile, fillMapping, fillMappingSheet)
	if err != nil {
		return err
	}

	inputs, err := fill.ExpandInputs(fillInputs, p.GetOutputSuffix())
	if err != nil {
		return err
	}
	if fillOutput != "" && len(inputs) > 1 {
		return fmt.Errorf("--output needs a single input, got %d", len(inputs))
	}

	tables, err := fill.LoadLookups(fillMapping, mappingSheet(p, fillMappingSheet), p)
	if err != nil {
		return err
	}
	slog.Info("loaded mapping", "file", fillMapping, "profile", p.Name, "items", len(tables.Items()))

	var errs []error
	for _, input := range inputs {
		res, err := fill.RunWithLookups(fill.Options{
			InputPath:   input,
			OutputPath:  fillOutput,
			Profile:     p,
			IndexColumn: fillIndex,
			InputSheet:  fillSheet,
			DryRun:      fillDryRun,
		}, tables)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", input, err))
			continue
		}

		if len(res.Stats.Unmatched) > 0 {
			slog.Warn("knowledge items not found in mapping", "input", input, "items", strings.Join(res.Stats.Unmatched, "; "))
		}
		if fillDryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "Would generate file: %s\n", res.OutputPath)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated file: %s\n", res.OutputPath)
	}

	return errors.Join(errs...)
}

// selectProfile resolves the column profile from --profile-file, --profile or,
// failing both, the mapping workbook's header.
func selectProfile(name, file, mappingPath, sheetName string) (*profile.Profile, error) {
	var p *profile.Profile

	switch {
	case file != "":
		loaded, err := profile.LoadFile(file)
		if err != nil {
			return nil, err
		}
		p = loaded

	case name != "":
		loaded, err := profile.Load(name)
		if err != nil {
			return nil, err
		}
		p = loaded

	default:
		registry, err := profile.LoadRegistry()
		if err != nil {
			return nil, err
		}
		p = fill.DetectProfile(registry, mappingPath, sheetName)
		if p == nil {
			p, _ = registry.Get(profile.DefaultName)
			slog.Info("no profile matched the mapping header, using default")
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func mappingSheet(p *profile.Profile, override string) string {
	if override != "" {
		return override
	}
	return p.MappingSheet
}
