package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lomloe-tools/curfill/fill"
)

var (
	validateMapping      string
	validateInputs       []string
	validateIndex        string
	validateProfileName  string
	validateProfileFile  string
	validateMappingSheet string
	validateSheet        string
	validateStrict       bool
	validateVerbose      bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check workbooks without writing output",
	Long: `Check a mapping workbook and activity workbooks without writing output.

Both workbooks are read and every activity row is resolved, exactly as fill
would. Missing columns are reported as errors. Knowledge items that appear in
an activity workbook but not in the mapping are listed; with --strict they
fail the check.

Examples:
  curfill validate --mapping mapping.xlsx --input cards.xlsx
  curfill validate --mapping mapeo.xlsx -i 'cartas/*.xlsx' --strict -v`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateMapping, "mapping", "m", "", "Curriculum mapping workbook (required)")
	validateCmd.Flags().StringSliceVarP(&validateInputs, "input", "i", nil, "Activity workbook or glob pattern (repeatable)")
	validateCmd.Flags().StringVar(&validateIndex, "index", "", "Index column of the activity workbook (default from profile)")
	validateCmd.Flags().StringVarP(&validateProfileName, "profile", "p", "", "Column profile name")
	validateCmd.Flags().StringVar(&validateProfileFile, "profile-file", "", "Column profile YAML file")
	validateCmd.Flags().StringVar(&validateMappingSheet, "mapping-sheet", "", "Worksheet of the mapping workbook (default from profile)")
	validateCmd.Flags().StringVar(&validateSheet, "sheet", "", "Worksheet of the activity workbooks (default: first)")
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Fail when knowledge items are missing from the mapping")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Show detailed information")

	_ = validateCmd.MarkFlagRequired("mapping")
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	p, err := selectProfile(validateProfileName, validateProfileFile, validateMapping, validateMappingSheet)
	if err != nil {
		return err
	}

	tables, err := fill.LoadLookups(validateMapping, mappingSheet(p, validateMappingSheet), p)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	fmt.Fprintf(out, "✓ Mapping %s: %d knowledge items (profile %s)\n", validateMapping, len(tables.Items()), p.Name)
	if validateVerbose {
		for _, v := range tables.Ambiguous {
			fmt.Fprintf(out, "  value contains %q: %s\n", p.GetDelimiter(), v)
		}
	}

	if len(validateInputs) == 0 {
		return nil
	}
	inputs, err := fill.ExpandInputs(validateInputs, p.GetOutputSuffix())
	if err != nil {
		return err
	}

	var errs []error
	for _, input := range inputs {
		res, err := fill.RunWithLookups(fill.Options{
			InputPath:   input,
			Profile:     p,
			IndexColumn: validateIndex,
			InputSheet:  validateSheet,
			DryRun:      true,
		}, tables)
		if err != nil {
			fmt.Fprintf(out, "✗ %s: %v\n", input, err)
			errs = append(errs, fmt.Errorf("%s: %w", input, err))
			continue
		}

		s := res.Stats
		mark := "✓"
		if len(s.Unmatched) > 0 && validateStrict {
			mark = "✗"
			errs = append(errs, fmt.Errorf("%s: %d knowledge items not in mapping", input, len(s.Unmatched)))
		}
		fmt.Fprintf(out, "%s %s: %d rows, %d with knowledge items, %d filled\n", mark, input, s.Rows, s.WithItems, s.Resolved)
		if len(s.Unmatched) > 0 {
			fmt.Fprintf(out, "  not in mapping: %s\n", truncate(strings.Join(s.Unmatched, "; "), 120))
		}
		if validateVerbose {
			fmt.Fprintf(out, "  would write: %s\n", res.OutputPath)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
