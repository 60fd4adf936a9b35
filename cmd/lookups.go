package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lomloe-tools/curfill/fill"
)

var (
	lookupsMapping      string
	lookupsProfileName  string
	lookupsProfileFile  string
	lookupsMappingSheet string
	lookupsItems        []string
	lookupsFormat       string
	lookupsCompact      bool
)

var lookupsCmd = &cobra.Command{
	Use:   "lookups",
	Short: "Print the lookup tables built from a mapping workbook",
	Long: `Print the knowledge-item lookup tables built from a mapping workbook.

Each knowledge item is listed with the sorted, deduplicated competencies,
descriptors and criteria that fill would write for it.

Examples:
  curfill lookups --mapping mapping.xlsx
  curfill lookups --mapping mapping.xlsx --item "A.1" --item "A.2"
  curfill lookups --mapping mapeo.xlsx -p lomloe --format json`,
	RunE: runLookups,
}

func init() {
	lookupsCmd.Flags().StringVarP(&lookupsMapping, "mapping", "m", "", "Curriculum mapping workbook (required)")
	lookupsCmd.Flags().StringVarP(&lookupsProfileName, "profile", "p", "", "Column profile name")
	lookupsCmd.Flags().StringVar(&lookupsProfileFile, "profile-file", "", "Column profile YAML file")
	lookupsCmd.Flags().StringVar(&lookupsMappingSheet, "mapping-sheet", "", "Worksheet of the mapping workbook (default from profile)")
	lookupsCmd.Flags().StringArrayVar(&lookupsItems, "item", nil, "Only show this knowledge item (repeatable)")
	lookupsCmd.Flags().StringVarP(&lookupsFormat, "format", "f", "yaml", "Output format (yaml, json)")
	lookupsCmd.Flags().BoolVar(&lookupsCompact, "compact", false, "Single-line JSON output")

	_ = lookupsCmd.MarkFlagRequired("mapping")
}

func runLookups(cmd *cobra.Command, args []string) error {
	p, err := selectProfile(lookupsProfileName, lookupsProfileFile, lookupsMapping, lookupsMappingSheet)
	if err != nil {
		return err
	}

	tables, err := fill.LoadLookups(lookupsMapping, mappingSheet(p, lookupsMappingSheet), p)
	if err != nil {
		return err
	}

	if len(lookupsItems) > 0 {
		subset, unknown := tables.Subset(lookupsItems)
		if len(unknown) > 0 {
			return fmt.Errorf("knowledge items not in mapping: %s", strings.Join(unknown, "; "))
		}
		tables = subset
	}

	out := cmd.OutOrStdout()
	switch lookupsFormat {
	case "yaml", "yml":
		return tables.WriteYAML(out)
	case "json":
		return tables.WriteJSON(out, !lookupsCompact)
	default:
		return fmt.Errorf("unknown format %q (use yaml or json)", lookupsFormat)
	}
}
