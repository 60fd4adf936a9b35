// Package cmd provides CLI commands for curfill.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lomloe-tools/curfill/profile"
)

var configDir string

func setupLogger() {
	logLevel := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = "INFO"
	}

	var level slog.Level
	switch logLevel {
	case "DEBUG":
		level = slog.LevelDebug
	case "INFO":
		level = slog.LevelInfo
	case "WARN", "WARNING":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	logger := slog.New(handler)

	slog.SetDefault(logger)
}

var rootCmd = &cobra.Command{
	Use:   "curfill",
	Short: "Fill curriculum columns of activity workbooks",
	Long: `Curfill fills the competency, descriptor and evaluation criterion columns
of activity workbooks from a curriculum mapping workbook.

The mapping workbook lists every basic knowledge item next to the specific
competencies, profile-exit descriptors and evaluation criteria it belongs to.
Each activity row names one or more knowledge items; curfill writes the union
of their values into a new <name>_filled workbook.

Examples:
  curfill fill --mapping mapping.xlsx --input cards.xlsx
  curfill fill --mapping mapeo.xlsx -i 'cartas/**/*.xlsx' -p lomloe
  curfill validate --mapping mapping.xlsx --input cards.xlsx
  curfill lookups --mapping mapping.xlsx --format json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if configDir != "" {
			profile.SetConfigDir(configDir)
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	setupLogger()
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default: ~/.curfill)")
	rootCmd.AddCommand(fillCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(lookupsCmd)
	rootCmd.AddCommand(profilesCmd)
}
