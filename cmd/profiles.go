package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lomloe-tools/curfill/profile"
)

var profilesInitFrom string

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage column profiles",
	Long: `List, inspect and create column profiles.

A profile names the columns of the mapping and activity workbooks, the
index column and the item delimiter. Built-in profiles are embedded in the
binary; user profiles are stored in ~/.curfill/profiles/ and override
built-in profiles of the same name.`,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := profile.LoadRegistry()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tINDEX\tDESCRIPTION")
		fmt.Fprintln(w, "----\t-----\t-----------")
		for _, name := range registry.List() {
			p, _ := registry.Get(name)
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.IndexColumn, truncate(p.Description, 50))
		}
		return w.Flush()
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Load(args[0])
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(p)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var profilesInitCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a user profile to edit",
	Long: `Create a user profile from an existing one and save it to the profiles
directory, where it can be edited.

Examples:
  curfill profiles init my-school
  curfill profiles init my-school --from lomloe`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		path, err := profile.ProfilePath(name)
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("profile %q already exists at %s", name, path)
		}

		base, err := profile.Load(profilesInitFrom)
		if err != nil {
			return err
		}
		p := profile.Merge(base, &profile.Profile{Name: name})
		if err := p.Save(); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created profile: %s\n", name)
		fmt.Fprintf(cmd.OutOrStdout(), "Saved to: %s\n", path)
		return nil
	},
}

func init() {
	profilesInitCmd.Flags().StringVar(&profilesInitFrom, "from", profile.DefaultName, "Profile to copy")

	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesInitCmd)
}
