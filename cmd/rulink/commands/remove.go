package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/necolo/rulink/internal/install"
)

func init() {
	rootCmd.AddCommand(removeCmd)
}

var removeCmd = &cobra.Command{
	Use:     "remove <rule>...",
	Aliases: []string{"rm", "uninstall"},
	Short:   "Remove installed rules",
	Long: `Remove rules from the project's .cursor/rules directory.

Category prefixes are ignored and the .mdc suffix is optional, so
"typescript/style", "style.mdc" and "style" all remove style.mdc.`,
	Example: `  rulink remove style.mdc
  rulink remove typescript/style react-hooks`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		loc, err := rulesLocation()
		if err != nil {
			return err
		}
		report, err := install.Remove(loc.Path, args)
		w := cmd.OutOrStdout()
		if report != nil {
			for _, f := range report.Removed {
				fmt.Fprintf(w, "  %s Removed %s\n", color.GreenString("✓"), f)
			}
			for _, f := range report.NotFound {
				fmt.Fprintf(w, "  %s %s is not installed\n", color.YellowString("⚠"), f)
			}
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\nRemoved %d rule(s)", len(report.Removed))
		if n := len(report.NotFound); n > 0 {
			fmt.Fprintf(w, ", %d not found", n)
		}
		fmt.Fprintln(w)
		return nil
	},
}
