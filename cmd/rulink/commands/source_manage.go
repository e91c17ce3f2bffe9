package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/necolo/rulink/internal/source"
)

func init() {
	sourceCmd.AddCommand(sourceRemoveCmd, sourceUseCmd, sourceRenameCmd, sourceValidateCmd)
}

var sourceRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a source",
	Long: `Remove a source from the configuration. Installed rules are kept.

When the active source is removed, the first remaining source by name
becomes active.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.manager.RemoveSource(args[0]); err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s Removed source %s\n", color.GreenString("✓"), args[0])
		if active, err := a.manager.ActiveSource(); err == nil {
			fmt.Fprintf(w, "  Active source: %s\n", active.Name)
		}
		return nil
	},
}

var sourceUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Set the active source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.manager.UseSource(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Active source: %s\n", color.GreenString("✓"), args[0])
		return nil
	},
}

var sourceRenameCmd = &cobra.Command{
	Use:   "rename <old> <new>",
	Short: "Rename a source",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.manager.RenameSource(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Renamed source %s to %s\n", color.GreenString("✓"), args[0], args[1])
		return nil
	},
}

var sourceValidateCmd = &cobra.Command{
	Use:   "validate [name]",
	Short: "Check that a source is reachable and holds rules",
	Long:  `Validate the named source, or the active source when no name is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		d, err := a.manager.Resolve(name)
		if err != nil {
			return err
		}
		res, err := a.manager.Validate(cmd.Context(), d.Name)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if !res.Valid {
			return validationFailure(w, &source.ValidationError{Message: res.Error, Suggestions: res.Suggestions})
		}
		fmt.Fprintf(w, "%s Source %s is valid\n", color.GreenString("✓"), d.Name)
		return nil
	},
}
