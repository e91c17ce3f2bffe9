package commands

import (
	"github.com/spf13/cobra"

	"github.com/necolo/rulink/internal/cli/prompt"
	"github.com/necolo/rulink/internal/install"
)

var updateSource string

func init() {
	updateCmd.Flags().StringVarP(&updateSource, "source", "s", "", "source to update from (default: active source)")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"upgrade"},
	Short:   "Reinstall installed rules from the source",
	Long: `Refresh every rule installed in the project from the source.

Installed files only keep their filename, so each is looked up across all
categories of the source. When a filename exists in more than one category
you are asked which to use; any answer other than a listed number skips it.
Rules no longer present in the source are reported and left in place.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		w := cmd.OutOrStdout()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		d, err := a.manager.Resolve(updateSource)
		if err != nil {
			return err
		}
		loc, err := rulesLocation()
		if err != nil {
			return err
		}
		printBanner(w, "Updating", d, loc.Path)

		asker := prompt.NewSelectorWithIO(cmd.InOrStdin(), w)
		report, err := install.NewInstaller(a.manager, w).Update(ctx, asker, install.Options{
			Source: d.Name,
			Dir:    loc.Path,
		})
		if err != nil {
			return err
		}
		return report.Install.Err()
	},
}
