package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/necolo/rulink/internal/cli/prompt"
	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/install"
	"github.com/necolo/rulink/internal/paths"
)

var (
	installTo          string
	installSource      string
	installDryRun      bool
	installInteractive bool
)

func init() {
	installCmd.Flags().StringVar(&installTo, "to", "", "rules directory to write to (default: .cursor/rules of the project)")
	installCmd.Flags().StringVarP(&installSource, "source", "s", "", "source to install from (default: active source)")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "show what would be installed without writing")
	installCmd.Flags().BoolVarP(&installInteractive, "interactive", "i", false, "pick rules from a fuzzy finder")
	rootCmd.AddCommand(installCmd)
}

var installCmd = &cobra.Command{
	Use:     "install <rule>...",
	Aliases: []string{"add", "i"},
	Short:   "Install rules into the project",
	Long: `Install rules from a source into the project's .cursor/rules directory.

Each argument is one of:
  name.mdc            a rule at the root of the source
  category/name.mdc   a rule in a category
  category            every rule in the category

Rules are installed in order. A rule that fails is reported and skipped;
the command only fails when nothing could be installed.`,
	Example: `  rulink install general.mdc
  rulink install typescript/style.mdc react
  rulink install --source team --dry-run typescript
  rulink install --interactive`,
	RunE: runInstall,
}

func runInstall(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !installInteractive {
		return errors.NewUserError(errors.New("no rules given"), "Run: rulink list to see available rules")
	}
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	d, err := a.manager.Resolve(installSource)
	if err != nil {
		return err
	}

	dir := installTo
	if dir == "" {
		loc, err := rulesLocation()
		if err != nil {
			return err
		}
		dir = loc.Path
	} else if dir, err = paths.Absolute(dir); err != nil {
		return errors.NewUserError(err, "Check the --to path")
	}

	tokens := args
	if installInteractive {
		rules, err := a.manager.ListRules(ctx, d.Name)
		if err != nil {
			return err
		}
		picked, err := prompt.PickRules(rules)
		if errors.Is(err, prompt.ErrPickAborted) {
			fmt.Fprintln(w, "Nothing selected.")
			return nil
		}
		if err != nil {
			return err
		}
		tokens = append(tokens, picked...)
	}

	verb := "Installing"
	if installDryRun {
		verb = "Would install"
	}
	printBanner(w, verb, d, dir)

	report := install.NewInstaller(a.manager, w).Install(ctx, tokens, install.Options{
		Source: d.Name,
		Dir:    dir,
		DryRun: installDryRun,
	})
	return report.Err()
}
