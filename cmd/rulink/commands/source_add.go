package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/necolo/rulink/internal/config"
	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/source"
)

var (
	addName           string
	addType           string
	addSkipValidation bool
)

func init() {
	sourceAddCmd.Flags().StringVar(&addName, "name", "", "name for the source (default: derived from the input)")
	sourceAddCmd.Flags().StringVar(&addType, "type", "", "source type: local, repo, registry (default: detected)")
	sourceAddCmd.Flags().BoolVar(&addSkipValidation, "no-validate", false, "store the source without checking it")
	sourceCmd.AddCommand(sourceAddCmd)
}

var sourceAddCmd = &cobra.Command{
	Use:   "add <path|repo|package>",
	Short: "Add a rule source",
	Long: `Add a rule source and validate it.

The type is detected from the input: paths starting with ./, ../, / or ~/
are local, GitHub references and git URLs are repositories, and anything
else is an npm package. The name defaults to the directory, repository or
package name; a numeric suffix is added if it is taken.

The first source added becomes the active source.`,
	Example: `  rulink source add ~/rules
  rulink source add github:acme/rules
  rulink source add https://github.com/acme/rules/tree/v2/cursor --name acme-v2
  rulink source add @acme/cursor-rules`,
	Args: cobra.ExactArgs(1),
	RunE: runSourceAdd,
}

func runSourceAdd(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	opts := source.AddOptions{Name: addName, SkipValidation: addSkipValidation}
	if addType != "" {
		kind, ok := config.ParseKind(addType)
		if !ok {
			kinds := make([]string, 0, 3)
			for _, k := range config.Kinds() {
				kinds = append(kinds, string(k))
			}
			return errors.NewUserError(errors.Newf("unknown source type %q", addType), "Use one of: "+strings.Join(kinds, ", "))
		}
		opts.Kind = kind
	}

	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	if !addSkipValidation {
		fmt.Fprintln(w, "Validating source...")
	}
	d, err := a.manager.AddSource(cmd.Context(), args[0], opts)
	if err != nil {
		return validationFailure(w, err)
	}

	fmt.Fprintf(w, "%s Added %s source %s\n", color.GreenString("✓"), d.Kind.Label(), color.CyanString(d.Name))
	fmt.Fprintf(w, "  %s\n", d.Location())
	if active, err := a.manager.ActiveSource(); err == nil && active.Name == d.Name {
		fmt.Fprintf(w, "  Set as active source\n")
	}
	return nil
}
