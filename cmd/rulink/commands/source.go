package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/necolo/rulink/internal/config"
	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/output"
)

var sourceOutput string

func init() {
	sourceCmd.PersistentFlags().StringVarP(&sourceOutput, "output", "o", "text",
		"output format for listings: text, json, yaml, toml")
	sourceCmd.AddCommand(sourceListCmd)
	rootCmd.AddCommand(sourceCmd)
}

var sourceCmd = &cobra.Command{
	Use:     "source",
	Aliases: []string{"sources"},
	Short:   "Manage rule sources",
	Long: `Manage the sources rules are installed from.

A source is one of:
  local     a directory on this machine
  repo      a directory in a GitHub repository (optionally /tree/<branch>/<path>)
  registry  an npm package

One source is active at a time; install, update, list and status use it
unless --source names another. Running "rulink source" lists sources.`,
	Example: `  rulink source add ./team-rules
  rulink source add https://github.com/acme/rules/tree/main/cursor
  rulink source add @acme/cursor-rules --name acme
  rulink source use acme
  rulink source rename acme company`,
	Args: cobra.NoArgs,
	RunE: runSourceList,
}

var sourceListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List configured sources",
	Args:    cobra.NoArgs,
	RunE:    runSourceList,
}

type sourceListing struct {
	ActiveSource string                     `json:"activeSource,omitempty" yaml:"activeSource,omitempty" toml:"activeSource,omitempty"`
	Sources      []*config.SourceDescriptor `json:"sources" yaml:"sources" toml:"sources"`
}

func runSourceList(cmd *cobra.Command, _ []string) error {
	format, err := output.ParseFormat(sourceOutput)
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	sources, err := a.manager.ListSources()
	if err != nil {
		return err
	}
	listing := sourceListing{Sources: sources}
	if active, err := a.manager.ActiveSource(); err == nil {
		listing.ActiveSource = active.Name
	} else if !errors.Is(err, errors.ErrNoActiveSource) {
		return err
	}

	if format.Structured() {
		return output.Encode(cmd.OutOrStdout(), format, listing)
	}
	printSources(cmd.OutOrStdout(), listing)
	return nil
}

func printSources(w io.Writer, listing sourceListing) {
	if len(listing.Sources) == 0 {
		fmt.Fprintln(w, "No sources configured.")
		fmt.Fprintln(w, "Add one with: rulink source add <path|repo|package>")
		return
	}

	fmt.Fprintln(w, "Configured Sources:")
	for _, d := range listing.Sources {
		fmt.Fprintln(w)
		if d.Name == listing.ActiveSource {
			fmt.Fprintf(w, "%s %s %s\n", color.GreenString("●"), color.New(color.Bold).Sprint(d.Name), color.GreenString("(active)"))
		} else {
			fmt.Fprintf(w, "○ %s\n", d.Name)
		}
		fmt.Fprintf(w, "  Type: %s\n", d.Kind.Label())
		switch d.Kind {
		case config.KindLocal:
			fmt.Fprintf(w, "  Path: %s\n", d.Path)
		case config.KindRepo:
			fmt.Fprintf(w, "  URL: %s\n", d.URL)
		case config.KindRegistry:
			fmt.Fprintf(w, "  Package: %s\n", d.Package)
		}
	}
}
