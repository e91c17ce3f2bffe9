package commands

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/necolo/rulink/internal/output"
	"github.com/necolo/rulink/internal/source"
)

var (
	listSource string
	listOutput string
)

func init() {
	listCmd.Flags().StringVarP(&listSource, "source", "s", "", "source to list (default: active source)")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "text", "output format: text, json, yaml, toml")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List rules available in a source",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := output.ParseFormat(listOutput)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		d, err := a.manager.Resolve(listSource)
		if err != nil {
			return err
		}
		rules, err := a.manager.ListRules(ctx, d.Name)
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		if format.Structured() {
			return output.Encode(w, format, ruleListing{Source: d.Name, Rules: rules})
		}
		fmt.Fprintf(w, "Rules in %s (%s: %s)\n", color.CyanString(d.Name), d.Kind.Label(), d.Location())
		printRules(w, rules)
		return nil
	},
}

type ruleListing struct {
	Source string                `json:"source" yaml:"source" toml:"source"`
	Rules  []source.RuleMetadata `json:"rules" yaml:"rules" toml:"rules"`
}

func printRules(w io.Writer, rules []source.RuleMetadata) {
	if len(rules) == 0 {
		fmt.Fprintln(w, "\nNo rules found.")
		return
	}
	categories, byCategory := source.RulesByCategory(rules)
	for _, cat := range categories {
		title := cat
		if cat == source.DefaultCategory {
			title = "(root)"
		}
		fmt.Fprintf(w, "\n%s\n", color.New(color.Bold).Sprint(title))
		for _, r := range byCategory[cat] {
			if r.Description != "" {
				fmt.Fprintf(w, "  %s - %s\n", r.CanonicalPath(), r.Description)
			} else {
				fmt.Fprintf(w, "  %s\n", r.CanonicalPath())
			}
		}
	}
	fmt.Fprintf(w, "\n%d rule(s)\n", len(rules))
}
