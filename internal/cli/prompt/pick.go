package prompt

import (
	"fmt"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/source"
)

// ErrPickAborted is returned when the picker is closed without a choice.
var ErrPickAborted = errors.New("selection cancelled")

// PickRules opens a fuzzy multi-select over rules and returns the chosen
// canonical paths in listing order.
func PickRules(rules []source.RuleMetadata) ([]string, error) {
	if len(rules) == 0 {
		return nil, nil
	}

	idxs, err := fuzzyfinder.FindMulti(
		rules,
		func(i int) string {
			return rules[i].CanonicalPath()
		},
		fuzzyfinder.WithPromptString("rules> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return describeRule(rules[i])
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, ErrPickAborted
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}

	picked := make(map[int]bool, len(idxs))
	for _, i := range idxs {
		picked[i] = true
	}
	out := make([]string, 0, len(idxs))
	for i, r := range rules {
		if picked[i] {
			out = append(out, r.CanonicalPath())
		}
	}
	return out, nil
}

func describeRule(r source.RuleMetadata) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Category: %s\nName: %s\n", r.Category, r.Name)
	if len(r.Globs) > 0 {
		fmt.Fprintf(&b, "Globs: %s\n", strings.Join(r.Globs, ", "))
	}
	if r.AlwaysApply != nil {
		fmt.Fprintf(&b, "Always apply: %t\n", *r.AlwaysApply)
	}
	if r.Description != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", r.Description)
	}
	return b.String()
}
