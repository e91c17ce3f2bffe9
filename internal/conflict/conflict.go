// Package conflict decides which source rule replaces each installed rule
// file during an update.
//
// Installed files keep only their basename, so a file like style.mdc may
// match rules in several categories. Resolution is split in two: building
// a Question is pure, and answering it is delegated to an Asker so the
// algorithm can be tested without a terminal.
package conflict

import (
	"context"
	"strconv"
	"strings"

	"github.com/necolo/rulink/internal/logging"
	"github.com/necolo/rulink/internal/source"
)

// Candidate is one rule an installed file could be refreshed from.
type Candidate struct {
	// Path is the canonical rule path installed when chosen.
	Path string

	// Category is the rule's category, DefaultCategory for root rules.
	Category string

	// Description comes from the rule's frontmatter and may be empty.
	Description string
}

// Label renders the candidate as shown in a question.
func (c Candidate) Label() string {
	if c.Description == "" {
		return c.Path
	}
	return c.Path + " - " + c.Description
}

// Question asks which of several candidates an installed file maps to.
// Answers are 1-based; SkipIndex is the last option.
type Question struct {
	// Filename is the installed file being resolved.
	Filename string

	// Candidates are listed in source order.
	Candidates []Candidate

	// SkipIndex is len(Candidates)+1.
	SkipIndex int
}

// NewQuestion builds the question for filename.
func NewQuestion(filename string, candidates []Candidate) Question {
	return Question{Filename: filename, Candidates: candidates, SkipIndex: len(candidates) + 1}
}

// Choose interprets one line of input. Anything but a number naming a
// candidate, including the skip index, means skip.
func (q Question) Choose(answer string) (Candidate, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(q.Candidates) {
		return Candidate{}, false
	}
	return q.Candidates[n-1], true
}

// Asker answers a question with one line of input. It is asked once per
// question; errors count as skip.
type Asker interface {
	Ask(q Question) (string, error)
}

// AskerFunc adapts a function to Asker.
type AskerFunc func(q Question) (string, error)

// Ask calls f.
func (f AskerFunc) Ask(q Question) (string, error) {
	return f(q)
}

// Plan is the outcome of resolving installed files against a source.
type Plan struct {
	// Install lists canonical rule paths to reinstall, in installed order.
	Install []string
	// Skipped lists ambiguous files the user declined to map.
	Skipped []string
	// NotFound lists files no source rule matches. They stay installed.
	NotFound []string
}

// Index maps each rule filename to every rule carrying it, across all
// categories, in listing order.
func Index(rules []source.RuleMetadata) map[string][]Candidate {
	idx := make(map[string][]Candidate, len(rules))
	for _, r := range rules {
		idx[r.Filename()] = append(idx[r.Filename()], Candidate{
			Path:        r.CanonicalPath(),
			Category:    r.Category,
			Description: r.Description,
		})
	}
	return idx
}

// Resolve maps installed filenames onto rules. Unique matches are selected
// automatically; ambiguous ones are put to ask.
func Resolve(ctx context.Context, installed []string, rules []source.RuleMetadata, ask Asker) Plan {
	logger := logging.FromContext(ctx)
	idx := Index(rules)
	var plan Plan

	for _, filename := range installed {
		candidates := idx[filename]
		switch len(candidates) {
		case 0:
			plan.NotFound = append(plan.NotFound, filename)
		case 1:
			plan.Install = append(plan.Install, candidates[0].Path)
		default:
			q := NewQuestion(filename, candidates)
			answer, err := ask.Ask(q)
			if err != nil {
				logger.Debug("no answer to conflict question", "file", filename, "error", err)
			}
			if c, ok := q.Choose(answer); ok {
				plan.Install = append(plan.Install, c.Path)
			} else {
				plan.Skipped = append(plan.Skipped, filename)
			}
		}
	}
	return plan
}
