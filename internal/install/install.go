// Package install writes rules from a source into a project's rules
// directory and keeps them up to date.
package install

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/necolo/rulink/internal/conflict"
	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/logging"
	"github.com/necolo/rulink/internal/source"
	"github.com/necolo/rulink/pkg/fileutil"
)

// RuleSource is what the installer needs from a source manager.
type RuleSource interface {
	ListRules(ctx context.Context, name string) ([]source.RuleMetadata, error)
	GetRuleContent(ctx context.Context, name, rulePath string) (string, error)
}

// Options control one install run.
type Options struct {
	// Source names the source to read; empty means the active one.
	Source string
	// Dir is the rules directory written to.
	Dir string
	// DryRun reports what would be written without writing.
	DryRun bool
}

// Written records one installed rule.
type Written struct {
	// Path is the canonical rule path read from the source.
	Path string
	// File is where it was written, or would be on a dry run.
	File string
}

// Failure records a token or rule path that could not be installed.
type Failure struct {
	// Item is the token or expanded rule path as given.
	Item string
	Err  error
}

// Report summarizes an install run.
type Report struct {
	// Installed is in install order.
	Installed []Written
	// Failed holds items that were skipped; the run continued past them.
	Failed []Failure
}

// Err returns an error only when nothing was installed and something
// failed. Partial installs are successes.
func (r *Report) Err() error {
	if len(r.Installed) > 0 || len(r.Failed) == 0 {
		return nil
	}
	if len(r.Failed) == 1 {
		return r.Failed[0].Err
	}
	return errors.Newf("failed to install %d item(s)", len(r.Failed))
}

// Installer drives a RuleSource and writes files.
type Installer struct {
	src RuleSource
	out io.Writer
}

// NewInstaller returns an Installer printing progress to out.
func NewInstaller(src RuleSource, out io.Writer) *Installer {
	if out == nil {
		out = io.Discard
	}
	return &Installer{src: src, out: out}
}

// Install validates, expands, fetches and writes each token in order. A
// failing token is reported and skipped; the rest still run.
func (i *Installer) Install(ctx context.Context, tokens []string, opts Options) *Report {
	logger := logging.FromContext(ctx)
	report := &Report{}
	var listing []source.RuleMetadata
	listed := false

	for _, token := range tokens {
		if err := source.ValidateRulePath(token); err != nil {
			i.fail(ctx, report, token, err)
			continue
		}
		if source.IsCategoryToken(token) && !listed {
			rules, err := i.src.ListRules(ctx, opts.Source)
			if err != nil {
				i.fail(ctx, report, token, err)
				continue
			}
			listing, listed = rules, true
		}
		rulePaths, err := source.Expand(token, listing)
		if err != nil {
			i.fail(ctx, report, token, err)
			continue
		}
		logger.Debug("expanded rule token", "token", token, "rules", len(rulePaths))

		for _, rulePath := range rulePaths {
			if err := i.installOne(ctx, rulePath, opts, report); err != nil {
				i.fail(ctx, report, rulePath, err)
			}
		}
	}

	if n := len(report.Installed); n > 0 {
		if opts.DryRun {
			fmt.Fprintf(i.out, "\nWould install %d rule(s)\n", n)
		} else {
			fmt.Fprintf(i.out, "\n%s %d rule(s)\n", color.GreenString("Successfully installed"), n)
		}
	}
	if len(report.Failed) > 0 {
		fmt.Fprintf(i.out, "%s %d item(s) failed\n", color.RedString("✗"), len(report.Failed))
	}
	return report
}

func (i *Installer) installOne(ctx context.Context, rulePath string, opts Options, report *Report) error {
	content, err := i.src.GetRuleContent(ctx, opts.Source, rulePath)
	if err != nil {
		return err
	}
	dest := target(opts.Dir, rulePath)
	if !opts.DryRun {
		if _, err := fileutil.WriteInto(opts.Dir, source.Basename(rulePath), []byte(content)); err != nil {
			return errors.Mark(err, errors.ErrIO)
		}
	}
	report.Installed = append(report.Installed, Written{Path: rulePath, File: dest})
	fmt.Fprintf(i.out, "  %s %s\n", color.GreenString("✓"), rulePath)
	return nil
}

func (i *Installer) fail(ctx context.Context, report *Report, item string, err error) {
	logging.FromContext(ctx).Warn("install failed", "item", item, "error", err)
	report.Failed = append(report.Failed, Failure{Item: item, Err: err})
	fmt.Fprintf(i.out, "  %s %s: %v\n", color.RedString("✗"), item, err)
}

// RemoveReport lists what Remove did.
type RemoveReport struct {
	// Removed and NotFound hold filenames with the rule suffix.
	Removed  []string
	NotFound []string
}

// Remove deletes the named rule files from dir. Names may carry a category
// prefix and may omit the suffix.
func Remove(dir string, names []string) (*RemoveReport, error) {
	report := &RemoveReport{}
	for _, name := range names {
		file := RuleFile(name)
		err := os.Remove(target(dir, file))
		switch {
		case err == nil:
			report.Removed = append(report.Removed, file)
		case errors.Is(err, os.ErrNotExist):
			report.NotFound = append(report.NotFound, file)
		default:
			return report, errors.Mark(errors.Wrapf(err, "removing %s", file), errors.ErrIO)
		}
	}
	return report, nil
}

// UpdateReport summarizes an update run.
type UpdateReport struct {
	// Plan is the resolution of installed files against the source.
	Plan conflict.Plan
	// Install reports the reinstall of Plan.Install; it is never nil.
	Install *Report
}

// Update refreshes every rule installed in opts.Dir from the source,
// asking ask about filenames that match several rules.
func (i *Installer) Update(ctx context.Context, ask conflict.Asker, opts Options) (*UpdateReport, error) {
	installed, err := Installed(opts.Dir)
	if err != nil {
		return nil, err
	}
	if len(installed) == 0 {
		fmt.Fprintln(i.out, "No rules installed.")
		return &UpdateReport{Install: &Report{}}, nil
	}

	rules, err := i.src.ListRules(ctx, opts.Source)
	if err != nil {
		return nil, errors.Wrap(err, "listing source rules")
	}

	fmt.Fprintln(i.out, "Updating installed rules...")
	plan := conflict.Resolve(ctx, installed, rules, ask)
	report := &UpdateReport{Plan: plan, Install: &Report{}}

	if len(plan.NotFound) > 0 {
		fmt.Fprintln(i.out, "\nRules not found in source (may have been removed):")
		for _, name := range plan.NotFound {
			fmt.Fprintf(i.out, "  - %s\n", name)
		}
	}

	if len(plan.Install) == 0 {
		fmt.Fprintln(i.out, "No rules were updated.")
	} else {
		report.Install = i.Install(ctx, plan.Install, opts)
		if len(report.Install.Failed) == 0 {
			fmt.Fprintln(i.out, "Rules updated successfully.")
		}
	}

	fmt.Fprintf(i.out, "\n%s\n", Summary(report))
	return report, nil
}

// Summary renders the update counts, omitting zero skipped and not-found
// counts.
func Summary(r *UpdateReport) string {
	s := fmt.Sprintf("Summary: %d updated", len(r.Install.Installed))
	if n := len(r.Plan.Skipped); n > 0 {
		s += fmt.Sprintf(", %d skipped", n)
	}
	if n := len(r.Plan.NotFound); n > 0 {
		s += fmt.Sprintf(", %d not found", n)
	}
	return s
}
