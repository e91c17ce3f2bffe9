package source

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/logging"
	"github.com/necolo/rulink/pkg/fileutil"
	"github.com/necolo/rulink/pkg/frontmatter"
)

// LocalProvider reads rules from a directory.
type LocalProvider struct {
	root string
	// transient roots (clones, npm workspaces) do not report absolute paths
	transient bool
}

// NewLocalProvider returns a provider rooted at dir.
func NewLocalProvider(dir string) *LocalProvider {
	return &LocalProvider{root: dir}
}

func newTransientLocal(dir string) *LocalProvider {
	return &LocalProvider{root: dir, transient: true}
}

// Validate checks that the root is a directory with at least one rule file
// at most one level down.
func (p *LocalProvider) Validate(ctx context.Context) ValidationResult {
	if err := p.check(ctx); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return ve.Result()
		}
		return ValidationResult{Error: err.Error()}
	}
	return ValidationResult{Valid: true}
}

// check is Validate in error form, for use as a fallback tier.
func (p *LocalProvider) check(_ context.Context) error {
	info, err := os.Stat(p.root)
	if err != nil {
		return invalid("cannot access path "+p.root+": "+err.Error(),
			"Check if the path exists and is readable")
	}
	if !info.IsDir() {
		return invalid("path is not a directory: "+p.root,
			"Ensure the path points to a directory containing "+RuleExt+" files")
	}
	found := false
	err = p.walk(func(string, string, string) bool {
		found = true
		return false
	})
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "scanning %s", p.root), errors.ErrIO)
	}
	if !found {
		return invalid("no "+RuleExt+" files found in "+p.root,
			"Ensure the directory contains "+RuleExt+" files",
			"Check if "+RuleExt+" files are nested more than one level deep; only the root and its direct subdirectories are scanned")
	}
	return nil
}

// walk visits rule files at the root and in first-level subdirectories, in
// directory order. visit receives category, filename and absolute path and
// returns false to stop.
func (p *LocalProvider) walk(visit func(category, name, abs string) bool) error {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case isRuleFile(name) && isRegular(p.root, entry):
			if !visit(DefaultCategory, name, filepath.Join(p.root, name)) {
				return nil
			}
		case entry.IsDir() && !strings.HasPrefix(name, "."):
			sub := filepath.Join(p.root, name)
			children, err := os.ReadDir(sub)
			if err != nil {
				return err
			}
			for _, child := range children {
				if isRuleFile(child.Name()) && isRegular(sub, child) {
					if !visit(name, child.Name(), filepath.Join(sub, child.Name())) {
						return nil
					}
				}
			}
		}
	}
	return nil
}

// isRegular follows symlinks so linked rule files count.
func isRegular(dir string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(dir, entry.Name()))
	return err == nil && info.Mode().IsRegular()
}

// ListRules scans the root and its direct subdirectories and reads each
// rule's frontmatter.
func (p *LocalProvider) ListRules(ctx context.Context) ([]RuleMetadata, error) {
	logger := logging.FromContext(ctx)
	var rules []RuleMetadata
	err := p.walk(func(category, name, abs string) bool {
		rule := RuleMetadata{
			Category: category,
			Name:     strings.TrimSuffix(name, RuleExt),
		}
		if header, err := readHeader(abs); err != nil {
			logger.Debug("unreadable rule header", "path", abs, "error", err)
		} else {
			rule.Description = header.Description
			rule.Globs = header.Globs
			rule.AlwaysApply = header.AlwaysApply
		}
		if !p.transient {
			rule.AbsolutePath = abs
		}
		rules = append(rules, rule)
		return true
	})
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "failed to scan directory %s", p.root), errors.ErrIO)
	}
	return rules, nil
}

func readHeader(path string) (frontmatter.RuleHeader, error) {
	var header frontmatter.RuleHeader
	f, err := os.Open(path)
	if err != nil {
		return header, err
	}
	defer f.Close()
	err = frontmatter.ParseHeader(f, &header)
	return header, err
}

// GetRuleContent reads a "name.mdc" or "category/name.mdc" file.
func (p *LocalProvider) GetRuleContent(_ context.Context, rulePath string) (string, error) {
	if err := checkContentPath(rulePath); err != nil {
		return "", err
	}
	full := filepath.Join(p.root, filepath.FromSlash(rulePath))
	data, err := fileutil.ReadFileWithLimit(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errors.Wrapf(errors.ErrNotFound, "rule %s", rulePath)
		}
		return "", errors.Mark(errors.Wrapf(err, "failed to read rule file %s", full), errors.ErrIO)
	}
	return string(data), nil
}
