package source

import (
	"context"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/logging"
	"github.com/necolo/rulink/internal/npm"
)

// PackageLookup queries registry metadata.
type PackageLookup interface {
	Lookup(ctx context.Context, pkg string) (*npm.Packument, error)
}

// PackageInstaller materializes a package into a workspace directory and
// returns the package's own directory.
type PackageInstaller interface {
	Install(ctx context.Context, pkg, workspace string) (string, error)
}

// RegistryProvider reads rules shipped inside a published package. Every
// operation installs the package into a scoped temporary workspace.
type RegistryProvider struct {
	pkg       string
	lookup    PackageLookup
	installer PackageInstaller
}

// NewRegistryProvider returns a provider for pkg.
func NewRegistryProvider(pkg string, lookup PackageLookup, installer PackageInstaller) *RegistryProvider {
	return &RegistryProvider{pkg: pkg, lookup: lookup, installer: installer}
}

// Validate checks that the package is published and that its installed
// contents hold rule files.
func (p *RegistryProvider) Validate(ctx context.Context) ValidationResult {
	if _, err := p.lookup.Lookup(ctx, p.pkg); err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return invalid("package not found on npm registry",
				"Check if the package name is correct",
				"Ensure the package is published").Result()
		}
		return ValidationResult{
			Error:       "failed to validate npm package: " + err.Error(),
			Suggestions: []string{"Check your network connection and registry settings"},
		}
	}

	err := withPackage(ctx, p, func(local *LocalProvider) error {
		return packageContents(local.check(ctx))
	})
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return ve.Result()
		}
		hint := "Ensure npm is installed and on PATH"
		if errors.Is(err, errors.ErrIO) {
			hint = "Check permissions of the temporary directory"
		}
		return ValidationResult{
			Error:       "failed to validate npm package: " + err.Error(),
			Suggestions: []string{hint},
		}
	}
	return ValidationResult{Valid: true}
}

// packageContents maps the scan of an installed package. A package without
// rule files is invalid; a scan that could not run is an I/O failure.
func packageContents(err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return invalid("package does not contain "+RuleExt+" files",
			"Ensure the package contains "+RuleExt+" files in its root or subdirectories")
	}
	return errors.Mark(err, errors.ErrIO)
}

// ListRules installs the package and scans it. An install failure is logged
// and yields an empty list.
func (p *RegistryProvider) ListRules(ctx context.Context) ([]RuleMetadata, error) {
	var rules []RuleMetadata
	err := withPackage(ctx, p, func(local *LocalProvider) error {
		var err error
		rules, err = local.ListRules(ctx)
		return err
	})
	if err != nil {
		if errors.Is(err, errors.ErrSubprocess) {
			logging.FromContext(ctx).Warn("failed to list rules from npm package", "package", p.pkg, "error", err)
			return nil, nil
		}
		return nil, err
	}
	return rules, nil
}

// GetRuleContent installs the package and reads one rule from it.
func (p *RegistryProvider) GetRuleContent(ctx context.Context, rulePath string) (string, error) {
	if err := checkContentPath(rulePath); err != nil {
		return "", err
	}
	var content string
	err := withPackage(ctx, p, func(local *LocalProvider) error {
		var err error
		content, err = local.GetRuleContent(ctx, rulePath)
		return err
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to get rule content from npm package %s", p.pkg)
	}
	return content, nil
}

func withPackage(ctx context.Context, p *RegistryProvider, fn func(*LocalProvider) error) error {
	_, err := withTempDir(ctx, "npm", func(dir string) (struct{}, error) {
		pkgDir, err := p.installer.Install(ctx, p.pkg, dir)
		if err != nil {
			return struct{}{}, err
		}
		return struct{}{}, fn(newTransientLocal(pkgDir))
	})
	return err
}
