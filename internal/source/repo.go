package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/github"
)

// ContentClient is the part of the code-host API the repo provider uses.
type ContentClient interface {
	ListDir(ctx context.Context, ref github.Ref, repoPath string) ([]github.Entry, error)
	FileViaAPI(ctx context.Context, ref github.Ref, repoPath string) ([]byte, error)
	RawFile(ctx context.Context, ref github.Ref, repoPath string) ([]byte, error)
}

// Cloner makes shallow clones.
type Cloner interface {
	Clone(ctx context.Context, remote, branch, dest string) error
}

var repoSuggestions = []string{
	"Check if the repository URL is correct",
	"Ensure you have access to the repository if it's private",
	"Verify your git credentials are configured",
}

// RepoProvider reads rules from a directory of a hosted repository.
type RepoProvider struct {
	ref    github.Ref
	client ContentClient
	cloner Cloner
}

// NewRepoProvider parses rawURL and returns a provider for it.
func NewRepoProvider(rawURL string, client ContentClient, cloner Cloner) (*RepoProvider, error) {
	ref, err := github.ParseRef(rawURL)
	if err != nil {
		return nil, err
	}
	return &RepoProvider{ref: ref, client: client, cloner: cloner}, nil
}

// hosted returns tiers when the reference is on github.com and nil
// otherwise; other hosts are only reachable by cloning.
func hosted[T any](p *RepoProvider, tiers ...Tier[T]) []Tier[T] {
	if !p.ref.OnDefaultHost() {
		return nil
	}
	return tiers
}

// Validate tries the contents API, then raw file access, then a shallow
// clone checked like a local directory.
func (p *RepoProvider) Validate(ctx context.Context) ValidationResult {
	tiers := hosted(p,
		Tier[struct{}]{Name: "api", Run: p.validateViaAPI},
		Tier[struct{}]{Name: "raw", Run: p.validateViaRaw},
	)
	tiers = append(tiers, Tier[struct{}]{Name: "clone", Run: p.validateViaClone})
	_, err := RunChain(ctx, tiers...)
	if err == nil {
		return ValidationResult{Valid: true}
	}
	result := ValidationResult{Error: "failed to validate repository source " + p.ref.WebURL() + ": " + err.Error()}
	var fe *FallbackError
	if errors.As(err, &fe) {
		result.Suggestions = fe.Suggestions()
	}
	result.Suggestions = appendMissing(result.Suggestions, repoSuggestions...)
	return result
}

func (p *RepoProvider) validateViaAPI(ctx context.Context) (struct{}, error) {
	entries, err := p.client.ListDir(ctx, p.ref, p.ref.Path)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrNotFound):
			return struct{}{}, invalid("repository, branch, or path not found")
		case errors.Is(err, github.ErrAccessDenied):
			return struct{}{}, invalid("access denied - check your GitHub credentials",
				"Set GITHUB_TOKEN or git config --global github.token")
		}
		return struct{}{}, err
	}
	if hasRuleFile(entries) {
		return struct{}{}, nil
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub, err := p.client.ListDir(ctx, p.ref, p.ref.Join(e.Name))
		if err == nil && hasRuleFile(sub) {
			return struct{}{}, nil
		}
	}
	return struct{}{}, invalid("no "+RuleExt+" files found in the specified path",
		"Check if the path contains "+RuleExt+" files or subdirectories with "+RuleExt+" files")
}

// validateViaRaw only proves existence; structure is checked on use.
func (p *RepoProvider) validateViaRaw(ctx context.Context) (struct{}, error) {
	if _, err := p.client.RawFile(ctx, p.ref, p.ref.Path); err != nil {
		return struct{}{}, err
	}
	return struct{}{}, nil
}

func (p *RepoProvider) validateViaClone(ctx context.Context) (struct{}, error) {
	return withClone(ctx, p, func(local *LocalProvider) (struct{}, error) {
		return struct{}{}, local.check(ctx)
	})
}

func hasRuleFile(entries []github.Entry) bool {
	for _, e := range entries {
		if e.IsFile() && isRuleFile(e.Name) {
			return true
		}
	}
	return false
}

// ListRules lists through the contents API and falls back to a clone.
// Repositories on other hosts are always cloned.
func (p *RepoProvider) ListRules(ctx context.Context) ([]RuleMetadata, error) {
	tiers := hosted(p, Tier[[]RuleMetadata]{Name: "api", Run: p.listViaAPI})
	tiers = append(tiers, Tier[[]RuleMetadata]{Name: "clone", Run: func(ctx context.Context) ([]RuleMetadata, error) {
		return withClone(ctx, p, func(local *LocalProvider) ([]RuleMetadata, error) {
			return local.ListRules(ctx)
		})
	}})
	rules, err := RunChain(ctx, tiers...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list rules of %s", p.ref.WebURL())
	}
	return rules, nil
}

// listViaAPI mirrors the local scan: root files and one level of
// subdirectories.
func (p *RepoProvider) listViaAPI(ctx context.Context) ([]RuleMetadata, error) {
	entries, err := p.client.ListDir(ctx, p.ref, p.ref.Path)
	if err != nil {
		return nil, err
	}
	var rules []RuleMetadata
	for _, e := range entries {
		switch {
		case e.IsFile() && isRuleFile(e.Name):
			rules = append(rules, RuleMetadata{Category: DefaultCategory, Name: strings.TrimSuffix(e.Name, RuleExt)})
		case e.IsDir() && !strings.HasPrefix(e.Name, "."):
			children, err := p.client.ListDir(ctx, p.ref, p.ref.Join(e.Name))
			if err != nil {
				return nil, err
			}
			for _, c := range children {
				if c.IsFile() && isRuleFile(c.Name) {
					rules = append(rules, RuleMetadata{Category: e.Name, Name: strings.TrimSuffix(c.Name, RuleExt)})
				}
			}
		}
	}
	return rules, nil
}

// GetRuleContent fetches through the contents API, then the raw host, then
// a clone.
func (p *RepoProvider) GetRuleContent(ctx context.Context, rulePath string) (string, error) {
	if err := checkContentPath(rulePath); err != nil {
		return "", err
	}
	repoPath := p.ref.Join(rulePath)
	tiers := hosted(p,
		Tier[string]{Name: "api", Run: func(ctx context.Context) (string, error) {
			b, err := p.client.FileViaAPI(ctx, p.ref, repoPath)
			return string(b), err
		}},
		Tier[string]{Name: "raw", Run: func(ctx context.Context) (string, error) {
			b, err := p.client.RawFile(ctx, p.ref, repoPath)
			return string(b), err
		}},
	)
	tiers = append(tiers, Tier[string]{Name: "clone", Run: func(ctx context.Context) (string, error) {
		return withClone(ctx, p, func(local *LocalProvider) (string, error) {
			return local.GetRuleContent(ctx, rulePath)
		})
	}})
	content, err := RunChain(ctx, tiers...)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get rule content %s", rulePath)
	}
	return content, nil
}

// withClone shallow-clones the repository into a scoped temporary directory
// and hands fn a transient local provider at the configured subpath.
func withClone[T any](ctx context.Context, p *RepoProvider, fn func(*LocalProvider) (T, error)) (T, error) {
	return withTempDir(ctx, "clone", func(dir string) (T, error) {
		var zero T
		dest := filepath.Join(dir, "repo")
		if err := p.cloner.Clone(ctx, p.ref.CloneURL(), p.ref.Branch, dest); err != nil {
			return zero, err
		}
		root := dest
		if p.ref.Path != "" {
			root = filepath.Join(dest, filepath.FromSlash(p.ref.Path))
		}
		return fn(newTransientLocal(root))
	})
}

func appendMissing(list []string, items ...string) []string {
	for _, item := range items {
		found := false
		for _, existing := range list {
			if existing == item {
				found = true
				break
			}
		}
		if !found {
			list = append(list, item)
		}
	}
	return list
}
