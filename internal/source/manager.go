package source

import (
	"context"
	"strings"

	"github.com/necolo/rulink/internal/config"
	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/logging"
)

// Deps are the remote collaborators providers are built from. Any of them
// may be nil when the matching source kind is never used.
type Deps struct {
	Content   ContentClient
	Cloner    Cloner
	Lookup    PackageLookup
	Installer PackageInstaller
}

// Manager resolves configured sources to providers and turns user tokens
// into installable rule paths.
type Manager struct {
	store *config.Store
	deps  Deps
}

// NewManager returns a Manager over store.
func NewManager(store *config.Store, deps Deps) *Manager {
	return &Manager{store: store, deps: deps}
}

// Resolve returns the named source, or the active one when name is empty.
// A missing name yields ErrNotFound; no active source yields
// ErrNoActiveSource.
func (m *Manager) Resolve(name string) (*config.SourceDescriptor, error) {
	if name == "" {
		return m.store.Active()
	}
	return m.store.Get(name)
}

// Provider builds the provider for d.
func (m *Manager) Provider(d config.SourceDescriptor) (Provider, error) {
	switch d.Kind {
	case config.KindLocal:
		return NewLocalProvider(d.Path), nil
	case config.KindRepo:
		if m.deps.Content == nil || m.deps.Cloner == nil {
			return nil, errors.New("repository sources are not configured")
		}
		return NewRepoProvider(d.URL, m.deps.Content, m.deps.Cloner)
	case config.KindRegistry:
		if m.deps.Lookup == nil || m.deps.Installer == nil {
			return nil, errors.New("registry sources are not configured")
		}
		return NewRegistryProvider(d.Package, m.deps.Lookup, m.deps.Installer), nil
	}
	return nil, errors.Newf("unknown source type %q", d.Kind)
}

func (m *Manager) open(name string) (Provider, *config.SourceDescriptor, error) {
	d, err := m.Resolve(name)
	if err != nil {
		return nil, nil, err
	}
	p, err := m.Provider(*d)
	if err != nil {
		return nil, nil, err
	}
	return p, d, nil
}

// Validate checks the named (or active) source.
func (m *Manager) Validate(ctx context.Context, name string) (ValidationResult, error) {
	p, _, err := m.open(name)
	if err != nil {
		return ValidationResult{}, err
	}
	return p.Validate(ctx), nil
}

// ListRules lists the rules of the named (or active) source.
func (m *Manager) ListRules(ctx context.Context, name string) ([]RuleMetadata, error) {
	p, _, err := m.open(name)
	if err != nil {
		return nil, err
	}
	return p.ListRules(ctx)
}

// GetRuleContent fetches one fully qualified rule. Category tokens and
// paths ending in a separator are rejected.
func (m *Manager) GetRuleContent(ctx context.Context, name, rulePath string) (string, error) {
	if strings.HasSuffix(rulePath, "/") || IsCategoryToken(rulePath) {
		return "", errors.Wrapf(errors.ErrPathFormat, "cannot install category without specific rule file: %s", rulePath)
	}
	if err := ValidateRulePath(rulePath); err != nil {
		return "", err
	}
	p, _, err := m.open(name)
	if err != nil {
		return "", err
	}
	return p.GetRuleContent(ctx, rulePath)
}

// ExpandRulePath validates token and returns the rule paths it stands for.
// Rule tokens expand to themselves; category tokens list the source.
func (m *Manager) ExpandRulePath(ctx context.Context, name, token string) ([]string, error) {
	if err := ValidateRulePath(token); err != nil {
		return nil, err
	}
	if !IsCategoryToken(token) {
		return []string{token}, nil
	}
	rules, err := m.ListRules(ctx, name)
	if err != nil {
		return nil, err
	}
	return Expand(token, rules)
}

// Expand resolves token against an existing listing. Category matches keep
// the listing's order.
func Expand(token string, rules []RuleMetadata) ([]string, error) {
	if err := ValidateRulePath(token); err != nil {
		return nil, err
	}
	if !IsCategoryToken(token) {
		return []string{token}, nil
	}
	var out []string
	for _, r := range rules {
		if r.Category == token {
			out = append(out, r.CanonicalPath())
		}
	}
	if len(out) == 0 {
		return nil, errors.Wrapf(errors.ErrNotFound, "no rules found in category '%s'", token)
	}
	return out, nil
}

// RulesByCategory groups rules by category, preserving listing order in
// both the category order and within each category.
func RulesByCategory(rules []RuleMetadata) ([]string, map[string][]RuleMetadata) {
	var order []string
	groups := map[string][]RuleMetadata{}
	for _, r := range rules {
		if _, seen := groups[r.Category]; !seen {
			order = append(order, r.Category)
		}
		groups[r.Category] = append(groups[r.Category], r)
	}
	return order, groups
}

// AddOptions control AddSource.
type AddOptions struct {
	// Name overrides the derived name. It must not be taken.
	Name string
	// Kind overrides detection.
	Kind config.SourceKind
	// SkipValidation stores the source without checking it.
	SkipValidation bool
}

// AddSource detects, names, validates and stores a new source. A source that
// fails validation is returned as a *ValidationError and not stored.
func (m *Manager) AddSource(ctx context.Context, input string, opts AddOptions) (*config.SourceDescriptor, error) {
	kind := opts.Kind
	if kind == "" {
		kind = Detect(input)
	}
	d, err := Describe(kind, input)
	if err != nil {
		return nil, err
	}

	cfg, err := m.store.Load()
	if err != nil {
		return nil, err
	}
	if opts.Name != "" {
		if err := config.ValidateName(opts.Name); err != nil {
			return nil, err
		}
		if _, taken := cfg.Sources[opts.Name]; taken {
			return nil, errors.Wrapf(errors.ErrSourceExists, "source %q", opts.Name)
		}
		d.Name = opts.Name
	} else {
		base := DefaultName(d)
		if base == "" {
			base = string(kind)
		}
		d.Name = cfg.UniqueName(base)
	}

	logger := logging.FromContext(ctx)
	if !opts.SkipValidation {
		p, err := m.Provider(d)
		if err != nil {
			return nil, err
		}
		logger.Info("validating source", "name", d.Name, "type", d.Kind, "location", d.Location())
		if result := p.Validate(ctx); !result.Valid {
			return nil, &ValidationError{Message: result.Error, Suggestions: result.Suggestions}
		}
	}

	if err := m.store.AddSource(d); err != nil {
		return nil, err
	}
	logger.Info("source added", "name", d.Name)
	return &d, nil
}

// RemoveSource deletes a source.
func (m *Manager) RemoveSource(name string) error {
	return m.store.RemoveSource(name)
}

// RenameSource renames a source, keeping it active if it was.
func (m *Manager) RenameSource(oldName, newName string) error {
	return m.store.RenameSource(oldName, newName)
}

// UseSource makes name the active source.
func (m *Manager) UseSource(name string) error {
	return m.store.SetActive(name)
}

// ListSources returns every configured source ordered by name.
func (m *Manager) ListSources() ([]*config.SourceDescriptor, error) {
	return m.store.List()
}

// ActiveSource returns the active source.
func (m *Manager) ActiveSource() (*config.SourceDescriptor, error) {
	return m.store.Active()
}
