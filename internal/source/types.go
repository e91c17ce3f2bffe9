package source

import (
	"context"
	"strings"

	"github.com/necolo/rulink/internal/paths"
)

// DefaultCategory holds rules stored at the source root.
const DefaultCategory = "default"

// RuleExt is the rule file suffix.
const RuleExt = paths.RuleExt

// RuleMetadata describes one rule of a source. It is recomputed on every
// listing and never persisted.
type RuleMetadata struct {
	Category    string   `json:"category" yaml:"category" toml:"category"`
	Name        string   `json:"name" yaml:"name" toml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Globs       []string `json:"globs,omitempty" yaml:"globs,omitempty" toml:"globs,omitempty"`
	AlwaysApply *bool    `json:"alwaysApply,omitempty" yaml:"alwaysApply,omitempty" toml:"alwaysApply,omitempty"`
	// AbsolutePath is only set for rules of local sources.
	AbsolutePath string `json:"absolutePath,omitempty" yaml:"absolutePath,omitempty" toml:"absolutePath,omitempty"`
}

// Filename is the rule's basename including the suffix.
func (r RuleMetadata) Filename() string {
	return r.Name + RuleExt
}

// CanonicalPath is the token that addresses exactly this rule.
func (r RuleMetadata) CanonicalPath() string {
	if r.Category == DefaultCategory || r.Category == "" {
		return r.Filename()
	}
	return r.Category + "/" + r.Filename()
}

// ValidationResult reports whether a source is usable. It is advisory:
// Validate never fails because a source is unusable, only because it could
// not be asked.
type ValidationResult struct {
	Valid       bool     `json:"valid"`
	Error       string   `json:"error,omitempty"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Provider reads rules from one concrete source.
type Provider interface {
	Validate(ctx context.Context) ValidationResult
	ListRules(ctx context.Context) ([]RuleMetadata, error)
	GetRuleContent(ctx context.Context, rulePath string) (string, error)
}

// ValidationError marks a source as unusable and carries remediation hints.
type ValidationError struct {
	Message     string
	Suggestions []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string, suggestions ...string) *ValidationError {
	return &ValidationError{Message: msg, Suggestions: suggestions}
}

// Result converts the error into a failed ValidationResult.
func (e *ValidationError) Result() ValidationResult {
	return ValidationResult{Valid: false, Error: e.Message, Suggestions: e.Suggestions}
}

// isRuleFile reports whether name carries the rule suffix.
func isRuleFile(name string) bool {
	return strings.HasSuffix(name, RuleExt)
}
