package doctor

import (
	"context"
	"os"

	"github.com/necolo/rulink/internal/config"
	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/paths"
	"github.com/necolo/rulink/internal/redact"
	"github.com/necolo/rulink/internal/source"
)

// SourceValidator is the part of the source manager the active-source
// check uses.
type SourceValidator interface {
	ActiveSource() (*config.SourceDescriptor, error)
	Validate(ctx context.Context, name string) (source.ValidationResult, error)
}

// ActiveSourceCheck validates the active source end to end.
type ActiveSourceCheck struct {
	sources SourceValidator
}

var _ Check = (*ActiveSourceCheck)(nil)

// NewActiveSourceCheck returns a check over sources.
func NewActiveSourceCheck(sources SourceValidator) *ActiveSourceCheck {
	return &ActiveSourceCheck{sources: sources}
}

func (c *ActiveSourceCheck) Name() string     { return "active-source" }
func (c *ActiveSourceCheck) Category() string { return "source" }

func (c *ActiveSourceCheck) Run(ctx context.Context) *CheckResult {
	result := newResult(c)

	d, err := c.sources.ActiveSource()
	if err != nil {
		if errors.Is(err, errors.ErrNoActiveSource) {
			result.Status = SeverityWarning
			result.Message = "no active source configured"
			result.FixHint = "rulink source add <path|repo|package>"
			return result
		}
		result.Status = SeverityError
		result.Message = err.Error()
		return result
	}
	result.Details["name"] = d.Name
	result.Details["type"] = string(d.Kind)
	result.Details["location"] = d.Location()

	res, err := c.sources.Validate(ctx, d.Name)
	if err != nil {
		result.Status = SeverityError
		result.Message = err.Error()
		return result
	}
	if !res.Valid {
		result.Status = SeverityError
		result.Message = res.Error
		if len(res.Suggestions) > 0 {
			result.Details["suggestions"] = res.Suggestions
			result.FixHint = res.Suggestions[0]
		}
		return result
	}
	result.Message = "source " + d.Name + " is valid"
	return result
}

// Tool is an external binary that may be missing.
type Tool interface {
	// Binary is the configured executable name or path.
	Binary() string
	Available() bool
}

// ToolCheck verifies an external binary is on PATH. Missing tools only
// matter for the source kinds that need them, so they warn.
type ToolCheck struct {
	tool    string
	binary  Tool
	version func(ctx context.Context) (string, error)
	needed  string
}

var _ Check = (*ToolCheck)(nil)

// NewToolCheck returns a check for tool. neededFor names what the tool is
// used for; version may be nil.
func NewToolCheck(tool string, binary Tool, version func(ctx context.Context) (string, error), neededFor string) *ToolCheck {
	return &ToolCheck{tool: tool, binary: binary, version: version, needed: neededFor}
}

func (c *ToolCheck) Name() string     { return "tool-" + c.tool }
func (c *ToolCheck) Category() string { return "tools" }

func (c *ToolCheck) Run(ctx context.Context) *CheckResult {
	result := newResult(c)
	if !c.binary.Available() {
		result.Status = SeverityWarning
		result.Message = c.tool + " not found on PATH (looked for " + c.binary.Binary() + ")"
		result.FixHint = "install " + c.tool + "; it is needed for " + c.needed
		return result
	}
	result.Message = c.tool + " available"
	result.Details["binary"] = c.binary.Binary()
	if c.version != nil {
		if v, err := c.version(ctx); err == nil {
			result.Details["version"] = v
		}
	}
	return result
}

// CredentialsCheck reports whether a GitHub token was discovered. The token
// is masked in the report.
type CredentialsCheck struct {
	token  string
	origin string
}

var _ Check = (*CredentialsCheck)(nil)

// NewCredentialsCheck reports on token, found via origin.
func NewCredentialsCheck(token, origin string) *CredentialsCheck {
	return &CredentialsCheck{token: token, origin: origin}
}

func (c *CredentialsCheck) Name() string     { return "github-credentials" }
func (c *CredentialsCheck) Category() string { return "source" }

func (c *CredentialsCheck) Run(context.Context) *CheckResult {
	result := newResult(c)
	if c.token == "" {
		result.Status = SeverityInfo
		result.Message = "no GitHub token; only public repositories are reachable"
		result.FixHint = "export GITHUB_TOKEN=... or git config --global github.token ..."
		return result
	}
	result.Message = "GitHub token found"
	result.Details["token"] = redact.Value(c.token)
	result.Details["source"] = c.origin
	return result
}

// RulesDirCheck reports where rules would be installed for cwd.
type RulesDirCheck struct {
	cwd string
}

var _ Check = (*RulesDirCheck)(nil)

// NewRulesDirCheck inspects the rules directory for cwd.
func NewRulesDirCheck(cwd string) *RulesDirCheck {
	return &RulesDirCheck{cwd: cwd}
}

func (c *RulesDirCheck) Name() string     { return "rules-directory" }
func (c *RulesDirCheck) Category() string { return "project" }

func (c *RulesDirCheck) Run(context.Context) *CheckResult {
	result := newResult(c)
	loc := paths.RulesDir(c.cwd)
	result.Details["path"] = loc.Path
	result.Details["scope"] = loc.Scope
	result.Details["project_root"] = loc.ProjectRoot

	info, err := os.Stat(loc.Path)
	switch {
	case os.IsNotExist(err):
		result.Status = SeverityInfo
		result.Message = "rules directory does not exist yet; it is created on first install"
	case err != nil:
		result.Status = SeverityError
		result.Message = err.Error()
	case !info.IsDir():
		result.Status = SeverityError
		result.Message = loc.Path + " is not a directory"
	default:
		if ok, _ := isDirectoryWritable(loc.Path); !ok {
			result.Status = SeverityError
			result.Message = loc.Path + " is not writable"
			return result
		}
		result.Message = "rules directory " + loc.Path
	}
	return result
}
