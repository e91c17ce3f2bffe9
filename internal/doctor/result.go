// Package doctor provides diagnostic checks for a rulink installation.
package doctor

// Severity indicates the importance level of a check result.
type Severity int

const (
	// SeverityPass indicates the check passed without issues.
	SeverityPass Severity = iota

	// SeverityInfo indicates informational output, not a problem.
	SeverityInfo

	// SeverityWarning indicates a potential issue that doesn't prevent operation.
	SeverityWarning

	// SeverityError indicates a problem that prevents proper operation.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityPass:
		return "pass"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// MarshalText renders the severity by name in JSON and YAML reports.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult represents the outcome of a single diagnostic check.
type CheckResult struct {
	// Name is the check's identifier, e.g. "active-source".
	Name string `json:"name" yaml:"name"`

	// Category groups related checks ("config", "source", "tools", "project").
	Category string `json:"category" yaml:"category"`

	// Status is the worst severity the check found.
	Status Severity `json:"status" yaml:"status"`

	// Message is the one-line outcome shown to the user.
	Message string `json:"message" yaml:"message"`

	// Details carry check-specific context such as paths or versions.
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`

	// Fixable means `rulink doctor --fix` can resolve the issue.
	Fixable bool `json:"fixable,omitempty" yaml:"fixable,omitempty"`

	// FixHint tells the user how to resolve the issue by hand.
	FixHint string `json:"fix_hint,omitempty" yaml:"fix_hint,omitempty"`
}

func newResult(c Check) *CheckResult {
	return &CheckResult{
		Name:     c.Name(),
		Category: c.Category(),
		Status:   SeverityPass,
		Details:  make(map[string]any),
	}
}

// Summary aggregates counts of check results by severity.
type Summary struct {
	// Passed counts checks with SeverityPass.
	Passed int `json:"passed" yaml:"passed"`

	// Info counts checks with SeverityInfo.
	Info int `json:"info" yaml:"info"`

	// Warnings counts checks with SeverityWarning.
	Warnings int `json:"warnings" yaml:"warnings"`

	// Errors counts checks with SeverityError.
	Errors int `json:"errors" yaml:"errors"`
}
