package doctor

import (
	"context"
	"time"

	"github.com/necolo/rulink/internal/logging"
)

// Check is the interface that diagnostic checks must implement.
type Check interface {
	// Name returns the unique identifier for this check.
	Name() string

	// Category returns the grouping for this check (e.g., "source", "config").
	Category() string

	// Run executes the diagnostic check and returns its result.
	Run(ctx context.Context) *CheckResult
}

// Runner executes diagnostic checks in registration order.
type Runner struct {
	checks []Check
}

// NewRunner creates a new diagnostic runner.
func NewRunner(checks ...Check) *Runner {
	return &Runner{checks: checks}
}

// AddCheck registers a diagnostic check with the runner.
func (r *Runner) AddCheck(c Check) {
	r.checks = append(r.checks, c)
}

// Checks returns the registered checks.
func (r *Runner) Checks() []Check {
	return r.checks
}

// Run executes all registered checks and returns a report.
func (r *Runner) Run(ctx context.Context) *DoctorReport {
	logger := logging.FromContext(ctx)
	report := &DoctorReport{
		Timestamp: time.Now().UTC(),
		Results:   make([]*CheckResult, 0, len(r.checks)),
	}

	for _, check := range r.checks {
		result := check.Run(ctx)
		logger.Debug("doctor check", "name", result.Name, "status", result.Status.String())
		report.Results = append(report.Results, result)

		switch result.Status {
		case SeverityPass:
			report.Summary.Passed++
		case SeverityInfo:
			report.Summary.Info++
		case SeverityWarning:
			report.Summary.Warnings++
		case SeverityError:
			report.Summary.Errors++
		}
	}

	return report
}

// DoctorReport aggregates all check results with timing and summary.
type DoctorReport struct {
	// Timestamp is when the run started.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// Results hold one entry per check, in registration order.
	Results []*CheckResult `json:"results" yaml:"results"`

	// Summary counts the results by severity.
	Summary Summary `json:"summary" yaml:"summary"`
}

// HasErrors returns true if any check has SeverityError.
func (r *DoctorReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasWarnings returns true if any check has SeverityWarning.
func (r *DoctorReport) HasWarnings() bool {
	return r.Summary.Warnings > 0
}
