package doctor

import (
	"fmt"
	"os"

	"github.com/necolo/rulink/internal/errors"
)

// Fixer is implemented by checks that can remediate what they detect.
// Both methods must be called after Run.
type Fixer interface {
	CanFix() bool
	Fix() []FixResult
}

// FixResult describes the outcome of an attempted fix operation.
type FixResult struct {
	// Path is the file or directory the fix targeted.
	Path string `json:"path" yaml:"path"`

	// Fixed reports whether the change was applied.
	Fixed bool `json:"fixed" yaml:"fixed"`

	// Description says what was changed, or why nothing was.
	Description string `json:"description" yaml:"description"`

	// Error is set when the fix failed.
	Error error `json:"-" yaml:"-"`
}

// secureFilePerm is the target permission for config files (rw-r--r--).
const secureFilePerm os.FileMode = 0644

// secureDirPerm is the target permission for config directories (rwxr-xr-x).
const secureDirPerm os.FileMode = 0755

// PermissionFixer fixes file and directory permission issues found by
// PathPermissionCheck.
type PermissionFixer struct {
	issues []pathIssue
}

// CanFix returns true if there are any fixable permission issues.
func (f *PermissionFixer) CanFix() bool {
	return f.CountFixable() > 0
}

// Fix attempts to fix all fixable permission issues.
func (f *PermissionFixer) Fix() []FixResult {
	results := make([]FixResult, 0, f.CountFixable())
	for _, issue := range f.issues {
		if issue.Fixable {
			results = append(results, f.fixIssue(issue))
		}
	}
	return results
}

func (f *PermissionFixer) fixIssue(issue pathIssue) FixResult {
	result := FixResult{Path: issue.Path}

	var targetPerm os.FileMode
	switch issue.Type {
	case "file":
		targetPerm = secureFilePerm
	case "directory":
		targetPerm = secureDirPerm
	default:
		result.Description = "unknown type: " + issue.Type
		result.Error = errors.Newf("cannot fix unknown type: %s", issue.Type)
		return result
	}

	if err := os.Chmod(issue.Path, targetPerm); err != nil {
		result.Description = fmt.Sprintf("failed to chmod %04o: %v", targetPerm, err)
		result.Error = errors.Wrapf(err, "chmod %04o %s", targetPerm, issue.Path)
		return result
	}

	result.Fixed = true
	result.Description = fmt.Sprintf("chmod %04o", targetPerm)
	return result
}

func (f *PermissionFixer) setIssues(issues []pathIssue) {
	f.issues = issues
}

// CountFixable returns the number of fixable issues.
func (f *PermissionFixer) CountFixable() int {
	count := 0
	for _, issue := range f.issues {
		if issue.Fixable {
			count++
		}
	}
	return count
}
