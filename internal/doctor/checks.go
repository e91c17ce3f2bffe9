package doctor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/necolo/rulink/internal/errors"
)

// maxSecureFilePerm is the maximum secure permission for config files (-rw-r--r--).
const maxSecureFilePerm os.FileMode = 0644

// PathPermissionCheck validates the config directory and the files in it.
// The settings file may hold a token, so it must not be group or world
// readable beyond 0644.
type PathPermissionCheck struct {
	PermissionFixer

	dir   string
	files []string
}

var (
	_ Check = (*PathPermissionCheck)(nil)
	_ Fixer = (*PathPermissionCheck)(nil)
)

// NewPathPermissionCheck checks dir and files.
func NewPathPermissionCheck(dir string, files ...string) *PathPermissionCheck {
	return &PathPermissionCheck{dir: dir, files: files}
}

// Name returns the unique identifier for this check.
func (c *PathPermissionCheck) Name() string {
	return "path-permissions"
}

// Category returns the grouping for this check.
func (c *PathPermissionCheck) Category() string {
	return "filesystem"
}

// pathIssue represents a single path or permission problem.
type pathIssue struct {
	Path        string
	Type        string // "file" or "directory"
	Problem     string
	Severity    Severity
	Permissions string
	Fixable     bool
	FixHint     string
}

// Run executes the path and permission diagnostic check.
func (c *PathPermissionCheck) Run(context.Context) *CheckResult {
	issues := c.checkDirectory(c.dir)
	checked := 1
	for _, f := range c.files {
		issues = append(issues, c.checkFile(f)...)
		checked++
	}
	c.setIssues(issues)
	return c.buildResult(issues, checked)
}

func (c *PathPermissionCheck) checkFile(path string) []pathIssue {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return []pathIssue{{Path: path, Type: "file", Problem: fmt.Sprintf("cannot stat file: %v", err), Severity: SeverityError}}
	}

	f, err := os.Open(path)
	if err != nil {
		return []pathIssue{{
			Path:        path,
			Type:        "file",
			Problem:     "file is not readable",
			Severity:    SeverityError,
			Permissions: formatPermissions(info.Mode()),
			FixHint:     "chmod 644 " + path,
		}}
	}
	f.Close()

	if runtime.GOOS == "windows" {
		return nil
	}
	var issues []pathIssue
	perm := info.Mode().Perm()
	if perm&0002 != 0 {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        "file",
			Problem:     "file is world-writable (security risk)",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 644 " + path,
		})
	} else if perm > maxSecureFilePerm {
		issues = append(issues, pathIssue{
			Path:        path,
			Type:        "file",
			Problem:     fmt.Sprintf("file has overly permissive permissions (mode %s, expected %s or less)", formatPermissions(info.Mode()), formatPermissions(maxSecureFilePerm)),
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 644 " + path,
		})
	}
	return issues
}

func (c *PathPermissionCheck) checkDirectory(path string) []pathIssue {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return []pathIssue{{Path: path, Type: "directory", Problem: fmt.Sprintf("cannot stat directory: %v", err), Severity: SeverityError}}
	}
	if !info.IsDir() {
		return []pathIssue{{Path: path, Type: "directory", Problem: "path exists but is not a directory", Severity: SeverityError}}
	}
	if ok, _ := isDirectoryWritable(path); !ok {
		return []pathIssue{{
			Path:        path,
			Type:        "directory",
			Problem:     "directory is not writable",
			Severity:    SeverityError,
			Permissions: formatPermissions(info.Mode()),
			FixHint:     "chmod 755 " + path,
		}}
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0002 != 0 {
		return []pathIssue{{
			Path:        path,
			Type:        "directory",
			Problem:     "directory is world-writable (security risk)",
			Severity:    SeverityWarning,
			Permissions: formatPermissions(info.Mode()),
			Fixable:     true,
			FixHint:     "chmod 755 " + path,
		}}
	}
	return nil
}

// isDirectoryWritable tests if a directory is writable by creating a temp file.
func isDirectoryWritable(path string) (bool, error) {
	tmpFile, err := os.CreateTemp(path, ".rulink-doctor-test-*")
	if err != nil {
		return false, err
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	os.Remove(tmpPath)
	return true, nil
}

func (c *PathPermissionCheck) buildResult(issues []pathIssue, checked int) *CheckResult {
	result := newResult(c)
	result.Details["checked"] = checked

	if len(issues) == 0 {
		result.Message = fmt.Sprintf("%d path(s) checked", checked)
		return result
	}

	worst := SeverityPass
	details := make([]map[string]any, 0, len(issues))
	for _, issue := range issues {
		if issue.Severity > worst {
			worst = issue.Severity
		}
		if issue.Fixable {
			result.Fixable = true
		}
		d := map[string]any{"path": issue.Path, "type": issue.Type, "problem": issue.Problem}
		if issue.Permissions != "" {
			d["permissions"] = issue.Permissions
		}
		details = append(details, d)
	}
	result.Status = worst
	result.Details["issues"] = details
	result.Message = fmt.Sprintf("%d issue(s) found", len(issues))
	result.FixHint = issues[0].FixHint
	if result.Fixable {
		result.FixHint = "run: rulink doctor --fix"
	}
	return result
}

// formatPermissions returns a human-readable permission string (e.g., "0644").
func formatPermissions(mode os.FileMode) string {
	return fmt.Sprintf("%04o", mode.Perm())
}

// ConfigSyntaxCheck parses config.json and settings.yaml.
type ConfigSyntaxCheck struct {
	files []string
}

var _ Check = (*ConfigSyntaxCheck)(nil)

// NewConfigSyntaxCheck checks files, dispatching on extension.
func NewConfigSyntaxCheck(files ...string) *ConfigSyntaxCheck {
	return &ConfigSyntaxCheck{files: files}
}

// Name returns the unique identifier for this check.
func (c *ConfigSyntaxCheck) Name() string {
	return "config-syntax"
}

// Category returns the grouping for this check.
func (c *ConfigSyntaxCheck) Category() string {
	return "config"
}

type syntaxFileResult struct {
	Path    string `json:"path" yaml:"path"`
	Status  string `json:"status" yaml:"status"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Run validates each file.
func (c *ConfigSyntaxCheck) Run(context.Context) *CheckResult {
	result := newResult(c)

	var fileResults []syntaxFileResult
	var errorCount, passCount int
	for _, path := range c.files {
		fr := validateFile(path)
		fileResults = append(fileResults, fr)
		switch fr.Status {
		case "pass":
			passCount++
		case "error":
			errorCount++
		}
	}
	result.Details["files"] = fileResults

	switch {
	case errorCount > 0:
		// A corrupt config.json is reset to defaults on the next command,
		// dropping every source.
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d config file(s) have syntax errors", errorCount)
		result.FixHint = "fix the syntax, or delete the file to start over"
	case passCount > 0:
		result.Message = fmt.Sprintf("%d config file(s) validated successfully", passCount)
	default:
		result.Status = SeverityInfo
		result.Message = "no config files found to validate"
	}
	return result
}

func validateFile(path string) syntaxFileResult {
	fr := syntaxFileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fr.Status = "info"
			fr.Message = "file does not exist"
			return fr
		}
		fr.Status = "error"
		fr.Message = fmt.Sprintf("read error: %v", err)
		return fr
	}
	if len(data) == 0 {
		fr.Status = "pass"
		fr.Message = "empty file"
		return fr
	}

	var v any
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &v)
		if err != nil {
			fr.Status = "error"
			fr.Message = fmt.Sprintf("YAML error: %v", err)
			return fr
		}
	default:
		if err = json.Unmarshal(data, &v); err != nil {
			fr.Status = "error"
			fr.Message = formatJSONError(err, data)
			return fr
		}
	}
	fr.Status = "pass"
	return fr
}

// formatJSONError extracts position information from JSON syntax errors.
func formatJSONError(err error, data []byte) string {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		line, col := offsetToLineCol(data, int(syntaxErr.Offset))
		return fmt.Sprintf("JSON syntax error at line %d, column %d: %s", line, col, syntaxErr.Error())
	}
	return fmt.Sprintf("JSON error: %v", err)
}

// offsetToLineCol converts a byte offset to 1-indexed line and column.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = max(0, min(offset, len(data)))
	line = 1
	lineStart := 0
	for i := range offset {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	return line, offset - lineStart + 1
}
