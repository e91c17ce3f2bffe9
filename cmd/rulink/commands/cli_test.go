package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/paths"
)

// resetFlags restores every package-level flag variable between runs.
func resetFlags() {
	verbosity, quiet, logFormat, logFile = 0, false, "", ""
	sourceOutput, listOutput = "text", "text"
	addName, addType, addSkipValidation = "", "", false
	installTo, installSource, installDryRun, installInteractive = "", "", false, false
	updateSource, listSource = "", ""
	doctorJSON, doctorQuiet, doctorVerbose, doctorFix = false, false, false, false
}

// env is an isolated config dir, a project and a local rule source.
type env struct {
	project string
	rules   string
	src     string
}

func newEnv(t *testing.T) env {
	t.Helper()
	t.Setenv(paths.EnvConfigDir, t.TempDir())
	t.Setenv("RULINK_GITHUB_TOKEN", "test-token")
	t.Setenv("NO_COLOR", "1")

	project := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(project, ".git"), 0o755))
	t.Chdir(project)

	src := t.TempDir()
	files := map[string]string{
		"general.mdc":      "---\ndescription: General guidance\n---\nbe nice\n",
		"typescript/a.mdc": "rule a\n",
		"typescript/b.mdc": "rule b\n",
		"react/b.mdc":      "react b\n",
	}
	for name, body := range files {
		p := filepath.Join(src, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}

	t.Cleanup(resetFlags)
	return env{project: project, rules: filepath.Join(project, ".cursor", "rules"), src: src}
}

// run executes the CLI with args and optional stdin, returning stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestSourceLifecycle(t *testing.T) {
	e := newEnv(t)

	out, err := run(t, "", "source")
	require.NoError(t, err)
	assert.Contains(t, out, "No sources configured.")

	out, err = run(t, "", "source", "add", e.src, "--name", "team")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Local source team")
	assert.Contains(t, out, "Set as active source")

	out, err = run(t, "", "source", "add", e.src)
	require.NoError(t, err)
	assert.NotContains(t, out, "Set as active source")

	out, err = run(t, "", "source", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Configured Sources:")
	assert.Contains(t, out, "● team (active)")
	assert.Contains(t, out, "Path: "+e.src)

	_, err = run(t, "", "source", "add", e.src, "--name", "team")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSourceExists))

	_, err = run(t, "", "source", "rename", "team", "shared")
	require.NoError(t, err)

	out, err = run(t, "", "source", "list", "--output", "json")
	require.NoError(t, err)
	var listing struct {
		ActiveSource string `json:"activeSource"`
		Sources      []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"sources"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &listing))
	assert.Equal(t, "shared", listing.ActiveSource)
	require.Len(t, listing.Sources, 2)
	assert.Equal(t, "local", listing.Sources[0].Type)

	_, err = run(t, "", "source", "remove", "shared")
	require.NoError(t, err)

	_, err = run(t, "", "source", "remove", "shared")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestSourceAddInvalid(t *testing.T) {
	e := newEnv(t)
	empty := t.TempDir()

	out, err := run(t, "", "source", "add", empty)
	require.Error(t, err)
	assert.Contains(t, out, "✗")

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, errors.ExitUser, exitErr.Code)

	_, err = run(t, "", "source", "add", e.src, "--type", "ftp")
	require.Error(t, err)
}

func TestInstallUpdateRemove(t *testing.T) {
	e := newEnv(t)

	_, err := run(t, "", "install", "general.mdc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNoActiveSource))

	_, err = run(t, "", "source", "add", e.src, "--name", "team")
	require.NoError(t, err)

	out, err := run(t, "", "install", "typescript", "general.mdc")
	require.NoError(t, err)
	assert.Contains(t, out, "Installing rules from team")
	assert.Contains(t, out, "Successfully installed 3 rule(s)")

	data, err := os.ReadFile(filepath.Join(e.rules, "a.mdc"))
	require.NoError(t, err)
	assert.Equal(t, "rule a\n", string(data))
	assert.FileExists(t, filepath.Join(e.rules, "b.mdc"))
	assert.FileExists(t, filepath.Join(e.rules, "general.mdc"))

	// b.mdc exists in react and typescript; "2" picks typescript.
	out, err = run(t, "2\n", "update")
	require.NoError(t, err)
	assert.Contains(t, out, "Multiple rules found for b.mdc:")
	assert.Contains(t, out, "Summary: 3 updated")
	data, err = os.ReadFile(filepath.Join(e.rules, "b.mdc"))
	require.NoError(t, err)
	assert.Equal(t, "rule b\n", string(data))

	out, err = run(t, "", "update")
	require.NoError(t, err)
	assert.Contains(t, out, "Summary: 2 updated, 1 skipped")

	out, err = run(t, "", "remove", "typescript/a", "missing.mdc")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 rule(s), 1 not found")
	assert.NoFileExists(t, filepath.Join(e.rules, "a.mdc"))
}

func TestInstallPartialFailure(t *testing.T) {
	e := newEnv(t)
	_, err := run(t, "", "source", "add", e.src)
	require.NoError(t, err)

	out, err := run(t, "", "install", "general.mdc", "nope/missing.mdc", "a/b/c.mdc")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully installed 1 rule(s)")
	assert.Contains(t, out, "2 item(s) failed")

	_, err = run(t, "", "install", "nonexistent")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rules found in category 'nonexistent'")
}

func TestInstallDryRunAndTarget(t *testing.T) {
	e := newEnv(t)
	_, err := run(t, "", "source", "add", e.src)
	require.NoError(t, err)

	out, err := run(t, "", "install", "--dry-run", "typescript")
	require.NoError(t, err)
	assert.Contains(t, out, "Would install 2 rule(s)")
	assert.NoDirExists(t, e.rules)

	custom := filepath.Join(t.TempDir(), "custom")
	_, err = run(t, "", "install", "--to", custom, "general.mdc")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(custom, "general.mdc"))
}

func TestListAndStatus(t *testing.T) {
	e := newEnv(t)
	_, err := run(t, "", "source", "add", e.src, "--name", "team")
	require.NoError(t, err)

	out, err := run(t, "", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "general.mdc - General guidance")
	assert.Contains(t, out, "typescript/a.mdc")
	assert.Contains(t, out, "4 rule(s)")

	out, err = run(t, "", "list", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "source: team")

	_, err = run(t, "", "list", "-o", "xml")
	require.Error(t, err)

	out, err = run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "No rules directory found in this project.")

	_, err = run(t, "", "install", "general.mdc")
	require.NoError(t, err)

	out, err = run(t, "", "status")
	require.NoError(t, err)
	// .cursor/rules now exists in the working directory itself.
	assert.Contains(t, out, "Cursor Rules Status for: ")
	assert.Contains(t, out, "(local rules)")
	assert.Contains(t, out, "  ✓ general")
	assert.Contains(t, out, "Available but not installed:")
	assert.Contains(t, out, "  - a")
	assert.NotContains(t, out, "  - general")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rulink version ")
	assert.Contains(t, out, "commit:")
}
