package npm

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/logging"
)

// ErrNotInstalled means the package is not a dependency of the inspected
// project. It is distinct from failures to run npm.
var ErrNotInstalled = errors.New("package not installed")

// Installer drives the npm CLI.
type Installer struct {
	binary string
}

// NewInstaller returns an Installer invoking binary, or "npm" when empty.
func NewInstaller(binary string) *Installer {
	if binary == "" {
		binary = "npm"
	}
	return &Installer{binary: binary}
}

// Binary returns the executable name.
func (i *Installer) Binary() string {
	return i.binary
}

// Available reports whether the binary is on PATH.
func (i *Installer) Available() bool {
	_, err := exec.LookPath(i.binary)
	return err == nil
}

// Version returns the output of "npm --version".
func (i *Installer) Version(ctx context.Context) (string, error) {
	out, err := i.run(ctx, "", "--version")
	return strings.TrimSpace(out), err
}

// Install initializes an empty manifest in workspace, installs pkg there
// without saving it and returns the package's directory.
func (i *Installer) Install(ctx context.Context, pkg, workspace string) (string, error) {
	if err := validateSpec(pkg); err != nil {
		return "", err
	}
	logging.FromContext(ctx).Debug("npm install", "package", pkg, "workspace", workspace)

	if _, err := i.run(ctx, workspace, "init", "-y"); err != nil {
		return "", errors.Wrap(err, "initializing workspace")
	}
	if _, err := i.run(ctx, workspace, "install", pkg, "--no-save", "--no-audit", "--no-fund"); err != nil {
		return "", errors.Wrapf(err, "installing %s", pkg)
	}
	return PackageDir(workspace, pkg), nil
}

// PackageDir is where pkg lands inside workspace.
func PackageDir(workspace, pkg string) string {
	return filepath.Join(workspace, "node_modules", filepath.FromSlash(PackageName(pkg)))
}

type listOutput struct {
	Dependencies map[string]struct {
		Version string `json:"version"`
	} `json:"dependencies"`
}

// CurrentVersion returns the version of pkg installed in the project at dir.
// A package that is not a dependency yields ErrNotInstalled; failures to run
// npm or parse its output are returned as they are.
func (i *Installer) CurrentVersion(ctx context.Context, pkg, dir string) (string, error) {
	name := PackageName(pkg)
	out, runErr := i.run(ctx, dir, "list", name, "--json", "--depth=0")

	// npm list exits 1 when the package is missing but still prints JSON.
	var parsed listOutput
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		if runErr != nil {
			return "", runErr
		}
		return "", errors.Wrap(err, "parsing npm list output")
	}
	dep, ok := parsed.Dependencies[name]
	if !ok || dep.Version == "" {
		return "", errors.Wrapf(ErrNotInstalled, "%s", name)
	}
	return dep.Version, nil
}

func validateSpec(pkg string) error {
	if pkg == "" || strings.HasPrefix(pkg, "-") || strings.ContainsAny(pkg, " \t\n") {
		return errors.Newf("invalid package name %q", pkg)
	}
	return nil
}

func (i *Installer) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, i.binary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		wrapped := errors.Mark(errors.Wrapf(err, "%s %s", i.binary, args[0]), errors.ErrSubprocess)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			wrapped = errors.WithDetail(wrapped, msg)
		}
		return stdout.String(), wrapped
	}
	return stdout.String(), nil
}
