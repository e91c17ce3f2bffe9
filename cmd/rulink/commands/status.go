package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/necolo/rulink/internal/config"
	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/install"
	"github.com/necolo/rulink/internal/logging"
	"github.com/necolo/rulink/internal/npm"
	"github.com/necolo/rulink/internal/paths"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show installed and available rules",
	Long: `Show the rules installed in the current project and the rules of the
active source that are not installed yet.

For npm sources, also reports when the registry has a newer version of
the package than the one the project depends on.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	loc, err := rulesLocation()
	if err != nil {
		return err
	}
	if info, err := os.Stat(loc.Path); err != nil || !info.IsDir() {
		fmt.Fprintln(w, color.YellowString("No rules directory found in this project."))
		return nil
	}
	installed, err := install.Installed(loc.Path)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, color.BlueString("Cursor Rules Status for: %s (%s rules)", loc.ProjectRoot, loc.Scope))
	fmt.Fprintln(w)
	if len(installed) == 0 {
		fmt.Fprintln(w, color.YellowString("No rules installed."))
		return nil
	}

	have := make(map[string]bool, len(installed))
	fmt.Fprintln(w, color.GreenString("Installed rules:"))
	for _, f := range installed {
		name := strings.TrimSuffix(f, paths.RuleExt)
		have[name] = true
		fmt.Fprintf(w, "  ✓ %s\n", name)
	}
	fmt.Fprintln(w)

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	d, err := a.manager.ActiveSource()
	if err != nil {
		if errors.Is(err, errors.ErrNoActiveSource) {
			fmt.Fprintln(w, color.YellowString("No active source; add one to compare with available rules."))
			return nil
		}
		return err
	}
	rules, err := a.manager.ListRules(ctx, d.Name)
	if err != nil {
		fmt.Fprintf(w, "%s could not list rules of %s: %v\n", color.YellowString("⚠"), d.Name, err)
		return nil
	}

	var missing []string
	seen := map[string]bool{}
	for _, r := range rules {
		if have[r.Name] || seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		missing = append(missing, r.Name)
	}
	if len(missing) > 0 {
		fmt.Fprintln(w, color.New(color.Faint).Sprint("Available but not installed:"))
		for _, name := range missing {
			fmt.Fprintln(w, color.New(color.Faint).Sprintf("  - %s", name))
		}
	}

	if d.Kind == config.KindRegistry {
		checkPackageUpdate(ctx, w, a, d, loc.ProjectRoot)
	}
	return nil
}

// checkPackageUpdate compares the project's dependency on the source
// package with the registry. A package the project does not depend on is
// not an error; a failed lookup is reported as a warning.
func checkPackageUpdate(ctx context.Context, w io.Writer, a *app, d *config.SourceDescriptor, projectRoot string) {
	logger := logging.FromContext(ctx)
	current, err := a.npm.CurrentVersion(ctx, d.Package, projectRoot)
	if errors.Is(err, npm.ErrNotInstalled) {
		logger.Debug("source package is not a project dependency", "package", d.Package)
		return
	}
	if err != nil {
		fmt.Fprintf(w, "\n%s could not read installed version of %s: %v\n", color.YellowString("⚠"), d.Package, err)
		return
	}
	latest, err := a.registry.LatestVersion(ctx, d.Package)
	if err != nil {
		fmt.Fprintf(w, "\n%s could not check %s for updates: %v\n", color.YellowString("⚠"), d.Package, err)
		return
	}
	if npm.IsNewer(current, latest) {
		fmt.Fprintf(w, "\n%s %s %s → %s\n", color.CyanString("Update available:"), npm.PackageName(d.Package), current, latest)
		fmt.Fprintf(w, "  Run: npm install %s@latest\n", npm.PackageName(d.Package))
		return
	}
	fmt.Fprintf(w, "\n%s is up to date (%s)\n", npm.PackageName(d.Package), current)
}
