package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/necolo/rulink/internal/doctor"
	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/output"
	"github.com/necolo/rulink/internal/paths"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
	doctorFix     bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	doctorCmd.Flags().BoolVar(&doctorFix, "fix", false,
		"repair config file permissions where possible")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Run diagnostic checks on the rulink configuration and environment.

Checks that the config files are readable and well formed, that the active
source validates, that git and npm are available, whether GitHub
credentials are configured, and where rules would be installed.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	Args:    cobra.NoArgs,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	for _, set := range []bool{doctorJSON, doctorQuiet, doctorVerbose} {
		if set {
			count++
		}
	}
	if count > 1 {
		return errors.NewUserError(errors.New("flags --json, --quiet, and --verbose are mutually exclusive"), "")
	}
	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return errors.Mark(errors.Wrap(err, "getting working directory"), errors.ErrIO)
	}

	runner := doctor.NewRunner(
		doctor.NewPathPermissionCheck(paths.ConfigDir(), paths.ConfigFile(), paths.SettingsFile()),
		doctor.NewConfigSyntaxCheck(paths.ConfigFile(), paths.SettingsFile()),
		doctor.NewActiveSourceCheck(a.manager),
		doctor.NewToolCheck("git", a.git, a.git.Version, "repository sources when the GitHub API is unavailable"),
		doctor.NewToolCheck("npm", a.npm, a.npm.Version, "npm package sources"),
		doctor.NewCredentialsCheck(a.github.Credentials().Token, a.github.Credentials().Source()),
		doctor.NewRulesDirCheck(cwd),
	)

	report := runner.Run(ctx)
	w := cmd.OutOrStdout()
	if doctorFix {
		if applyFixes(w, runner) {
			report = runner.Run(ctx)
		}
	}

	if err := outputDoctorReport(w, report); err != nil {
		return err
	}

	if report.HasErrors() {
		return errDoctorErrors
	}
	if report.HasWarnings() {
		return errDoctorWarnings
	}
	return nil
}

// applyFixes runs every fixer that has work and reports whether anything
// was attempted.
func applyFixes(w io.Writer, runner *doctor.Runner) bool {
	attempted := false
	for _, c := range runner.Checks() {
		fixer, ok := c.(doctor.Fixer)
		if !ok || !fixer.CanFix() {
			continue
		}
		attempted = true
		for _, res := range fixer.Fix() {
			if doctorQuiet || doctorJSON {
				continue
			}
			if res.Fixed {
				fmt.Fprintf(w, "%s fixed %s: %s\n", color.GreenString("✓"), res.Path, res.Description)
			} else {
				fmt.Fprintf(w, "%s could not fix %s: %v\n", color.RedString("✗"), res.Path, res.Error)
			}
		}
	}
	return attempted
}

func outputDoctorReport(w io.Writer, report *doctor.DoctorReport) error {
	if doctorQuiet {
		return nil
	}
	if doctorJSON {
		return output.Encode(w, output.FormatJSON, report)
	}
	outputDoctorText(w, report)
	return nil
}

func outputDoctorText(w io.Writer, report *doctor.DoctorReport) {
	// Normal mode shows only errors and warnings.
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		problem := result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning
		if !showAll && !problem {
			continue
		}

		hasOutput = true
		fmt.Fprintf(w, "%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)
		if result.FixHint != "" && problem {
			fmt.Fprintf(w, "  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return color.GreenString("✓")
	case doctor.SeverityInfo:
		return color.BlueString("ℹ")
	case doctor.SeverityWarning:
		return color.YellowString("⚠")
	case doctor.SeverityError:
		return color.RedString("✗")
	default:
		return "?"
	}
}

// errDoctorWarnings exits 1 without a message; the report says it all.
var errDoctorWarnings = errors.NewExitError(nil, errors.ExitUser)

// errDoctorErrors exits 2 without a message.
var errDoctorErrors = errors.NewExitError(nil, errors.ExitSystem)
