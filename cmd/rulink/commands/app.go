package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/necolo/rulink/internal/config"
	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/git"
	"github.com/necolo/rulink/internal/github"
	"github.com/necolo/rulink/internal/logging"
	"github.com/necolo/rulink/internal/npm"
	"github.com/necolo/rulink/internal/paths"
	"github.com/necolo/rulink/internal/source"
)

// app holds the collaborators shared by commands.
type app struct {
	settings *config.Settings
	store    *config.Store
	git      *git.Client
	npm      *npm.Installer
	registry *npm.Registry
	github   *github.Client
	manager  *source.Manager
}

// newApp wires the source manager from settings.
func newApp(ctx context.Context) (*app, error) {
	if settingsErr != nil {
		return nil, errors.NewConfigError(settingsErr)
	}
	s := settings
	if s == nil {
		config.Init()
		var err error
		if s, err = config.LoadSettings(""); err != nil {
			return nil, errors.NewConfigError(err)
		}
	}

	logger := logging.FromContext(ctx)
	a := &app{
		settings: s,
		store:    config.DefaultStore(config.WithLogger(logger)),
		git:      git.New(s.GitBinary),
		npm:      npm.NewInstaller(s.NPMBinary),
		registry: npm.NewRegistry(s.RegistryURL, nil),
	}
	creds := github.DiscoverCredentials(ctx, s.GitHubToken, a.git)
	logger.Debug("github credentials", "source", creds.Source())
	a.github = github.NewClient(s.GitHubAPIURL, s.GitHubRawURL, github.WithCredentials(creds))

	a.manager = source.NewManager(a.store, source.Deps{
		Content:   a.github,
		Cloner:    a.git,
		Lookup:    a.registry,
		Installer: a.npm,
	})
	return a, nil
}

// rulesLocation resolves the rules directory for the working directory.
func rulesLocation() (paths.RulesLocation, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return paths.RulesLocation{}, errors.Mark(errors.Wrap(err, "getting working directory"), errors.ErrIO)
	}
	return paths.RulesDir(cwd), nil
}

// printBanner announces which source a command reads from.
func printBanner(w io.Writer, verb string, d *config.SourceDescriptor, dest string) {
	fmt.Fprintf(w, "%s rules from %s (%s: %s) → %s\n",
		verb, color.CyanString(d.Name), d.Kind.Label(), d.Location(), dest)
}

// validationFailure turns a failed validation into an exit error, printing
// the suggestions first.
func validationFailure(w io.Writer, err error) error {
	var ve *source.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", color.RedString("✗"), ve.Message)
	if len(ve.Suggestions) > 0 {
		fmt.Fprintln(w, "\nSuggestions:")
		for _, s := range ve.Suggestions {
			fmt.Fprintf(w, "  • %s\n", s)
		}
	}
	return errors.NewUserError(errors.New("source validation failed"), "")
}
