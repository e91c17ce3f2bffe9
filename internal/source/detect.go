package source

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/necolo/rulink/internal/config"
	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/git"
	"github.com/necolo/rulink/internal/github"
	"github.com/necolo/rulink/internal/npm"
	"github.com/necolo/rulink/internal/paths"
)

var drivePath = regexp.MustCompile(`^[A-Za-z]:[\\/]`)

// Detect guesses the kind of source an add input refers to.
func Detect(input string) config.SourceKind {
	switch {
	case isPathLike(input):
		return config.KindLocal
	case github.LooksLikeRef(input), git.IsURL(input):
		return config.KindRepo
	}
	return config.KindRegistry
}

func isPathLike(input string) bool {
	for _, prefix := range []string{"./", "../", "/", "~/"} {
		if strings.HasPrefix(input, prefix) {
			return true
		}
	}
	return input == "." || input == ".." || input == "~" || drivePath.MatchString(input)
}

// Describe builds a nameless descriptor of the given kind for input. Local
// paths become absolute and repository references canonical URLs.
func Describe(kind config.SourceKind, input string) (config.SourceDescriptor, error) {
	d := config.SourceDescriptor{Kind: kind}
	switch kind {
	case config.KindLocal:
		abs, err := paths.Absolute(input)
		if err != nil {
			return d, errors.Wrapf(err, "resolving %s", input)
		}
		d.Path = abs
	case config.KindRepo:
		ref, err := github.ParseRef(input)
		if err != nil {
			return d, errors.Mark(err, errors.ErrPathFormat)
		}
		d.URL = ref.WebURL()
	case config.KindRegistry:
		if strings.TrimSpace(input) == "" {
			return d, errors.Wrap(errors.ErrPathFormat, "package name cannot be empty")
		}
		d.Package = input
	default:
		return d, errors.Newf("unknown source type %q", kind)
	}
	return d, nil
}

// DefaultName derives a source name from a descriptor.
func DefaultName(d config.SourceDescriptor) string {
	switch d.Kind {
	case config.KindLocal:
		return filepath.Base(d.Path)
	case config.KindRepo:
		if ref, err := github.ParseRef(d.URL); err == nil {
			return ref.Repo
		}
		return ""
	case config.KindRegistry:
		return npm.ShortName(d.Package)
	}
	return ""
}
