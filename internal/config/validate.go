package config

import (
	"strings"
	"unicode"

	"github.com/necolo/rulink/internal/errors"
)

// ValidateName checks that a source name is usable as a map key and a CLI
// argument.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.Wrap(errors.ErrInvalidName, "source name cannot be empty")
	}
	if strings.TrimSpace(name) != name {
		return errors.Wrapf(errors.ErrInvalidName, "source name %q has surrounding whitespace", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return errors.Wrapf(errors.ErrInvalidName, "source name %q contains control characters", name)
		}
	}
	return nil
}

// ValidateDescriptor checks the name and that the location field matching
// the kind is set.
func ValidateDescriptor(d SourceDescriptor) error {
	if err := ValidateName(d.Name); err != nil {
		return err
	}
	if _, ok := ParseKind(string(d.Kind)); !ok {
		return errors.Newf("unknown source type %q", d.Kind)
	}
	if d.Location() == "" {
		return errors.Newf("%s source %q has no location", d.Kind, d.Name)
	}
	return nil
}
