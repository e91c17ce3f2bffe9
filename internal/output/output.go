// Package output encodes command results in machine-readable formats.
package output

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/necolo/rulink/internal/errors"
)

// Format selects an encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the accepted --output values.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatTOML)}
}

// ParseFormat accepts a format name case-insensitively. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.Newf("unknown output format %q (valid: %s)", s, strings.Join(Formats(), ", "))
}

// Structured reports whether f is encoded rather than printed for humans.
func (f Format) Structured() bool {
	return f != FormatText && f != ""
}

// Encode writes v to w. TOML needs v to be a struct or map at the top.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encoding JSON")
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "encoding YAML")
	case FormatTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(v), "encoding TOML")
	}
	return errors.Newf("format %q is not a structured format", f)
}
