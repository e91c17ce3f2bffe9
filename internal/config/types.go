package config

import (
	"sort"
)

// CurrentVersion is written into new config files.
const CurrentVersion = "1.0"

// SourceKind identifies where a source's rules come from.
type SourceKind string

const (
	KindLocal    SourceKind = "local"
	KindRepo     SourceKind = "repo"
	KindRegistry SourceKind = "registry"
)

// Kinds lists the valid kinds in display order.
func Kinds() []SourceKind {
	return []SourceKind{KindLocal, KindRepo, KindRegistry}
}

// ParseKind accepts a kind name, including the legacy "github" and "npm"
// spellings. The second result is false for unknown names.
func ParseKind(s string) (SourceKind, bool) {
	switch s {
	case string(KindLocal):
		return KindLocal, true
	case string(KindRepo), "github":
		return KindRepo, true
	case string(KindRegistry), "npm":
		return KindRegistry, true
	}
	return "", false
}

// Label is the human readable kind used in banners.
func (k SourceKind) Label() string {
	switch k {
	case KindLocal:
		return "Local"
	case KindRepo:
		return "Repository"
	case KindRegistry:
		return "Registry"
	}
	return string(k)
}

// SourceDescriptor is one configured source. Exactly one of Path, URL and
// Package is set, matching Kind.
type SourceDescriptor struct {
	Kind    SourceKind `json:"type" yaml:"type" toml:"type"`
	Name    string     `json:"name" yaml:"name" toml:"name"`
	Path    string     `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
	URL     string     `json:"url,omitempty" yaml:"url,omitempty" toml:"url,omitempty"`
	Package string     `json:"package,omitempty" yaml:"package,omitempty" toml:"package,omitempty"`
}

// Location returns the kind-specific address of the source.
func (d SourceDescriptor) Location() string {
	switch d.Kind {
	case KindLocal:
		return d.Path
	case KindRepo:
		return d.URL
	case KindRegistry:
		return d.Package
	}
	return ""
}

// GlobalConfig is the on-disk shape of config.json.
type GlobalConfig struct {
	// Version is the config format version.
	Version string `json:"version"`

	// Sources are keyed by name; each descriptor repeats its key.
	Sources map[string]*SourceDescriptor `json:"sources"`

	// ActiveSource names the default source, or is empty when none is set.
	ActiveSource string `json:"activeSource,omitempty"`
}

// Default returns an empty configuration.
func Default() *GlobalConfig {
	return &GlobalConfig{
		Version: CurrentVersion,
		Sources: map[string]*SourceDescriptor{},
	}
}

// Names returns the source names in lexical order.
func (c *GlobalConfig) Names() []string {
	names := make([]string, 0, len(c.Sources))
	for name := range c.Sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// normalize fills defaults, rewrites legacy kinds and repairs the active pointer.
// It reports whether anything changed.
func (c *GlobalConfig) normalize() bool {
	changed := false
	if c.Version == "" {
		c.Version = CurrentVersion
		changed = true
	}
	if c.Sources == nil {
		c.Sources = map[string]*SourceDescriptor{}
		changed = true
	}
	for key, d := range c.Sources {
		if d == nil {
			delete(c.Sources, key)
			changed = true
			continue
		}
		if kind, ok := ParseKind(string(d.Kind)); ok && kind != d.Kind {
			d.Kind = kind
			changed = true
		}
		if d.Name != key {
			d.Name = key
			changed = true
		}
	}
	if c.ActiveSource != "" {
		if _, ok := c.Sources[c.ActiveSource]; !ok {
			c.ActiveSource = c.firstName()
			changed = true
		}
	}
	return changed
}

func (c *GlobalConfig) firstName() string {
	if names := c.Names(); len(names) > 0 {
		return names[0]
	}
	return ""
}
