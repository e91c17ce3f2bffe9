package config

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/paths"
	"github.com/necolo/rulink/pkg/fileutil"
)

// Store reads and writes config.json. It holds no state between calls.
type Store struct {
	path   string
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used for self-healing notices.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = l
	}
}

// NewStore returns a Store backed by the file at path.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		path:   path,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultStore returns a Store at the default config location.
func DefaultStore(opts ...StoreOption) *Store {
	return NewStore(paths.ConfigFile(), opts...)
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the configuration. A missing or corrupt file is replaced by the
// default configuration, which is written back and returned.
func (s *Store) Load() (*GlobalConfig, error) {
	data, err := fileutil.ReadFileWithLimit(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("config unreadable, resetting", "path", s.path, "error", err)
		}
		return s.reset()
	}

	cfg := &GlobalConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		s.logger.Warn("config corrupt, resetting", "path", s.path, "error", err)
		return s.reset()
	}

	if cfg.normalize() {
		s.logger.Debug("config normalized", "path", s.path)
		if err := s.Save(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func (s *Store) reset() (*GlobalConfig, error) {
	cfg := Default()
	if err := s.Save(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg atomically, creating the config directory if needed.
func (s *Store) Save(cfg *GlobalConfig) error {
	if err := paths.EnsureDir(filepath.Dir(s.path), 0); err != nil {
		return errors.Mark(errors.Wrap(err, "creating config directory"), errors.ErrIO)
	}
	if err := fileutil.AtomicWriteJSON(s.path, cfg, 0o644); err != nil {
		return errors.Mark(errors.Wrapf(err, "saving %s", s.path), errors.ErrIO)
	}
	return nil
}

// update runs fn against a freshly loaded config and saves the result when fn
// succeeds.
func (s *Store) update(fn func(*GlobalConfig) error) error {
	cfg, err := s.Load()
	if err != nil {
		return err
	}
	if err := fn(cfg); err != nil {
		return err
	}
	return s.Save(cfg)
}

// AddSource registers d. The first source added becomes active.
func (s *Store) AddSource(d SourceDescriptor) error {
	if err := ValidateDescriptor(d); err != nil {
		return err
	}
	return s.update(func(cfg *GlobalConfig) error {
		if _, exists := cfg.Sources[d.Name]; exists {
			return errors.Wrapf(errors.ErrSourceExists, "source %q", d.Name)
		}
		cfg.Sources[d.Name] = &d
		if cfg.ActiveSource == "" {
			cfg.ActiveSource = d.Name
		}
		return nil
	})
}

// RemoveSource deletes name. When name was active, the lexically first
// remaining source becomes active, or none if the registry is now empty.
func (s *Store) RemoveSource(name string) error {
	return s.update(func(cfg *GlobalConfig) error {
		if _, ok := cfg.Sources[name]; !ok {
			return errors.Wrapf(errors.ErrNotFound, "source %q", name)
		}
		delete(cfg.Sources, name)
		if cfg.ActiveSource == name {
			cfg.ActiveSource = cfg.firstName()
		}
		return nil
	})
}

// RenameSource changes a source's name, carrying the active pointer along.
// Renaming a source to its own name changes nothing.
func (s *Store) RenameSource(oldName, newName string) error {
	if err := ValidateName(newName); err != nil {
		return err
	}
	return s.update(func(cfg *GlobalConfig) error {
		d, ok := cfg.Sources[oldName]
		if !ok {
			return errors.Wrapf(errors.ErrNotFound, "source %q", oldName)
		}
		if oldName == newName {
			return nil
		}
		if _, exists := cfg.Sources[newName]; exists {
			return errors.Wrapf(errors.ErrSourceExists, "source %q", newName)
		}
		renamed := *d
		renamed.Name = newName
		cfg.Sources[newName] = &renamed
		delete(cfg.Sources, oldName)
		if cfg.ActiveSource == oldName {
			cfg.ActiveSource = newName
		}
		return nil
	})
}

// SetActive marks name as the active source.
func (s *Store) SetActive(name string) error {
	return s.update(func(cfg *GlobalConfig) error {
		if _, ok := cfg.Sources[name]; !ok {
			return errors.Wrapf(errors.ErrNotFound, "source %q", name)
		}
		cfg.ActiveSource = name
		return nil
	})
}

// Get returns the named source.
func (s *Store) Get(name string) (*SourceDescriptor, error) {
	cfg, err := s.Load()
	if err != nil {
		return nil, err
	}
	d, ok := cfg.Sources[name]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "source %q", name)
	}
	return d, nil
}

// Active returns the active source, or ErrNoActiveSource.
func (s *Store) Active() (*SourceDescriptor, error) {
	cfg, err := s.Load()
	if err != nil {
		return nil, err
	}
	if cfg.ActiveSource == "" {
		return nil, errors.ErrNoActiveSource
	}
	return cfg.Sources[cfg.ActiveSource], nil
}

// List returns every source ordered by name.
func (s *Store) List() ([]*SourceDescriptor, error) {
	cfg, err := s.Load()
	if err != nil {
		return nil, err
	}
	out := make([]*SourceDescriptor, 0, len(cfg.Sources))
	for _, name := range cfg.Names() {
		out = append(out, cfg.Sources[name])
	}
	return out, nil
}

// UniqueName returns base, or base-1, base-2, ... whichever is free first.
func (c *GlobalConfig) UniqueName(base string) string {
	name := base
	for i := 1; ; i++ {
		if _, taken := c.Sources[name]; !taken {
			return name
		}
		name = base + "-" + strconv.Itoa(i)
	}
}
