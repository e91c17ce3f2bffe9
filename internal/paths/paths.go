package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/necolo/rulink/internal/errors"
)

// EnvConfigDir overrides the configuration directory.
const EnvConfigDir = "RULINK_CONFIG_DIR"

// AppName is the directory name used under XDG config home.
const AppName = "rulink"

// RulesSubdir is the project-relative install location.
var RulesSubdir = filepath.Join(".cursor", "rules")

// RuleExt is the suffix every rule file carries.
const RuleExt = ".mdc"

// projectMarkers identify a project root, checked in order.
var projectMarkers = []string{".git", "package.json", "go.mod"}

// ErrHomeDirNotFound indicates the user's home directory could not be determined.
var ErrHomeDirNotFound = errors.New("home directory not found")

// DefaultDirPerm is the permission for directories rulink creates.
const DefaultDirPerm = 0o755

// EnsureDir creates path and its parents. A zero perm means DefaultDirPerm.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigDir returns the directory holding config.json and settings.yaml.
func ConfigDir() string {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ConfigFile returns the path of the source registry file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// SettingsFile returns the path of the optional settings file.
func SettingsFile() string {
	return filepath.Join(ConfigDir(), "settings.yaml")
}

// ExpandHome replaces a leading "~" with the home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path, nil
	}
	home, err := ResolveHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[1:]), nil
}

// Absolute expands "~" and makes path absolute and clean.
func Absolute(path string) (string, error) {
	expanded, err := ExpandHome(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", path)
	}
	return abs, nil
}

// FindProjectRoot walks up from start looking for a project marker. When none
// is found, start itself is returned.
func FindProjectRoot(start string) string {
	dir := filepath.Clean(start)
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Clean(start)
		}
		dir = parent
	}
}

// Rules directory scopes.
const (
	ScopeLocal   = "local"
	ScopeProject = "project"
)

// RulesLocation describes where rules are read from and written to.
type RulesLocation struct {
	Path        string
	Scope       string
	ProjectRoot string
}

// RulesDir returns the rules directory for work done in cwd: an existing
// cwd/.cursor/rules wins, otherwise the project root's.
func RulesDir(cwd string) RulesLocation {
	root := FindProjectRoot(cwd)
	local := filepath.Join(cwd, RulesSubdir)
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return RulesLocation{Path: local, Scope: ScopeLocal, ProjectRoot: root}
	}
	return RulesLocation{Path: filepath.Join(root, RulesSubdir), Scope: ScopeProject, ProjectRoot: root}
}
