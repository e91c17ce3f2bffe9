package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/necolo/rulink/internal/errors"
)

func TestResolveHome(t *testing.T) {
	got, err := ResolveHome()
	want, _ := os.UserHomeDir()

	if err != nil {
		if !errors.Is(err, ErrHomeDirNotFound) {
			t.Errorf("unexpected error type: %v", err)
		}
	} else if got != want {
		t.Errorf("ResolveHome() = %q, want %q", got, want)
	}
}

func TestConfigDir(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv(EnvConfigDir, dir)

		if got := ConfigDir(); got != dir {
			t.Errorf("ConfigDir() = %q, want %q", got, dir)
		}
		if got := ConfigFile(); got != filepath.Join(dir, "config.json") {
			t.Errorf("ConfigFile() = %q", got)
		}
		if got := SettingsFile(); got != filepath.Join(dir, "settings.yaml") {
			t.Errorf("SettingsFile() = %q", got)
		}
	})

	t.Run("xdg default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")

		got := ConfigDir()
		if filepath.Base(got) != AppName {
			t.Errorf("ConfigDir() = %q, want suffix %q", got, AppName)
		}
		if !filepath.IsAbs(got) {
			t.Errorf("ConfigDir() = %q, want absolute path", got)
		}
	})
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/rules", filepath.Join(home, "rules")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"~user/rules", "~user/rules"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ExpandHome(tt.in)
			if err != nil {
				t.Fatalf("ExpandHome() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFindProjectRoot(t *testing.T) {
	tests := []struct {
		name   string
		marker string
		isDir  bool
	}{
		{"git directory", ".git", true},
		{"package.json", "package.json", false},
		{"go.mod", "go.mod", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.isDir {
				if err := os.Mkdir(filepath.Join(root, tt.marker), 0o755); err != nil {
					t.Fatal(err)
				}
			} else if err := os.WriteFile(filepath.Join(root, tt.marker), []byte("{}"), 0o644); err != nil {
				t.Fatal(err)
			}
			nested := filepath.Join(root, "src", "pkg")
			if err := os.MkdirAll(nested, 0o755); err != nil {
				t.Fatal(err)
			}

			if got := FindProjectRoot(nested); got != root {
				t.Errorf("FindProjectRoot() = %q, want %q", got, root)
			}
		})
	}
}

func TestRulesDir(t *testing.T) {
	t.Run("existing local rules dir wins", func(t *testing.T) {
		root := t.TempDir()
		if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
			t.Fatal(err)
		}
		sub := filepath.Join(root, "web")
		if err := os.MkdirAll(filepath.Join(sub, RulesSubdir), 0o755); err != nil {
			t.Fatal(err)
		}

		got := RulesDir(sub)
		if want := filepath.Join(sub, RulesSubdir); got.Path != want {
			t.Errorf("RulesDir().Path = %q, want %q", got.Path, want)
		}
		if got.Scope != ScopeLocal || got.ProjectRoot != root {
			t.Errorf("RulesDir() = %+v, want local scope under %q", got, root)
		}
	})

	t.Run("falls back to project root", func(t *testing.T) {
		root := t.TempDir()
		if err := os.WriteFile(filepath.Join(root, "package.json"), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
		sub := filepath.Join(root, "web")
		if err := os.MkdirAll(sub, 0o755); err != nil {
			t.Fatal(err)
		}

		got := RulesDir(sub)
		if want := filepath.Join(root, RulesSubdir); got.Path != want {
			t.Errorf("RulesDir().Path = %q, want %q", got.Path, want)
		}
		if got.Scope != ScopeProject {
			t.Errorf("RulesDir().Scope = %q, want %q", got.Scope, ScopeProject)
		}
	})
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	if err := EnsureDir(dir, 0); err != nil {
		t.Errorf("EnsureDir() should be idempotent, got %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}
