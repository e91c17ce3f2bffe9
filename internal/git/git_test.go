package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/necolo/rulink/internal/errors"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https", "https://github.com/acme/rules", false},
		{"https with .git", "https://github.com/acme/rules.git", false},
		{"ssh", "ssh://git@github.com/acme/rules.git", false},
		{"git", "git://github.com/acme/rules.git", false},
		{"file", "file:///srv/rules.git", false},
		{"scp-like", "git@github.com:acme/rules.git", false},

		{"empty", "", true},
		{"argument injection", "-oProxyCommand=touch /tmp/pwned", true},
		{"ext protocol", "ext::sh -c touch% /tmp/pwned", true},
		{"unknown scheme", "ftp://github.com/acme/rules.git", true},
		{"missing scheme", "github.com/acme/rules", true},
		{"scp-like missing git suffix", "git@github.com:acme/rules", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://github.com/acme/rules", true},
		{"git@github.com:acme/rules.git", true},
		{"rules.git", true},
		{"@acme/rules", false},
		{"./rules", false},
	}
	for _, tt := range tests {
		if got := IsURL(tt.in); got != tt.want {
			t.Errorf("IsURL(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestClient_CloneLocalRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	ctx := t.Context()

	origin := t.TempDir()
	runGit := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", origin}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	runGit("init", "-b", "main")
	if err := os.WriteFile(filepath.Join(origin, "style.mdc"), []byte("rule"), 0o644); err != nil {
		t.Fatal(err)
	}
	runGit("add", ".")
	runGit("commit", "-m", "init")

	dest := filepath.Join(t.TempDir(), "clone")
	c := New("")
	if err := c.Clone(ctx, "file://"+origin, "main", dest); err != nil {
		t.Fatalf("Clone() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "style.mdc")); err != nil {
		t.Errorf("cloned file missing: %v", err)
	}

	err := c.Clone(ctx, "file://"+origin, "no-such-branch", filepath.Join(t.TempDir(), "bad"))
	if !errors.Is(err, errors.ErrSubprocess) {
		t.Errorf("Clone() of missing branch error = %v, want ErrSubprocess", err)
	}
}

func TestClient_CloneRejectsBadURL(t *testing.T) {
	err := New("git").Clone(t.Context(), "-upload-pack=evil", "main", t.TempDir())
	if err == nil {
		t.Fatal("Clone() should reject option-like URLs")
	}
}

func TestClient_MissingBinary(t *testing.T) {
	c := New("rulink-no-such-git-binary")
	if c.Available() {
		t.Fatal("Available() = true for a missing binary")
	}
	_, err := c.Version(t.Context())
	if !errors.Is(err, errors.ErrSubprocess) {
		t.Errorf("Version() error = %v, want ErrSubprocess", err)
	}
}
