// Package git wraps the git command line for shallow clones and config reads.
package git

import (
	"bytes"
	"context"
	"net/url"
	"os/exec"
	"regexp"
	"strings"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/logging"
)

// scpLike matches user@host:path.git remotes.
var scpLike = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[A-Za-z0-9._/~-]+\.git$`)

var allowedSchemes = map[string]bool{
	"https": true,
	"http":  true,
	"ssh":   true,
	"git":   true,
	"file":  true,
}

// IsURL returns true if s looks like a git repository URL.
func IsURL(s string) bool {
	return strings.Contains(s, "://") || strings.HasSuffix(s, ".git") || strings.HasPrefix(s, "git@")
}

// ValidateURL rejects remotes git would interpret as options or transport
// helpers, and anything that is neither a known scheme nor scp-like.
func ValidateURL(raw string) error {
	switch {
	case raw == "":
		return errors.New("empty repository URL")
	case strings.HasPrefix(raw, "-"):
		return errors.Newf("repository URL %q looks like an option", raw)
	case strings.Contains(raw, "::"):
		return errors.Newf("repository URL %q uses a transport helper", raw)
	}

	if scpLike.MatchString(raw) {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrapf(err, "parsing repository URL %q", raw)
	}
	if !allowedSchemes[u.Scheme] {
		return errors.Newf("unsupported repository URL %q", raw)
	}
	return nil
}

// Client runs git subprocesses.
type Client struct {
	binary string
}

// New returns a Client invoking binary, or "git" when binary is empty.
func New(binary string) *Client {
	if binary == "" {
		binary = "git"
	}
	return &Client{binary: binary}
}

// Binary returns the executable name.
func (c *Client) Binary() string {
	return c.binary
}

// Available reports whether the binary is on PATH.
func (c *Client) Available() bool {
	_, err := exec.LookPath(c.binary)
	return err == nil
}

// Clone makes a depth-1 clone of remote at branch into dest. An empty branch
// clones the remote's default branch. Combined output is attached to the
// error on failure.
func (c *Client) Clone(ctx context.Context, remote, branch, dest string) error {
	if err := ValidateURL(remote); err != nil {
		return err
	}
	args := []string{"clone", "--depth", "1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, "--", remote, dest)

	logging.FromContext(ctx).Debug("git clone", "url", remote, "branch", branch, "dest", dest)
	if _, err := c.run(ctx, args...); err != nil {
		return errors.Wrapf(err, "cloning %s", remote)
	}
	return nil
}

// ConfigGet returns the global git config value for key, or "" when unset.
func (c *Client) ConfigGet(ctx context.Context, key string) (string, error) {
	out, err := c.run(ctx, "config", "--global", "--get", key)
	if err != nil {
		var exitErr *exec.ExitError
		// git exits 1 for a missing key
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Version returns the output of "git --version".
func (c *Client) Version(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "--version")
	return strings.TrimSpace(out), err
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		wrapped := errors.Mark(errors.Wrapf(err, "%s %s", c.binary, args[0]), errors.ErrSubprocess)
		if msg != "" {
			wrapped = errors.WithDetail(wrapped, msg)
			wrapped = errors.Wrap(wrapped, msg)
		}
		return out.String(), wrapped
	}
	return out.String(), nil
}
