package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/necolo/rulink/internal/npm"
)

func writeRule(t *testing.T, root, rel, body string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

// isolateTemp points scoped temporary directories at a fresh directory and
// returns it.
func isolateTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old := tempRoot
	tempRoot = dir
	t.Cleanup(func() { tempRoot = old })
	return dir
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "temporary directories left behind in %s", dir)
}

// fakeCloner records clone calls and optionally populates the destination.
type fakeCloner struct {
	calls  int
	remote string
	branch string
	dest   string
	files  map[string]string
	err    error
}

func (f *fakeCloner) Clone(_ context.Context, remote, branch, dest string) error {
	f.calls++
	f.remote, f.branch, f.dest = remote, branch, dest
	if f.err != nil {
		return f.err
	}
	for rel, body := range f.files {
		path := filepath.Join(dest, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return err
		}
	}
	return nil
}

type mockLookup struct {
	mock.Mock
}

func (m *mockLookup) Lookup(ctx context.Context, pkg string) (*npm.Packument, error) {
	args := m.Called(ctx, pkg)
	p, _ := args.Get(0).(*npm.Packument)
	return p, args.Error(1)
}

// fakeInstaller lays files out the way npm would under node_modules.
type fakeInstaller struct {
	calls     int
	workspace string
	files     map[string]string
	err       error
	// after runs on the package dir once files are written.
	after func(dir string) error
}

func (f *fakeInstaller) Install(_ context.Context, pkg, workspace string) (string, error) {
	f.calls++
	f.workspace = workspace
	if f.err != nil {
		return "", f.err
	}
	dir := npm.PackageDir(workspace, pkg)
	for rel, body := range f.files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			return "", err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if f.after != nil {
		if err := f.after(dir); err != nil {
			return "", err
		}
	}
	return dir, nil
}
