package npm

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/necolo/rulink/internal/errors"
)

func newRegistryServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.EscapedPath() {
		case "/@acme%2Fcursor-rules":
			_, _ = w.Write([]byte(`{"name":"@acme/cursor-rules","description":"Team rules","dist-tags":{"latest":"1.4.0"}}`))
		case "/untagged":
			_, _ = w.Write([]byte(`{"name":"untagged"}`))
		case "/broken":
			w.WriteHeader(http.StatusBadGateway)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRegistry_Lookup(t *testing.T) {
	srv := newRegistryServer(t)
	reg := NewRegistry(srv.URL+"/", nil)

	p, err := reg.Lookup(t.Context(), "@acme/cursor-rules@1.0.0")
	require.NoError(t, err)
	assert.Equal(t, "@acme/cursor-rules", p.Name)
	assert.Equal(t, "1.4.0", p.Latest())

	_, err = reg.Lookup(t.Context(), "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound), "error = %v", err)

	_, err = reg.Lookup(t.Context(), "broken")
	assert.True(t, errors.Is(err, errors.ErrNetwork), "error = %v", err)
}

func TestRegistry_LatestVersion(t *testing.T) {
	srv := newRegistryServer(t)
	reg := NewRegistry(srv.URL, nil)

	v, err := reg.LatestVersion(t.Context(), "@acme/cursor-rules")
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", v)

	_, err = reg.LatestVersion(t.Context(), "untagged")
	assert.Error(t, err)
}

func TestPackageName(t *testing.T) {
	tests := []struct {
		spec, name, short string
	}{
		{"cursor-rules", "cursor-rules", "cursor-rules"},
		{"cursor-rules@2.0.0", "cursor-rules", "cursor-rules"},
		{"@acme/cursor-rules", "@acme/cursor-rules", "cursor-rules"},
		{"@acme/cursor-rules@latest", "@acme/cursor-rules", "cursor-rules"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			assert.Equal(t, tt.name, PackageName(tt.spec))
			assert.Equal(t, tt.short, ShortName(tt.spec))
		})
	}
}

func TestPackageDir(t *testing.T) {
	assert.Equal(t, filepath.Join("/ws", "node_modules", "@acme", "rules"), PackageDir("/ws", "@acme/rules@1.0.0"))
}

func TestIsNewer(t *testing.T) {
	tests := []struct {
		current, latest string
		want            bool
	}{
		{"1.0.0", "1.0.1", true},
		{"v1.2.0", "1.10.0", true},
		{"2.0.0", "2.0.0", false},
		{"2.0.0", "1.9.9", false},
		{"1.0.0", "1.0.1-beta.1", true},
		{"garbage", "1.0.0", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsNewer(tt.current, tt.latest), "IsNewer(%q, %q)", tt.current, tt.latest)
	}
}

func TestInstaller_RejectsOptionLikePackage(t *testing.T) {
	_, err := NewInstaller("").Install(t.Context(), "--registry=http://evil", t.TempDir())
	assert.Error(t, err)
}

func TestInstaller_MissingBinary(t *testing.T) {
	inst := NewInstaller("rulink-no-such-npm")
	assert.False(t, inst.Available())

	_, err := inst.Install(t.Context(), "cursor-rules", t.TempDir())
	assert.True(t, errors.Is(err, errors.ErrSubprocess), "error = %v", err)

	_, err = inst.CurrentVersion(t.Context(), "cursor-rules", t.TempDir())
	assert.True(t, errors.Is(err, errors.ErrSubprocess), "error = %v", err)
	assert.False(t, errors.Is(err, ErrNotInstalled), "a failed lookup is not the same as not installed")
}
