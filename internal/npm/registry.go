package npm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/logging"
	"github.com/necolo/rulink/pkg/fileutil"
)

// Packument is the subset of registry package metadata rulink reads.
type Packument struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	DistTags    map[string]string `json:"dist-tags"`
}

// Latest returns the "latest" dist-tag, or "".
func (p *Packument) Latest() string {
	return p.DistTags["latest"]
}

// Registry queries package metadata.
type Registry struct {
	base string
	http *http.Client
}

// NewRegistry returns a Registry rooted at base. A nil hc means a default
// client.
func NewRegistry(base string, hc *http.Client) *Registry {
	if hc == nil {
		hc = &http.Client{}
	}
	return &Registry{base: strings.TrimRight(base, "/"), http: hc}
}

// Lookup fetches metadata for pkg. A 404 is reported as ErrNotFound.
func (r *Registry) Lookup(ctx context.Context, pkg string) (*Packument, error) {
	name := PackageName(pkg)
	// Scoped names keep their "@" but escape the slash.
	u := r.base + "/" + strings.Replace(url.PathEscape(name), "%40", "@", 1)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", u)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "rulink")

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "looking up %s", name), errors.ErrNetwork)
	}
	defer resp.Body.Close()

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "registry response", "package", name, "status", resp.StatusCode)

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.Wrapf(errors.ErrNotFound, "package %s", name)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.Mark(errors.Newf("registry returned %d for %s", resp.StatusCode, name), errors.ErrNetwork)
	}

	body, err := fileutil.ReadAllWithLimit(resp.Body)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "reading metadata for %s", name), errors.ErrNetwork)
	}
	var p Packument
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decoding metadata for %s", name), errors.ErrNetwork)
	}
	return &p, nil
}

// LatestVersion returns the latest published version of pkg.
func (r *Registry) LatestVersion(ctx context.Context, pkg string) (string, error) {
	p, err := r.Lookup(ctx, pkg)
	if err != nil {
		return "", err
	}
	if p.Latest() == "" {
		return "", errors.Newf("package %s has no latest version", PackageName(pkg))
	}
	return p.Latest(), nil
}

// PackageName strips a trailing version or tag from a package spec:
// "@acme/rules@1.2.0" becomes "@acme/rules".
func PackageName(spec string) string {
	at := strings.LastIndex(spec, "@")
	if at > 0 {
		return spec[:at]
	}
	return spec
}

// ShortName is the package name without its scope.
func ShortName(spec string) string {
	name := PackageName(spec)
	if i := strings.LastIndex(name, "/"); i >= 0 {
		return name[i+1:]
	}
	return name
}
