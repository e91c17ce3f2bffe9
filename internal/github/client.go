package github

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/necolo/rulink/internal/errors"
	"github.com/necolo/rulink/internal/logging"
	"github.com/necolo/rulink/pkg/fileutil"
)

// ErrAccessDenied is returned for HTTP 403 responses.
var ErrAccessDenied = errors.New("access denied")

// rawMediaType asks the contents API for file bytes instead of JSON.
const rawMediaType = "application/vnd.github.raw"

// Entry is one item of a contents API directory listing.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// IsFile reports whether the entry is a regular file.
func (e Entry) IsFile() bool { return e.Type == "file" }

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool { return e.Type == "dir" }

// Client reads repository content over HTTP. The zero value is not usable;
// construct one with NewClient.
type Client struct {
	apiBase string
	rawBase string
	http    *http.Client
	creds   Credentials
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithCredentials sets the credentials applied to API requests.
func WithCredentials(creds Credentials) Option {
	return func(c *Client) {
		c.creds = creds
	}
}

// NewClient returns a client for the given API and raw-content base URLs.
func NewClient(apiBase, rawBase string, opts ...Option) *Client {
	c := &Client{
		apiBase: strings.TrimRight(apiBase, "/"),
		rawBase: strings.TrimRight(rawBase, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credentials returns the configured credentials.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// ListDir lists repoPath at ref.Branch through the contents API.
func (c *Client) ListDir(ctx context.Context, ref Ref, repoPath string) ([]Entry, error) {
	body, err := c.get(ctx, c.contentsURL(ref, repoPath), "application/vnd.github+json")
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, errors.Wrapf(err, "%s is not a directory", ref.Owner+"/"+ref.Repo+"/"+repoPath)
	}
	return entries, nil
}

// FileViaAPI fetches the bytes of repoPath through the contents API.
func (c *Client) FileViaAPI(ctx context.Context, ref Ref, repoPath string) ([]byte, error) {
	return c.get(ctx, c.contentsURL(ref, repoPath), rawMediaType)
}

// RawFile fetches repoPath from the raw content host.
func (c *Client) RawFile(ctx context.Context, ref Ref, repoPath string) ([]byte, error) {
	u := c.rawBase + "/" + escapePath(ref.Owner+"/"+ref.Repo+"/"+ref.Branch)
	if repoPath != "" {
		u += "/" + escapePath(repoPath)
	}
	return c.get(ctx, u, "")
}

func (c *Client) contentsURL(ref Ref, repoPath string) string {
	u := c.apiBase + "/repos/" + url.PathEscape(ref.Owner) + "/" + url.PathEscape(ref.Repo) + "/contents"
	if repoPath != "" {
		u += "/" + escapePath(repoPath)
	}
	return u + "?ref=" + url.QueryEscape(ref.Branch)
}

func escapePath(p string) string {
	segs := strings.Split(strings.Trim(p, "/"), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// get performs one GET and maps the status onto the error taxonomy.
// There are no retries.
func (c *Client) get(ctx context.Context, u, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", u)
	}
	c.creds.Apply(req)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "GET %s", u), errors.ErrNetwork)
	}
	defer resp.Body.Close()

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "http response", slog.String("url", u), slog.Int("status", resp.StatusCode))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.Wrapf(errors.ErrNotFound, "GET %s", u)
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.Mark(errors.Wrapf(ErrAccessDenied, "GET %s", u), errors.ErrNetwork)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, errors.Mark(errors.Newf("GET %s: unexpected status %d", u, resp.StatusCode), errors.ErrNetwork)
	}

	body, err := fileutil.ReadAllWithLimit(resp.Body)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "reading %s", u), errors.ErrNetwork)
	}
	return body, nil
}
