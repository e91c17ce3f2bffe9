package github

import (
	"strings"

	"github.com/necolo/rulink/internal/errors"
)

// DefaultHost is assumed for short references.
const DefaultHost = "github.com"

// DefaultBranch is used when a reference names no branch.
const DefaultBranch = "main"

// Ref identifies a directory inside a repository at a branch.
type Ref struct {
	// Host is github.com for short forms; URLs keep their own host.
	Host   string
	Owner  string
	Repo   string
	Branch string
	// Path is slash-separated and relative to the repository root. Empty
	// means the root.
	Path string
}

// ErrInvalidRef is returned for references without an owner and a repository.
var ErrInvalidRef = errors.New("invalid repository reference")

// ParseRef parses any of the accepted reference forms.
func ParseRef(input string) (Ref, error) {
	s := strings.TrimSpace(input)
	host := DefaultHost

	switch {
	case strings.HasPrefix(s, "github:"):
		s = strings.TrimPrefix(s, "github:")
	case strings.HasPrefix(s, "git@"):
		// git@host:owner/repo.git
		rest := strings.TrimPrefix(s, "git@")
		h, p, ok := strings.Cut(rest, ":")
		if !ok {
			return Ref{}, errors.Wrapf(ErrInvalidRef, "%q", input)
		}
		host, s = h, p
	default:
		if i := strings.Index(s, "://"); i >= 0 {
			s = s[i+3:]
		}
		if h, rest, ok := strings.Cut(s, "/"); ok && strings.Contains(h, ".") {
			host, s = h, rest
		}
	}

	if at := strings.LastIndex(host, "@"); at >= 0 {
		host = host[at+1:]
	}

	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Ref{}, errors.Wrapf(ErrInvalidRef, "%q", input)
	}

	ref := Ref{
		Host:   host,
		Owner:  parts[0],
		Repo:   strings.TrimSuffix(parts[1], ".git"),
		Branch: DefaultBranch,
	}
	if len(parts) > 3 && (parts[2] == "tree" || parts[2] == "blob") {
		ref.Branch = parts[3]
		ref.Path = strings.Join(parts[4:], "/")
	}
	return ref, nil
}

// OnDefaultHost reports whether the reference lives on github.com, the only
// host the contents API and raw clients talk to.
func (r Ref) OnDefaultHost() bool {
	h := strings.ToLower(r.Host)
	return h == DefaultHost || h == "www."+DefaultHost
}

// CloneURL is the https remote for the repository.
func (r Ref) CloneURL() string {
	return "https://" + r.Host + "/" + r.Owner + "/" + r.Repo + ".git"
}

// WebURL is the canonical form stored in the config.
func (r Ref) WebURL() string {
	u := "https://" + r.Host + "/" + r.Owner + "/" + r.Repo
	if r.Branch != DefaultBranch || r.Path != "" {
		u += "/tree/" + r.Branch
		if r.Path != "" {
			u += "/" + r.Path
		}
	}
	return u
}

// Join returns the repository path of rel below the reference's directory.
func (r Ref) Join(rel string) string {
	rel = strings.Trim(rel, "/")
	switch {
	case r.Path == "":
		return rel
	case rel == "":
		return r.Path
	}
	return r.Path + "/" + rel
}

// LooksLikeRef reports whether input should be treated as a repository
// reference when detecting a source kind.
func LooksLikeRef(input string) bool {
	return strings.Contains(input, "github.com") || strings.HasPrefix(input, "github:")
}
