package github

import (
	"context"
	"net/http"
)

// UserAgent is sent with every request.
const UserAgent = "rulink"

// Credentials are best-effort authentication details. Both fields may be
// empty; requests then only reach public content.
type Credentials struct {
	Token    string
	Username string
}

// ConfigReader reads global git config values.
type ConfigReader interface {
	ConfigGet(ctx context.Context, key string) (string, error)
}

// DiscoverCredentials prefers an explicit token, then the github.token git
// config key, then falls back to user.name for identification only. Lookup
// errors are ignored.
func DiscoverCredentials(ctx context.Context, explicitToken string, git ConfigReader) Credentials {
	if explicitToken != "" {
		return Credentials{Token: explicitToken}
	}
	if git == nil {
		return Credentials{}
	}
	if token, err := git.ConfigGet(ctx, "github.token"); err == nil && token != "" {
		return Credentials{Token: token}
	}
	if name, err := git.ConfigGet(ctx, "user.name"); err == nil && name != "" {
		return Credentials{Username: name}
	}
	return Credentials{}
}

// Apply sets the user agent and, when a token is known, the authorization
// header on req.
func (c Credentials) Apply(req *http.Request) {
	req.Header.Set("User-Agent", UserAgent)
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}
}

// Source names where the credentials came from, for diagnostics.
func (c Credentials) Source() string {
	switch {
	case c.Token != "":
		return "token"
	case c.Username != "":
		return "username"
	}
	return "none"
}
