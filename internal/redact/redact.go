// Package redact masks credentials before they reach logs or doctor output.
package redact

import (
	"net/url"
	"strings"
)

// secretKeyPatterns are matched case-insensitively against attribute and
// header names.
var secretKeyPatterns = []string{
	"TOKEN",
	"SECRET",
	"PASSWORD",
	"AUTH",
	"CREDENTIAL",
	"KEY",
}

// TokenPrefixes are value prefixes that always mark a credential.
var TokenPrefixes = []string{
	"ghp_", // GitHub personal access token
	"gho_", // GitHub OAuth token
	"ghu_", // GitHub user-to-server token
	"ghs_", // GitHub server-to-server token
	"ghr_", // GitHub refresh token
	"github_pat_",
	"npm_", // npm automation token
}

// Value masks s, keeping the last four characters of longer values.
func Value(s string) string {
	if len(s) <= 4 {
		return "********"
	}
	return "****" + s[len(s)-4:]
}

// IsSecretKey reports whether key names a sensitive value.
func IsSecretKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, pattern := range secretKeyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// HasTokenPrefix reports whether value starts with a known token prefix.
func HasTokenPrefix(value string) bool {
	for _, prefix := range TokenPrefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

// Attr returns value masked when either key or value looks secret.
func Attr(key, value string) string {
	if IsSecretKey(key) || HasTokenPrefix(value) {
		return Value(value)
	}
	return value
}

// URL masks the password and any token-like username in rawURL. Unparseable
// input is returned unchanged.
func URL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.User == nil {
		return rawURL
	}
	user := parsed.User.Username()
	if HasTokenPrefix(user) {
		user = Value(user)
	}
	if password, ok := parsed.User.Password(); ok && password != "" {
		parsed.User = url.UserPassword(user, Value(password))
	} else {
		parsed.User = url.User(user)
	}
	return parsed.String()
}
