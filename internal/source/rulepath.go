package source

import (
	"strings"

	"github.com/necolo/rulink/internal/errors"
)

// IsCategoryToken reports whether token names a whole category rather than a
// single rule file.
func IsCategoryToken(token string) bool {
	return !isRuleFile(token)
}

// ValidateRulePath checks a user token. A rule token has one or two
// non-empty segments; a category token is non-empty and has no slash.
// ".." segments are rejected in both forms.
func ValidateRulePath(token string) error {
	if IsCategoryToken(token) {
		switch {
		case strings.TrimSpace(token) == "":
			return errors.Wrap(errors.ErrPathFormat, "category name cannot be empty")
		case strings.Contains(token, "/"):
			return errors.Wrapf(errors.ErrPathFormat, "category name cannot contain slashes: %s", token)
		case token == "." || token == "..":
			return errors.Wrapf(errors.ErrPathFormat, "invalid category name: %s", token)
		}
		return nil
	}

	segments := strings.Split(token, "/")
	if len(segments) > 2 {
		return errors.Wrapf(errors.ErrPathFormat, "rule path cannot be more than 2 levels deep: %s", token)
	}
	for _, seg := range segments {
		if seg == "" {
			return errors.Wrapf(errors.ErrPathFormat, "rule path has an empty segment: %s", token)
		}
		if seg == "." || seg == ".." {
			return errors.Wrapf(errors.ErrPathFormat, "rule path cannot contain %q: %s", seg, token)
		}
	}
	if strings.Contains(token, `\`) {
		return errors.Wrapf(errors.ErrPathFormat, "rule path must use forward slashes: %s", token)
	}
	if segments[len(segments)-1] == RuleExt {
		return errors.Wrapf(errors.ErrPathFormat, "rule file name is empty: %s", token)
	}
	return nil
}

// checkContentPath rejects anything that does not address one rule file.
func checkContentPath(rulePath string) error {
	if strings.HasSuffix(rulePath, "/") {
		return errors.Wrapf(errors.ErrPathFormat, "cannot install category without specific rule file: %s", rulePath)
	}
	if !isRuleFile(rulePath) {
		return errors.Wrapf(errors.ErrPathFormat, "rule path must end with %s: %s", RuleExt, rulePath)
	}
	return ValidateRulePath(rulePath)
}

// Basename strips any category prefix from a rule token.
func Basename(token string) string {
	if i := strings.LastIndex(token, "/"); i >= 0 {
		return token[i+1:]
	}
	return token
}
