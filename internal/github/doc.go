// Package github talks to a GitHub-compatible code host: parsing repository
// references, listing directories through the contents API, fetching raw
// files and discovering credentials from the environment and git config.
//
// Accepted references:
//
//	owner/repo on github.com      github.com/acme/rules
//	prefixed short form           github:acme/rules
//	full URL                      https://github.com/acme/rules
//	branch and subpath            https://github.com/acme/rules/tree/v2/cursor
//	blob form, same meaning       https://github.com/acme/rules/blob/v2/cursor
//	scp-like remote               git@github.com:acme/rules.git
//
// The branch defaults to "main".
package github
