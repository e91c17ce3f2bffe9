// Package frontmatter parses the YAML header of ".mdc" rule files.
//
// A header is delimited by lines containing only "---". Everything after the
// closing delimiter is the rule body:
//
//	---
//	description: TypeScript style rules
//	globs: "*.ts, *.tsx"
//	alwaysApply: false
//	---
//	Prefer named exports.
//
// [ParseHeader] reads only the header and is what source listings use.
// [Parse] returns the body as well. Files without a header are valid; the
// header value is left at its zero value.
//
// Both LF and CRLF line endings are accepted.
package frontmatter
