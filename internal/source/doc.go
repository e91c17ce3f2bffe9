// Package source resolves rule sources and the rules inside them.
//
// A source is a local directory, a repository on a GitHub-compatible host or
// an npm package. Each kind has a [Provider] with the same three operations:
// Validate, ListRules and GetRuleContent. Rules live at most one directory
// deep: files at the root belong to the "default" category, files in a
// first-level subdirectory belong to a category named after it.
//
// Remote providers try several strategies in order (see [Tier] and
// [RunChain]); the first that succeeds wins and the failures of the others
// are only reported when every strategy failed. Strategies that need a
// checkout or an npm install work in a temporary directory that is removed
// before the call returns.
//
// The [Manager] ties providers to the config store and implements rule token
// handling:
//
//	style.mdc             a rule in the default category
//	typescript/style.mdc  a rule in the typescript category
//	typescript            every rule in the typescript category
package source
