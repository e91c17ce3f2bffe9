// Package errors provides error handling conventions for the rulink CLI.
//
// This package defines sentinel errors for the failure classes the CLI
// distinguishes, an ExitError type for CLI exit code handling, and thin
// re-exports of github.com/cockroachdb/errors so call sites only import one
// errors package.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, rerrors.ErrNotFound) {
//	    // named source, category or rule is absent
//	}
//
// The taxonomy is:
//
//   - ErrPathFormat: a rule token violates the depth/segment/extension rules
//   - ErrNotFound: a named source, category or rule does not exist
//   - ErrNoActiveSource: no source name was given and none is active
//   - ErrNetwork: an HTTP request failed or returned an unexpected status
//   - ErrSubprocess: git or npm exited non-zero
//   - ErrIO: a local read or write failed
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, network, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := rerrors.NewUserError(rerrors.ErrNoActiveSource, "Run: rulink source add <path|url|package>")
//	var exitErr *rerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
