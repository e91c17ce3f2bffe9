package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, network, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for common failure conditions.
var (
	// ErrPathFormat indicates a rule path token is malformed.
	ErrPathFormat = crdb.New("invalid rule path")

	// ErrNotFound indicates the requested source, category or rule was not found.
	ErrNotFound = crdb.New("not found")

	// ErrNoActiveSource indicates no source was named and none is active.
	ErrNoActiveSource = crdb.New("no active source configured")

	// ErrSourceExists indicates a source name is already taken.
	ErrSourceExists = crdb.New("source already exists")

	// ErrInvalidName indicates a source name is empty or malformed.
	ErrInvalidName = crdb.New("invalid source name")

	// ErrNetwork indicates an HTTP request failed.
	ErrNetwork = crdb.New("network request failed")

	// ErrSubprocess indicates an external command exited unsuccessfully.
	ErrSubprocess = crdb.New("subprocess failed")

	// ErrIO indicates a local filesystem operation failed.
	ErrIO = crdb.New("i/o failure")
)

// New, Newf, Wrap and friends delegate to cockroachdb/errors.
var (
	New           = crdb.New
	Newf          = crdb.Newf
	Wrap          = crdb.Wrap
	Wrapf         = crdb.Wrapf
	WithDetail    = crdb.WithDetail
	WithDetailf   = crdb.WithDetailf
	Mark          = crdb.Mark
	Is            = crdb.Is
	As            = crdb.As
	GetAllDetails = crdb.GetAllDetails
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewExitErrorWithSuggestion creates an ExitError with a suggestion.
func NewExitErrorWithSuggestion(err error, code int, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       code,
		Suggestion: suggestion,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: rulink doctor",
	}
}

// Classify maps err onto an ExitError using the sentinel taxonomy.
// An err that already is (or wraps) an ExitError is returned unchanged.
func Classify(err error) *ExitError {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if As(err, &exitErr) {
		return exitErr
	}
	switch {
	case Is(err, ErrNoActiveSource):
		return NewUserError(err, "Run: rulink source add <path|url|package>")
	case Is(err, ErrNotFound):
		return NewUserError(err, "Run: rulink source list or rulink list to see what is available")
	case Is(err, ErrPathFormat), Is(err, ErrSourceExists), Is(err, ErrInvalidName):
		return NewUserError(err, "")
	case Is(err, ErrNetwork):
		return NewSystemError(err, "Check your network connection and credentials")
	case Is(err, ErrSubprocess):
		return NewSystemError(err, "Check that git and npm are installed and on your PATH")
	case Is(err, ErrIO):
		return NewSystemError(err, "Check file permissions")
	default:
		return NewExitError(err, ExitUser)
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}
