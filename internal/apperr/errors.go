// Package apperr defines the failure taxonomy shared by both search tools and
// the mapping from failures to process exit codes.
package apperr

import (
	"errors"
	"fmt"
	"time"
)

// Kind tags a failure for presentation and exit-code selection
type Kind string

const (
	KindValidation    Kind = "validation_error"
	KindConfiguration Kind = "configuration_error"
	KindNetwork       Kind = "network_error"
	KindTimeout       Kind = "timeout_error"
	KindProvider      Kind = "provider_error"
	KindInternal      Kind = "internal_error"
)

// Process exit codes
const (
	ExitOK        = 0
	ExitNoResults = 1
	ExitUsage     = 2
	ExitConfig    = 3
	ExitNetwork   = 4
	ExitTimeout   = 5
	ExitProvider  = 6
	ExitInternal  = 7
)

// ErrNoResults marks a successful call that produced zero results. It is
// returned after the (empty) result has been presented.
var ErrNoResults = errors.New("no results found")

// ValidationError reports bad command-line input
type ValidationError struct {
	Arg     string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Arg == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Arg, e.Message)
}

// Validation builds a ValidationError for the named argument
func Validation(arg, format string, args ...interface{}) error {
	return &ValidationError{Arg: arg, Message: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports a missing credential or unreadable configuration
type ConfigurationError struct {
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// MissingCredential reports an unset credential environment variable
func MissingCredential(variable string) error {
	return &ConfigurationError{
		Message: fmt.Sprintf("%s environment variable not set", variable),
	}
}

// NetworkError reports a transport failure other than a timeout
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("failed to make request - %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TimeoutError reports that the request deadline expired
type TimeoutError struct {
	Timeout time.Duration
	Err     error
}

func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("request timed out after %s", e.Timeout)
	}
	return "request timed out"
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// ProviderError reports a non-2xx status or an error flagged inside a 2xx body
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API returned status code %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %s", e.Message)
}

// reported wraps an error that has already been presented to the user
type reported struct {
	err error
}

func (r *reported) Error() string { return r.err.Error() }

func (r *reported) Unwrap() error { return r.err }

// Reported marks err as already presented so the caller only maps it to an
// exit code.
func Reported(err error) error {
	if err == nil || IsReported(err) {
		return err
	}
	return &reported{err: err}
}

// IsReported reports whether err was marked with Reported
func IsReported(err error) bool {
	var r *reported
	return errors.As(err, &r)
}

// KindOf classifies err; unknown errors are internal
func KindOf(err error) Kind {
	var (
		validation *ValidationError
		configErr  *ConfigurationError
		timeout    *TimeoutError
		network    *NetworkError
		provider   *ProviderError
	)

	switch {
	case errors.As(err, &validation):
		return KindValidation
	case errors.As(err, &configErr):
		return KindConfiguration
	case errors.As(err, &timeout):
		return KindTimeout
	case errors.As(err, &network):
		return KindNetwork
	case errors.As(err, &provider):
		return KindProvider
	default:
		return KindInternal
	}
}

// StatusCode returns the provider HTTP status carried by err, or 0
func StatusCode(err error) int {
	var provider *ProviderError
	if errors.As(err, &provider) {
		return provider.StatusCode
	}
	return 0
}

// ExitCode selects the process exit code for err
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if errors.Is(err, ErrNoResults) {
		return ExitNoResults
	}

	switch KindOf(err) {
	case KindValidation:
		return ExitUsage
	case KindConfiguration:
		return ExitConfig
	case KindTimeout:
		return ExitTimeout
	case KindNetwork:
		return ExitNetwork
	case KindProvider:
		return ExitProvider
	default:
		return ExitInternal
	}
}
