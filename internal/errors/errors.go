package errors

import (
	"fmt"
	"strings"
)

// UserError represents an error that should be shown to the user with helpful context
type UserError struct {
	Message    string
	Suggestion string
	Details    string
	Err        error
}

func (e UserError) Error() string {
	var parts []string

	if e.Message != "" {
		parts = append(parts, e.Message)
	} else if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Details != "" {
		parts = append(parts, "\n  Details: "+e.Details)
	}

	if e.Suggestion != "" {
		parts = append(parts, "\n  💡 Try: "+e.Suggestion)
	}

	return strings.Join(parts, "")
}

func (e UserError) Unwrap() error {
	return e.Err
}

// ConfigError represents a configuration error with helpful context
type ConfigError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e ConfigError) Error() string {
	msg := "Configuration error"
	if e.Field != "" {
		msg += fmt.Sprintf(" in input '%s'", e.Field)
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	msg += ": " + e.Message

	if e.Suggestion != "" {
		msg += "\n  💡 " + e.Suggestion
	}

	return msg
}

// MalformedRequestError indicates a secret-path line that cannot be parsed.
// Fatal for the run: retrying re-parses the same input and fails the same
// way, though the orchestrator still counts it against the retry budget.
type MalformedRequestError struct {
	Line    string
	Message string
}

func (e MalformedRequestError) Error() string {
	return fmt.Sprintf("malformed secret reference %q: %s", e.Line, e.Message)
}

// VaultNotFoundError indicates that a referenced vault name is not present
// on the Connect server.
type VaultNotFoundError struct {
	Vault string
}

func (e VaultNotFoundError) Error() string {
	return fmt.Sprintf("no vault named %q on the Connect server", e.Vault)
}

// SecretNotFoundError indicates a missing item, or a missing field within an
// item when a specific field was requested.
type SecretNotFoundError struct {
	Vault string
	Item  string
	Field string
}

func (e SecretNotFoundError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("could not find field %q with a value in item %q (vault %q)", e.Field, e.Item, e.Vault)
	}
	return fmt.Sprintf("could not find item %q in vault %q", e.Item, e.Vault)
}

// TransportError wraps a failed HTTP exchange with the Connect server.
// StatusCode is zero when the request never produced a response.
type TransportError struct {
	Operation  string
	StatusCode int
	Body       string
	Err        error
}

func (e TransportError) Error() string {
	if e.StatusCode != 0 {
		msg := fmt.Sprintf("connect server returned status %d during %s", e.StatusCode, e.Operation)
		if e.Body != "" {
			msg += ": " + e.Body
		}
		return msg
	}
	return fmt.Sprintf("connect request failed during %s: %v", e.Operation, e.Err)
}

func (e TransportError) Unwrap() error {
	return e.Err
}

// RetriesExhaustedError is raised by the retry orchestrator after the final
// attempt fails. It is distinguishable from the underlying cause so callers
// can report "too many retries" without inspecting the original error type.
type RetriesExhaustedError struct {
	Attempts int
	Cause    error
}

func (e RetriesExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Cause)
}

func (e RetriesExhaustedError) Unwrap() error {
	return e.Cause
}

// NotFound reports whether err is one of the miss conditions that
// fail-on-not-found demotes to a warning when disabled.
func NotFound(err error) bool {
	switch err.(type) {
	case VaultNotFoundError, SecretNotFoundError:
		return true
	}
	return false
}
