// Package errors defines the CLI-facing error type: a message, an optional
// wrapped cause, an exit code, and suggestions shown to the user.
package errors

import (
	"fmt"
	"strings"

	"github.com/user/codechat/internal/secrets"
)

// ExitCode maps error classes to process exit codes.
type ExitCode int

const (
	ExitSuccess       ExitCode = 0
	ExitGeneralError  ExitCode = 1
	ExitConfigError   ExitCode = 2
	ExitScanError     ExitCode = 3
	ExitProviderError ExitCode = 4
	ExitIOError       ExitCode = 5
)

func (e ExitCode) Int() int {
	return int(e)
}

// CLIError is the error type surfaced to the terminal. Messages are
// sanitized at construction so credentials never reach stderr.
type CLIError struct {
	Message     string
	Cause       error
	ExitCode    ExitCode
	Suggestions []string
}

func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

// UserMessage formats the error for terminal display, including suggestions.
func (e *CLIError) UserMessage() string {
	var sb strings.Builder
	sb.WriteString("ERROR: ")
	sb.WriteString(e.Message)
	if e.Cause != nil {
		sb.WriteString(fmt.Sprintf("\nCause: %v", secrets.Sanitize(e.Cause.Error())))
	}
	for _, s := range e.Suggestions {
		sb.WriteString("\n  - ")
		sb.WriteString(s)
	}
	return sb.String()
}

// New creates a CLIError.
func New(message string, code ExitCode) *CLIError {
	return &CLIError{Message: secrets.Sanitize(message), ExitCode: code}
}

// Wrap wraps a cause with a message and exit code.
func Wrap(cause error, message string, code ExitCode) *CLIError {
	return &CLIError{Message: secrets.Sanitize(message), Cause: cause, ExitCode: code}
}

// NewConfigError creates a configuration error with setup suggestions.
func NewConfigError(message string, suggestions ...string) *CLIError {
	return &CLIError{
		Message:     secrets.Sanitize(message),
		ExitCode:    ExitConfigError,
		Suggestions: suggestions,
	}
}

// NewMissingAPIKeyError points the user at the ways to supply a key.
func NewMissingAPIKeyError(providerName string) *CLIError {
	return &CLIError{
		Message:  fmt.Sprintf("no API key configured for provider %q", providerName),
		ExitCode: ExitConfigError,
		Suggestions: []string{
			"Export the key: export API_KEY='your-key'",
			"Add it to a .env file in the working directory",
			"Set llm.api_key in .codechat/config.yaml",
		},
	}
}
