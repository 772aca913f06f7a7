package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the marcval binary. Scripts can tell invalid records
// apart from tool failure.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitInvalid = 2
)

// ConfigError reports a rejected configuration value. Field is the
// dotted YAML path, such as "reports.sqlite_path".
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Message
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// CommandError wraps a failure from a marcval subcommand.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("marcval %s: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ValidationError reports how many records in a batch failed
// validation. It is not a tool failure and maps to ExitInvalid.
type ValidationError struct {
	Invalid int
	Total   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d of %d record(s) invalid", e.Invalid, e.Total)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{
		Field:   field,
		Message: message,
	}
}

// NewCommandError creates a new CommandError.
func NewCommandError(command string, err error) *CommandError {
	return &CommandError{
		Command: command,
		Err:     err,
	}
}

// NewValidationError creates a new ValidationError.
func NewValidationError(invalid, total int) *ValidationError {
	return &ValidationError{
		Invalid: invalid,
		Total:   total,
	}
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		return ExitInvalid
	}
	return ExitFailure
}
