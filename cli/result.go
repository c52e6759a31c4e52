package cli

// CommandError reports that a command failed after it already printed its
// own diagnostics, such as ledger issues from check or an invalid
// configuration from doctor config. Main turns it into the process exit code.
type CommandError struct {
	exitCode int
}

// NewCommandError returns a CommandError exiting with exitCode.
func NewCommandError(exitCode int) *CommandError {
	return &CommandError{exitCode: exitCode}
}

func (e *CommandError) Error() string {
	return "command failed"
}

// ExitCode is the status the process should exit with.
func (e *CommandError) ExitCode() int {
	return e.exitCode
}
