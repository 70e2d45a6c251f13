package cli

import "fmt"

// Process exit codes. The four terminal states of a run are
// distinguishable by code alone.
const (
	ExitSuccess        = 0 // every operation succeeded
	ExitFatal          = 1 // config/discovery/usage error, nothing was changed
	ExitPartialFailure = 2 // run completed but some operations failed
	ExitAborted        = 3 // operator declined the confirmation prompt
	ExitCancelled      = 4 // operator stopped the run mid-flight
)

// ExitError carries a specific process exit code up to main.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}
