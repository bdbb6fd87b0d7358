package orchestrator

import (
	"errors"
	"fmt"
)

// ErrPrerequisiteMissing marks a stage invoked before the stage that
// produces its input has completed.
var ErrPrerequisiteMissing = errors.New("prerequisite stage not completed")

// CollaboratorError wraps a failed external-service call. The stage fails
// and the session keeps its prior persisted state.
type CollaboratorError struct {
	Name string
	Err  error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Name, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// InvalidResponseError reports a reasoning-service response that is not
// valid JSON or misses required fields. Raw carries the full payload for
// diagnostics; nothing is retried and nothing is defaulted.
type InvalidResponseError struct {
	Reason string
	Raw    string
}

func (e *InvalidResponseError) Error() string {
	return "scoring response invalid: " + e.Reason
}
