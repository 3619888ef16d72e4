package workflow

import "fmt"

// ErrorKind classifies why a run failed
type ErrorKind string

const (
	ErrorUnsupportedRunner ErrorKind = "unsupported_runner"
	ErrorMissingField      ErrorKind = "missing_field"
	ErrorGeneration        ErrorKind = "generation"
	ErrorCondition         ErrorKind = "condition"
	ErrorCommand           ErrorKind = "command"
)

// ExecutionError reports the step that aborted a run
type ExecutionError struct {
	Skill  string
	StepID string
	Kind   ErrorKind
	Msg    string
	Err    error
}

func (e *ExecutionError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	if e.StepID != "" {
		return fmt.Sprintf("execution error in step '%s': %s", e.StepID, msg)
	}
	return "execution error: " + msg
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}
