package skills

import (
	"fmt"

	"github.com/pkg/errors"
)

// ParseError reports a SKILL.md document that could not be turned into a Skill
type ParseError struct {
	Path string
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("parse error in %s: %s", e.Path, msg)
	}
	return "parse error: " + msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(cause error, format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...), Err: cause}
}

// ValidationKind classifies why a skill failed validation
type ValidationKind string

const (
	ValidationEmptyName          ValidationKind = "empty_name"
	ValidationEntrypoint         ValidationKind = "entrypoint"
	ValidationWorkflowVersion    ValidationKind = "workflow_version"
	ValidationDuplicateStepID    ValidationKind = "duplicate_step_id"
	ValidationDuplicateOutputVar ValidationKind = "duplicate_output_var"
	ValidationPermissionDenied   ValidationKind = "permission_denied"
	ValidationMissingField       ValidationKind = "missing_field"
)

// ValidationError reports the first structural or permission invariant a
// skill violates
type ValidationError struct {
	Skill  string
	StepID string
	Kind   ValidationKind
	Msg    string
}

func (e *ValidationError) Error() string {
	if e.Skill != "" {
		return fmt.Sprintf("validation error in skill %q: %s", e.Skill, e.Msg)
	}
	return "validation error: " + e.Msg
}

// SelectionError reports that no skill could be chosen for a request
type SelectionError struct {
	Msg string
}

func (e *SelectionError) Error() string {
	return "selection error: " + e.Msg
}

// IsValidationKind reports whether err is a *ValidationError of the given kind
func IsValidationKind(err error, kind ValidationKind) bool {
	var verr *ValidationError
	return errors.As(err, &verr) && verr.Kind == kind
}
