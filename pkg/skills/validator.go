package skills

import (
	"fmt"
	"strings"

	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

// Validate enforces the structural and permission invariants of a parsed
// skill. Checks run in a fixed order and the first failure is returned as a
// *ValidationError. A skill that fails validation must never be executed;
// the workflow executor does not repeat these checks.
func Validate(skill *Skill) error {
	metadata := skill.Metadata

	if strings.TrimSpace(metadata.Name) == "" {
		return &ValidationError{Kind: ValidationEmptyName, Msg: "skill name cannot be empty"}
	}

	fail := func(step *Step, kind ValidationKind, format string, args ...any) error {
		verr := &ValidationError{Skill: metadata.Name, Kind: kind, Msg: fmt.Sprintf(format, args...)}
		if step != nil {
			verr.StepID = step.ID
		}
		return verr
	}

	if metadata.Entrypoint != EntrypointWorkflow {
		return fail(nil, ValidationEntrypoint, "only entrypoint=%s is supported, got %q", EntrypointWorkflow, metadata.Entrypoint)
	}
	if metadata.WorkflowVersion != SupportedWorkflowVersion {
		return fail(nil, ValidationWorkflowVersion, "only workflow_version=%d is supported, got %d", SupportedWorkflowVersion, metadata.WorkflowVersion)
	}

	ids := make(map[string]struct{}, len(skill.Steps))
	outputVars := make(map[string]string, len(skill.Steps))

	for i := range skill.Steps {
		step := &skill.Steps[i]

		if _, dup := ids[step.ID]; dup {
			return fail(step, ValidationDuplicateStepID, "duplicate step id: %s", step.ID)
		}
		ids[step.ID] = struct{}{}

		if step.OutputVar != "" {
			if prev, dup := outputVars[step.OutputVar]; dup {
				return fail(step, ValidationDuplicateOutputVar,
					"step '%s' reuses output_var '%s' already written by step '%s'", step.ID, step.OutputVar, prev)
			}
			outputVars[step.OutputVar] = step.ID
		}

		if err := validateStep(step, metadata.Permissions, fail); err != nil {
			return err
		}
	}

	return nil
}

type failFunc func(step *Step, kind ValidationKind, format string, args ...any) error

func validateStep(step *Step, perms Permissions, fail failFunc) error {
	switch step.Type {
	case StepTypeCommand:
		if !perms.RunCommands {
			return fail(step, ValidationPermissionDenied, "command step '%s' not allowed when run_commands=false", step.ID)
		}
		if !step.Has("runner") {
			return fail(step, ValidationMissingField, "command step '%s' missing runner", step.ID)
		}
		if !perms.AllowsRunner(step.Runner) {
			return fail(step, ValidationPermissionDenied, "command step '%s' runner '%s' not in allowed_runners", step.ID, step.Runner)
		}
		if strings.TrimSpace(step.Cmd) == "" {
			return fail(step, ValidationMissingField, "command step '%s' has empty cmd", step.ID)
		}
	case StepTypeLLM:
		if !perms.NetworkAccess && step.Model != llmtypes.ModelExecutor {
			return fail(step, ValidationPermissionDenied,
				"network_access=false requires offline model='%s' for step '%s'", llmtypes.ModelExecutor, step.ID)
		}
		if !step.Has("model") {
			return fail(step, ValidationMissingField, "llm step '%s' missing model", step.ID)
		}
		if !step.Has("prompt") {
			return fail(step, ValidationMissingField, "llm step '%s' missing prompt", step.ID)
		}
	case StepTypeOutput:
		if !step.Has("template") {
			return fail(step, ValidationMissingField, "output step '%s' missing template", step.ID)
		}
	default:
		return fail(step, ValidationMissingField, "step '%s' has unknown type %q", step.ID, step.Type)
	}
	return nil
}
