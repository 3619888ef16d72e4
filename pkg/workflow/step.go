package workflow

import (
	"context"
	"strings"

	"github.com/jingkaihe/genai/pkg/logger"
	"github.com/jingkaihe/genai/pkg/skills"
	"github.com/jingkaihe/genai/pkg/templating"
	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

// StepExecutor runs a single workflow step against a run Context
type StepExecutor struct {
	generator llmtypes.Generator
	runners   *Registry
}

// NewStepExecutor creates a StepExecutor. A nil registry means
// DefaultRegistry(false).
func NewStepExecutor(generator llmtypes.Generator, runners *Registry) *StepExecutor {
	if runners == nil {
		runners = DefaultRegistry(false)
	}
	return &StepExecutor{generator: generator, runners: runners}
}

// Execute runs step, stores the produced value under step.OutputVar when it
// is set, and returns the produced value
func (e *StepExecutor) Execute(ctx context.Context, step *skills.Step, vars *Context) (string, error) {
	var (
		out string
		err error
	)

	switch step.Type {
	case skills.StepTypeCommand:
		out, err = e.executeCommand(ctx, step)
	case skills.StepTypeLLM:
		out, err = e.executeLLM(ctx, step, vars)
	case skills.StepTypeOutput:
		if !step.Has("template") {
			return "", missingField(step, "output step missing template")
		}
		out = templating.Render(step.Template, vars.Vars())
	default:
		return "", missingField(step, "unknown step type "+string(step.Type))
	}
	if err != nil {
		return "", err
	}

	if step.OutputVar != "" {
		vars.Set(step.OutputVar, out)
	}
	return out, nil
}

func (e *StepExecutor) executeCommand(ctx context.Context, step *skills.Step) (string, error) {
	if !step.Has("runner") {
		return "", missingField(step, "command step missing runner")
	}
	if !step.Has("cmd") {
		return "", missingField(step, "command step missing cmd")
	}

	runner, ok := e.runners.Lookup(step.Runner)
	if !ok {
		return "", &ExecutionError{
			StepID: step.ID,
			Kind:   ErrorUnsupportedRunner,
			Msg:    "unsupported runner: " + step.Runner,
		}
	}

	logger.G(ctx).WithField("runner", step.Runner).Debug("running command")
	stdout, err := runner.Run(ctx, step.Cmd)
	if err != nil {
		return "", &ExecutionError{StepID: step.ID, Kind: ErrorCommand, Msg: "command could not be run", Err: err}
	}

	return strings.ToValidUTF8(string(stdout), "�"), nil
}

func (e *StepExecutor) executeLLM(ctx context.Context, step *skills.Step, vars *Context) (string, error) {
	if !step.Has("model") {
		return "", missingField(step, "llm step missing model")
	}
	if !step.Has("prompt") {
		return "", missingField(step, "llm step missing prompt")
	}
	if e.generator == nil {
		return "", &ExecutionError{StepID: step.ID, Kind: ErrorGeneration, Msg: "no generator configured"}
	}

	prompt := templating.Render(step.Prompt, vars.Vars())
	logger.G(ctx).WithField("model", step.Model).Debug("calling generator")

	resp, err := e.generator.Generate(ctx, step.Model, prompt)
	if err != nil {
		return "", &ExecutionError{StepID: step.ID, Kind: ErrorGeneration, Msg: "generation failed", Err: err}
	}
	return resp, nil
}

func missingField(step *skills.Step, msg string) *ExecutionError {
	return &ExecutionError{StepID: step.ID, Kind: ErrorMissingField, Msg: msg}
}
