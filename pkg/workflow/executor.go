// Package workflow executes validated skills: it evaluates step guards,
// dispatches each step to a runner, generator, or template, and threads the
// produced values through a per-run variable store.
package workflow

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jingkaihe/genai/pkg/logger"
	"github.com/jingkaihe/genai/pkg/skills"
	"github.com/jingkaihe/genai/pkg/telemetry"
	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

// Input carries the caller-supplied values seeded into every run
type Input struct {
	UserInput string
	Debug     bool
}

// Executor runs skill workflows. An Executor holds no per-run state and may
// be shared by concurrent runs as long as its generator and runners are
// safe for concurrent use.
type Executor struct {
	steps            *StepExecutor
	strictConditions bool
}

// ExecutorOption configures an Executor
type ExecutorOption func(*Executor)

// WithRunners sets the runner registry used by command steps
func WithRunners(runners *Registry) ExecutorOption {
	return func(e *Executor) {
		if runners != nil {
			e.steps.runners = runners
		}
	}
}

// WithStrictConditions makes a guard that matches none of the supported
// forms abort the run instead of skipping the step
func WithStrictConditions(strict bool) ExecutorOption {
	return func(e *Executor) {
		e.strictConditions = strict
	}
}

// NewExecutor creates an Executor calling generator for llm steps
func NewExecutor(generator llmtypes.Generator, opts ...ExecutorOption) *Executor {
	e := &Executor{steps: NewStepExecutor(generator, nil)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result describes a completed run
type Result struct {
	Output   string
	Executed []string // ids of the steps that ran, in order
	Skipped  []string // ids of the steps whose guard was false
}

// Run executes skill's steps in document order and returns the value produced
// by the last step that ran, or "" when every step was skipped. The first
// failing step aborts the run and no partial result is returned. skill must
// have passed skills.Validate.
func (e *Executor) Run(ctx context.Context, skill *skills.Skill, input Input) (string, error) {
	res, err := e.Execute(ctx, skill, input)
	if err != nil {
		return "", err
	}
	return res.Output, nil
}

// Execute is Run with the per-step bookkeeping kept
func (e *Executor) Execute(ctx context.Context, skill *skills.Skill, input Input) (*Result, error) {
	res := &Result{Executed: []string{}, Skipped: []string{}}

	err := telemetry.WithSpan(ctx, "workflow.run", func(ctx context.Context) error {
		ctx = logger.WithFields(ctx, logrus.Fields{"skill": skill.Name()})

		vars := NewContext()
		vars.Set(VarUserInput, input.UserInput)
		vars.Set(VarDebug, strconv.FormatBool(input.Debug))

		for i := range skill.Steps {
			step := &skill.Steps[i]
			if err := ctx.Err(); err != nil {
				return errors.Wrap(err, "run cancelled")
			}

			ran, out, err := e.runStep(ctx, step, vars)
			if err != nil {
				var execErr *ExecutionError
				if errors.As(err, &execErr) && execErr.Skill == "" {
					execErr.Skill = skill.Name()
				}
				return err
			}
			if !ran {
				res.Skipped = append(res.Skipped, step.ID)
				continue
			}
			res.Output = out
			res.Executed = append(res.Executed, step.ID)
		}

		telemetry.SetAttributes(ctx, attribute.Int("workflow.steps_executed", len(res.Executed)))
		logger.G(ctx).WithField("executed", len(res.Executed)).WithField("total", len(skill.Steps)).Debug("workflow finished")
		return nil
	}, attribute.String("skill.name", skill.Name()), attribute.Int("workflow.steps", len(skill.Steps)))
	if err != nil {
		return nil, err
	}

	return res, nil
}

func (e *Executor) runStep(ctx context.Context, step *skills.Step, vars *Context) (ran bool, out string, err error) {
	ctx = logger.WithFields(ctx, logrus.Fields{"step": step.ID, "type": string(step.Type)})
	log := logger.G(ctx)

	if step.HasCondition() {
		ok, cerr := ParseCondition(step.Condition(), vars)
		if cerr != nil && e.strictConditions {
			return false, "", &ExecutionError{StepID: step.ID, Kind: ErrorCondition, Msg: "cannot evaluate guard", Err: cerr}
		}
		if !ok {
			log.WithField("if", step.Condition()).Debug("skipping step")
			return false, "", nil
		}
	}

	err = telemetry.WithSpan(ctx, "workflow.step", func(ctx context.Context) error {
		log.Debug("executing step")
		var serr error
		out, serr = e.steps.Execute(ctx, step, vars)
		return serr
	}, attribute.String("step.id", step.ID), attribute.String("step.type", string(step.Type)))
	if err != nil {
		return false, "", err
	}

	return true, out, nil
}
