// Package interpreter answers requests against a validated skill set: it
// picks a skill, runs its workflow, and records the outcome in run history.
package interpreter

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/jingkaihe/genai/pkg/history"
	"github.com/jingkaihe/genai/pkg/logger"
	"github.com/jingkaihe/genai/pkg/skills"
	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
	"github.com/jingkaihe/genai/pkg/workflow"
)

// Interpreter is safe for concurrent use once constructed
type Interpreter struct {
	skills       []*skills.Skill
	selector     *skills.Selector
	executor     *workflow.Executor
	recorder     *history.Recorder
	provider     string
	debug        bool
	executorOpts []workflow.ExecutorOption
}

// Option configures an Interpreter
type Option func(*Interpreter)

// WithRecorder records every run through recorder
func WithRecorder(recorder *history.Recorder) Option {
	return func(i *Interpreter) {
		i.recorder = recorder
	}
}

// WithProvider names the generation backend in run records
func WithProvider(provider string) Option {
	return func(i *Interpreter) {
		i.provider = provider
	}
}

// WithDebug seeds the debug variable of every run with true
func WithDebug(debug bool) Option {
	return func(i *Interpreter) {
		i.debug = debug
	}
}

// WithExecutorOptions passes opts to the workflow executor
func WithExecutorOptions(opts ...workflow.ExecutorOption) Option {
	return func(i *Interpreter) {
		i.executorOpts = append(i.executorOpts, opts...)
	}
}

// New creates an Interpreter over skillSet, which must already be
// validated. generator serves both skill selection and llm steps.
func New(skillSet []*skills.Skill, generator llmtypes.Generator, opts ...Option) *Interpreter {
	i := &Interpreter{
		skills:   skillSet,
		selector: skills.NewSelector(generator),
	}
	for _, opt := range opts {
		opt(i)
	}
	i.executor = workflow.NewExecutor(generator, i.executorOpts...)
	return i
}

// Skills returns the skill set
func (i *Interpreter) Skills() []*skills.Skill {
	return i.skills
}

// Skill returns the skill called name, or nil
func (i *Interpreter) Skill(name string) *skills.Skill {
	return skills.FindByName(i.skills, name)
}

// Provider returns the generation backend name
func (i *Interpreter) Provider() string {
	return i.provider
}

// Request is one user request. When Skill is set that skill is run
// directly; otherwise one is selected for Prompt.
type Request struct {
	Prompt string `json:"prompt"`
	Skill  string `json:"skill,omitempty"`
}

// Outcome describes a finished run
type Outcome struct {
	RunID    string                 `json:"run_id"`
	Skill    string                 `json:"skill"`
	Method   skills.SelectionMethod `json:"selection_method"`
	Output   string                 `json:"output"`
	Executed []string               `json:"executed"`
	Skipped  []string               `json:"skipped"`
	Duration time.Duration          `json:"duration"`
}

// Run answers req. The run is recorded whether it succeeds or fails; a
// failure to record never fails the run.
func (i *Interpreter) Run(ctx context.Context, req Request) (outcome *Outcome, err error) {
	run := history.NewRun(req.Prompt)
	run.Provider = i.provider
	ctx = logger.WithFields(ctx, logrus.Fields{"run_id": run.ID})

	defer func() {
		run.FinishedAt = time.Now().UTC()
		if err != nil {
			run.Error = err.Error()
			run.ErrorKind = ErrorKind(err)
		}
		i.recorder.Record(ctx, run)
		if outcome != nil {
			outcome.Duration = run.Duration()
		}
	}()

	selection, err := i.choose(ctx, req)
	if err != nil {
		return nil, err
	}
	run.Skill = selection.Skill.Name()
	run.SelectionMethod = string(selection.Method)

	logger.G(ctx).WithFields(logrus.Fields{
		"skill":  run.Skill,
		"method": run.SelectionMethod,
	}).Debug("running skill")

	res, err := i.executor.Execute(ctx, selection.Skill, workflow.Input{UserInput: req.Prompt, Debug: i.debug})
	if err != nil {
		return nil, err
	}
	run.Output = res.Output
	run.StepsExecuted = len(res.Executed)

	return &Outcome{
		RunID:    run.ID,
		Skill:    run.Skill,
		Method:   selection.Method,
		Output:   res.Output,
		Executed: res.Executed,
		Skipped:  res.Skipped,
	}, nil
}

func (i *Interpreter) choose(ctx context.Context, req Request) (*skills.Selection, error) {
	if req.Skill == "" {
		return i.selector.Select(ctx, req.Prompt, i.skills)
	}

	skill := i.Skill(req.Skill)
	if skill == nil {
		return nil, &skills.SelectionError{Msg: "skill not found: " + req.Skill}
	}
	return &skills.Selection{Skill: skill, Method: skills.SelectionByName}, nil
}

// ErrorKind classifies err for run records and API responses
func ErrorKind(err error) string {
	var (
		execErr       *workflow.ExecutionError
		selectionErr  *skills.SelectionError
		validationErr *skills.ValidationError
		parseErr      *skills.ParseError
	)

	switch {
	case err == nil:
		return ""
	case errors.As(err, &execErr):
		return string(execErr.Kind)
	case errors.As(err, &selectionErr):
		return "selection"
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &parseErr):
		return "parse"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}
