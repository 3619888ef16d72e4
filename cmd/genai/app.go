package main

import (
	"context"

	"github.com/jingkaihe/genai/pkg/config"
	"github.com/jingkaihe/genai/pkg/history"
	"github.com/jingkaihe/genai/pkg/interpreter"
	"github.com/jingkaihe/genai/pkg/llm"
	"github.com/jingkaihe/genai/pkg/logger"
	"github.com/jingkaihe/genai/pkg/skills"
	"github.com/jingkaihe/genai/pkg/workflow"
)

// loadSkills resolves the skills directory and returns every allowed skill
// under it. Any invalid skill fails the whole load.
func loadSkills(ctx context.Context, c *config.Config) ([]*skills.Skill, string, error) {
	dir, err := config.ResolveSkillsDir(c.SkillsDir)
	if err != nil {
		return nil, "", err
	}

	skillSet, err := skills.Initialize(ctx, []string{dir}, c.Skills.Allowed)
	if err != nil {
		return nil, dir, err
	}
	return skillSet, dir, nil
}

// openHistory opens the run history database. A store that cannot be
// opened disables history for this invocation instead of failing it.
func openHistory(ctx context.Context, c *config.Config) *history.Store {
	if !c.History.Enabled {
		return nil
	}

	store, err := history.Open(ctx, c.History.Path)
	if err != nil {
		logger.G(ctx).WithError(err).WithField("path", c.History.Path).Warn("run history unavailable")
		return nil
	}
	return store
}

func closeHistory(ctx context.Context, store *history.Store) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logger.G(ctx).WithError(err).Warn("failed to close run history")
	}
}

// newInterpreter wires the configured LLM backend, runners and history
// into an interpreter over skillSet
func newInterpreter(ctx context.Context, c *config.Config, skillSet []*skills.Skill, store *history.Store) *interpreter.Interpreter {
	generator, provider := llm.NewGeneratorFromConfig(ctx, c.LLM)

	return interpreter.New(skillSet, generator,
		interpreter.WithProvider(provider),
		interpreter.WithRecorder(history.NewRecorder(store)),
		interpreter.WithDebug(c.Debug),
		interpreter.WithExecutorOptions(
			workflow.WithRunners(workflow.DefaultRegistry(c.Runners.PosixShell)),
			workflow.WithStrictConditions(c.Conditions.Strict),
		),
	)
}
