package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jingkaihe/genai/pkg/config"
	"github.com/jingkaihe/genai/pkg/interpreter"
	"github.com/jingkaihe/genai/pkg/presenter"
)

var runCmd = &cobra.Command{
	Use:   "run <prompt>",
	Short: "Select the best skill for a prompt and run it",
	Long: `Select the skill that best matches the prompt and execute its workflow.
The skill output is written to stdout; a run summary is written to stderr.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		applyQuiet(cmd)
		req := interpreter.Request{Prompt: strings.Join(args, " ")}
		if err := runRequest(cmd.Context(), cfg, req, os.Stdout); err != nil {
			presenter.Error(err, "run failed")
			os.Exit(1)
		}
	},
}

var runSkillCmd = &cobra.Command{
	Use:   "run-skill <skill> <prompt>",
	Short: "Run a named skill without selection",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		applyQuiet(cmd)
		req := interpreter.Request{Skill: args[0], Prompt: strings.Join(args[1:], " ")}
		if err := runRequest(cmd.Context(), cfg, req, os.Stdout); err != nil {
			presenter.Error(err, "run failed")
			os.Exit(1)
		}
	},
}

func init() {
	for _, cmd := range []*cobra.Command{runCmd, runSkillCmd} {
		cmd.Flags().BoolP("quiet", "q", false, "Suppress the run summary")
	}
}

func applyQuiet(cmd *cobra.Command) {
	if quiet, err := cmd.Flags().GetBool("quiet"); err == nil && quiet {
		presenter.SetQuiet(true)
	}
}

// runRequest loads the skills, runs req and writes the skill output to out
func runRequest(ctx context.Context, c *config.Config, req interpreter.Request, out io.Writer) error {
	skillSet, _, err := loadSkills(ctx, c)
	if err != nil {
		return err
	}

	store := openHistory(ctx, c)
	defer closeHistory(ctx, store)

	interp := newInterpreter(ctx, c, skillSet, store)
	outcome, err := interp.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, outcome.Output)

	runID := ""
	if store != nil {
		runID = outcome.RunID
	}
	presenter.Summary(&presenter.RunSummary{
		Skill:    outcome.Skill,
		Provider: interp.Provider(),
		RunID:    runID,
		Executed: len(outcome.Executed),
		Skipped:  len(outcome.Skipped),
		Duration: outcome.Duration,
	})
	return nil
}
