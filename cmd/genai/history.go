package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/genai/pkg/config"
	"github.com/jingkaihe/genai/pkg/history"
	"github.com/jingkaihe/genai/pkg/presenter"
)

// HistoryListConfig holds configuration for the history list command
type HistoryListConfig struct {
	Skill  string
	Limit  int
	Offset int
	JSON   bool
}

// NewHistoryListConfig creates a HistoryListConfig with default values
func NewHistoryListConfig() *HistoryListConfig {
	return &HistoryListConfig{Limit: 20}
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded skill runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		hc := NewHistoryListConfig()
		hc.Skill, _ = cmd.Flags().GetString("skill")
		hc.Limit, _ = cmd.Flags().GetInt("limit")
		hc.Offset, _ = cmd.Flags().GetInt("offset")
		hc.JSON, _ = cmd.Flags().GetBool("json")

		if err := listHistory(cmd.Context(), cfg, hc, os.Stdout); err != nil {
			presenter.Error(err, "failed to list runs")
			os.Exit(1)
		}
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show a recorded run including its output",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")
		if err := showHistory(cmd.Context(), cfg, args[0], asJSON, os.Stdout); err != nil {
			presenter.Error(err, "failed to show run")
			os.Exit(1)
		}
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded run",
	Long: `Delete every recorded run by rolling back the history database schema and
recreating it. Asks for confirmation unless --yes is given.`,
	Run: func(cmd *cobra.Command, _ []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmed(presenter.Prompt("Delete all recorded runs?", "y", "N")) {
			presenter.Info("Nothing deleted")
			return
		}

		removed, err := clearHistory(cmd.Context(), cfg)
		if err != nil {
			presenter.Error(err, "failed to clear run history")
			os.Exit(1)
		}
		presenter.Success(fmt.Sprintf("Deleted %d run(s)", removed))
	},
}

func init() {
	defaults := NewHistoryListConfig()
	historyListCmd.Flags().String("skill", "", "Only show runs of this skill")
	historyListCmd.Flags().Int("limit", defaults.Limit, "Maximum number of runs to show")
	historyListCmd.Flags().Int("offset", 0, "Number of runs to skip")
	historyListCmd.Flags().Bool("json", false, "Output runs as JSON")
	historyShowCmd.Flags().Bool("json", false, "Output the run as JSON")
	historyClearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	historyCmd.AddCommand(withTracing(historyListCmd), withTracing(historyShowCmd), withTracing(historyClearCmd))
}

func openHistoryStrict(ctx context.Context, c *config.Config) (*history.Store, error) {
	if !c.History.Enabled {
		return nil, errors.New("run history is disabled")
	}
	return history.Open(ctx, c.History.Path)
}

func listHistory(ctx context.Context, c *config.Config, hc *HistoryListConfig, out io.Writer) error {
	store, err := openHistoryStrict(ctx, c)
	if err != nil {
		return err
	}
	defer closeHistory(ctx, store)

	result, err := store.List(ctx, history.QueryOptions{Skill: hc.Skill, Limit: hc.Limit, Offset: hc.Offset})
	if err != nil {
		return err
	}

	if hc.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	rows := make([][]string, 0, len(result.Runs))
	for _, run := range result.Runs {
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			orDash(run.Skill),
			orDash(run.SelectionMethod),
			runStatus(&run),
			run.Duration().Round(time.Millisecond).String(),
		})
	}
	presenter.NewWithOptions(out, os.Stderr, presenter.ColorNever).
		Table([]string{"ID", "STARTED", "SKILL", "METHOD", "STATUS", "DURATION"}, rows)
	fmt.Fprintf(out, "\nShowing %d of %d run(s)\n", len(result.Runs), result.Total)
	return nil
}

func showHistory(ctx context.Context, c *config.Config, id string, asJSON bool, out io.Writer) error {
	store, err := openHistoryStrict(ctx, c)
	if err != nil {
		return err
	}
	defer closeHistory(ctx, store)

	run, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}

	fmt.Fprintf(out, "ID:       %s\n", run.ID)
	fmt.Fprintf(out, "Skill:    %s\n", orDash(run.Skill))
	fmt.Fprintf(out, "Method:   %s\n", orDash(run.SelectionMethod))
	fmt.Fprintf(out, "Provider: %s\n", orDash(run.Provider))
	fmt.Fprintf(out, "Status:   %s\n", runStatus(run))
	fmt.Fprintf(out, "Started:  %s\n", run.StartedAt.Local().Format(time.DateTime))
	fmt.Fprintf(out, "Duration: %s\n", run.Duration().Round(time.Millisecond))
	fmt.Fprintf(out, "Steps:    %d\n", run.StepsExecuted)
	fmt.Fprintf(out, "\nInput:\n%s\n", run.Input)
	if run.Succeeded() {
		fmt.Fprintf(out, "\nOutput:\n%s\n", run.Output)
	} else {
		fmt.Fprintf(out, "\nError:\n%s\n", run.Error)
	}
	return nil
}

func clearHistory(ctx context.Context, c *config.Config) (int, error) {
	store, err := openHistoryStrict(ctx, c)
	if err != nil {
		return 0, err
	}
	defer closeHistory(ctx, store)

	return store.Clear(ctx)
}

func confirmed(answer string) bool {
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	}
	return false
}

func runStatus(run *history.Run) string {
	if run.Succeeded() {
		return "ok"
	}
	if run.ErrorKind != "" {
		return "failed (" + run.ErrorKind + ")"
	}
	return "failed"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
