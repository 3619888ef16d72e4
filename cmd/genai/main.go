package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/genai/pkg/config"
	"github.com/jingkaihe/genai/pkg/logger"
	"github.com/jingkaihe/genai/pkg/presenter"
)

var (
	// cfg is resolved once per invocation before any command runs
	cfg *config.Config

	loadedEnvFiles []string

	tracingShutdown = func(context.Context) error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "genai",
	Short: "Run markdown skills as LLM and shell workflows",
	Long: `genai interprets skills: SKILL.md documents whose frontmatter describes the
skill and whose genai-step blocks form a workflow of LLM and command steps.
A prompt is matched to the best skill, which is then executed step by step.

Running genai with a bare prompt is the same as "genai run <prompt>".`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup(cmd.Context())
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		if err := tracingShutdown(cmd.Context()); err != nil {
			logger.G(cmd.Context()).WithError(err).Warn("failed to shut down tracing")
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		runCmd.Run(cmd, args)
	},
}

// setup loads the configuration and configures logging and tracing from it
func setup(ctx context.Context) error {
	loaded, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	if err := logger.SetLogLevel(level); err != nil {
		return err
	}
	if err := logger.SetLogFormat(cfg.LogFormat); err != nil {
		return err
	}
	if len(loadedEnvFiles) > 0 {
		logger.G(ctx).WithField("files", loadedEnvFiles).Debug("loaded environment files")
	}

	shutdown, err := initTracing(ctx, cfg.Tracing)
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to initialize tracing")
		return nil
	}
	tracingShutdown = shutdown
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("skills-dir", "", "Directory containing skills (default $HOME/GenAI/skills)")
	flags.Bool("debug", false, "Enable debug logging and expose debug mode to steps")
	flags.Bool("real-llm", false, "Use a live LLM backend even without an API key in the environment")
	flags.String("provider", "", "LLM provider to use (google, openai, anthropic or mock)")
	flags.String("model", "", "Default model for steps and skill selection")
	flags.String("profile", "", "Named configuration profile to apply")
	flags.String("log-level", "info", "Log level (panic, fatal, error, warn, info, debug, trace)")
	flags.String("log-format", "fmt", "Log format (fmt or json)")
	flags.Bool("posix-shell", false, "Register the in-process POSIX shell runner")
	flags.Bool("strict-conditions", false, "Fail runs on step conditions that cannot be evaluated")

	bindings := map[string]string{
		"skills_dir":          "skills-dir",
		"debug":               "debug",
		"real_llm":            "real-llm",
		"provider":            "provider",
		"model":               "model",
		"profile":             "profile",
		"log_level":           "log-level",
		"log_format":          "log-format",
		"runners.posix_shell": "posix-shell",
		"conditions.strict":   "strict-conditions",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(
		withTracing(runCmd),
		withTracing(runSkillCmd),
		withTracing(listCmd),
		withTracing(showCmd),
		withTracing(validateCmd),
		schemaCmd,
		withTracing(newCmd),
		historyCmd,
		withTracing(serveCmd),
		versionCmd,
	)
}

func main() {
	loadedEnvFiles = config.LoadEnvFiles(context.Background(), config.DefaultEnvFiles()...)

	if err := config.Setup(viper.GetViper()); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading configuration: %s\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		presenter.Error(err, "genai failed")
		cancel()
		os.Exit(1)
	}
}
