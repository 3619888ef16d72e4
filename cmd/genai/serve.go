package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jingkaihe/genai/pkg/config"
	"github.com/jingkaihe/genai/pkg/logger"
	"github.com/jingkaihe/genai/pkg/presenter"
	"github.com/jingkaihe/genai/pkg/webui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve skills and run history over an HTTP JSON API",
	Long: `Start an HTTP server exposing the loaded skills, skill runs and the run
history as a JSON API.

The server will be available at http://localhost:8080 by default.`,
	Run: func(cmd *cobra.Command, _ []string) {
		runServeCommand(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().String("host", "localhost", "Host to bind the server to")
	serveCmd.Flags().Int("port", 8080, "Port to bind the server to")
	serveCmd.Flags().StringSlice("allowed-origins", nil, "Browser origins allowed to call the API (none by default)")

	_ = viper.BindPFlag("serve.host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("serve.port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("serve.allowed_origins", serveCmd.Flags().Lookup("allowed-origins"))
}

// validateServeConfig validates the serve configuration
func validateServeConfig(sc *config.ServeConfig) error {
	if sc.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}

	if sc.Host != "localhost" && sc.Host != "0.0.0.0" {
		if ip := net.ParseIP(sc.Host); ip == nil {
			if strings.Contains(sc.Host, " ") || strings.Contains(sc.Host, ":") {
				return fmt.Errorf("invalid host: %s", sc.Host)
			}
		}
	}

	if sc.Port < 1 || sc.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", sc.Port)
	}

	if sc.Port < 1024 {
		logger.G(context.Background()).WithField("port", sc.Port).Warn("using privileged port (< 1024) may require elevated permissions")
	}

	return nil
}

// runServeCommand loads the skills and serves them until ctx is cancelled
func runServeCommand(ctx context.Context, c *config.Config) {
	if err := validateServeConfig(&c.Serve); err != nil {
		presenter.Error(err, "invalid server configuration")
		os.Exit(1)
	}

	skillSet, dir, err := loadSkills(ctx, c)
	if err != nil {
		presenter.Error(err, "failed to load skills")
		os.Exit(1)
	}

	store := openHistory(ctx, c)
	defer closeHistory(ctx, store)

	interp := newInterpreter(ctx, c, skillSet, store)

	server, err := webui.NewServer(&webui.ServerConfig{
		Host:           c.Serve.Host,
		Port:           c.Serve.Port,
		AllowedOrigins: c.Serve.AllowedOrigins,
	}, interp, store)
	if err != nil {
		presenter.Error(err, "failed to create server")
		os.Exit(1)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			logger.G(ctx).WithError(closeErr).Error("failed to close server")
		}
	}()

	logger.G(ctx).WithField("host", c.Serve.Host).
		WithField("port", c.Serve.Port).
		WithField("skills_dir", dir).
		WithField("skills", len(skillSet)).
		Info("starting server")

	presenter.Success(fmt.Sprintf("Serving %d skill(s) on http://%s:%d", len(skillSet), c.Serve.Host, c.Serve.Port))
	presenter.Info("Press Ctrl+C to stop the server")

	if err := server.Start(ctx); err != nil {
		logger.G(ctx).WithError(err).Error("server error")
		presenter.Error(err, "server failed")
		os.Exit(1)
	}

	presenter.Info("Server stopped")
}
