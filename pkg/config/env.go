package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/jingkaihe/genai/pkg/logger"
)

// EnvFileVar names an extra .env file to load after the default ones
const EnvFileVar = "GENAI_ENV_FILE"

// DefaultEnvFiles lists the .env files read at startup in precedence order:
// ./.env, ~/GenAI/.env, then $GENAI_ENV_FILE
func DefaultEnvFiles() []string {
	files := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, "GenAI", ".env"))
	}
	if extra := os.Getenv(EnvFileVar); extra != "" {
		files = append(files, extra)
	}
	return files
}

// LoadEnvFiles exports the variables of each existing file into the process
// environment. Variables that are already set are never overwritten, so the
// real environment wins over every file and earlier files win over later
// ones. Missing files are skipped, and so are files that cannot be parsed,
// with a warning. The paths actually loaded are returned.
func LoadEnvFiles(ctx context.Context, paths ...string) []string {
	var loaded []string

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}

		log := logger.G(ctx).WithField("path", path)
		env := viper.New()
		env.SetConfigFile(path)
		env.SetConfigType("env")
		if err := env.ReadInConfig(); err != nil {
			log.WithError(err).Warn("skipping unreadable env file")
			continue
		}

		for _, key := range env.AllKeys() {
			name := strings.ToUpper(key)
			if _, exists := os.LookupEnv(name); exists {
				continue
			}
			if err := os.Setenv(name, env.GetString(key)); err != nil {
				log.WithError(err).WithField("name", name).Warn("failed to export env variable")
			}
		}
		loaded = append(loaded, path)
	}

	return loaded
}
