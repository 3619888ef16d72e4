// Package config loads genai settings from flags, GENAI_* environment
// variables, config.yaml, and .env files through viper.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/jingkaihe/genai/pkg/db"
	"github.com/jingkaihe/genai/pkg/telemetry"
	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

// EnvPrefix prefixes every environment variable viper reads automatically
const EnvPrefix = "GENAI"

// Config is the fully resolved runtime configuration
type Config struct {
	SkillsDir string `mapstructure:"skills_dir"`
	Debug     bool   `mapstructure:"debug"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	LLM     llmtypes.Config `mapstructure:",squash"`
	APIKey  string          `mapstructure:"api_key"`  // overrides the active provider's key
	BaseURL string          `mapstructure:"base_url"` // overrides the active provider's base URL

	Runners    RunnersConfig    `mapstructure:"runners"`
	Conditions ConditionsConfig `mapstructure:"conditions"`
	Skills     SkillsConfig     `mapstructure:"skills"`
	History    HistoryConfig    `mapstructure:"history"`
	Tracing    telemetry.Config `mapstructure:"tracing"`
	Serve      ServeConfig      `mapstructure:"serve"`

	Profile  string                    `mapstructure:"profile"`
	Profiles map[string]map[string]any `mapstructure:"profiles"`
}

// RunnersConfig controls which command runners are registered
type RunnersConfig struct {
	PosixShell bool `mapstructure:"posix_shell"`
}

// ConditionsConfig controls step guard evaluation
type ConditionsConfig struct {
	Strict bool `mapstructure:"strict"`
}

// SkillsConfig restricts which discovered skills are loaded
type SkillsConfig struct {
	Allowed []string `mapstructure:"allowed"`
}

// HistoryConfig controls the run history database
type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// ServeConfig holds the HTTP API listen address and the browser origins
// allowed to call it
type ServeConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// envAliases maps config keys to the extra environment variables that may
// set them, in precedence order
var envAliases = map[string][]string{
	"google.api_key":    {"GEMINI_API_KEY"},
	"google.model":      {"GEMINI_MODEL"},
	"google.base_url":   {"GEMINI_BASE_URL"},
	"openai.api_key":    {"OPENAI_API_KEY"},
	"openai.base_url":   {"OPENAI_BASE_URL"},
	"anthropic.api_key": {"ANTHROPIC_API_KEY"},
}

// Setup configures v with the genai defaults, environment bindings, and
// config file search path, then reads config.yaml if one exists
func Setup(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	for key, aliases := range envAliases {
		names := append([]string{EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return errors.Wrapf(err, "failed to bind environment for %s", key)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.genai")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.Wrap(err, "failed to read config file")
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("skills_dir", "")
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "fmt")

	v.SetDefault("provider", "")
	v.SetDefault("model", "")
	v.SetDefault("real_llm", false)
	v.SetDefault("timeout", llmtypes.DefaultTimeout)
	v.SetDefault("max_tokens", llmtypes.DefaultMaxTokens)
	v.SetDefault("api_key", "")
	v.SetDefault("base_url", "")
	v.SetDefault("google.model", llmtypes.DefaultGoogleModel)
	v.SetDefault("google.base_url", llmtypes.DefaultGoogleURL)

	v.SetDefault("retry.attempts", llmtypes.DefaultRetryConfig.Attempts)
	v.SetDefault("retry.initial_delay", llmtypes.DefaultRetryConfig.InitialDelay)
	v.SetDefault("retry.max_delay", llmtypes.DefaultRetryConfig.MaxDelay)
	v.SetDefault("retry.backoff_type", llmtypes.DefaultRetryConfig.BackoffType)

	v.SetDefault("runners.posix_shell", false)
	v.SetDefault("conditions.strict", false)
	v.SetDefault("skills.allowed", []string{})

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", DefaultHistoryPath())

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.sampler", "always")
	v.SetDefault("tracing.ratio", 1.0)

	v.SetDefault("serve.host", "localhost")
	v.SetDefault("serve.port", 8080)
	v.SetDefault("serve.allowed_origins", []string{})

	v.SetDefault("profile", "")
}

// DefaultHistoryPath is the history database used when history.path is unset
func DefaultHistoryPath() string {
	path, err := db.DefaultDBPath()
	if err != nil {
		return filepath.Join(".genai", "history.db")
	}
	return path
}

// Load unmarshals v into a Config and applies the active profile on top
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal configuration")
	}

	if err := cfg.applyProfile(); err != nil {
		return nil, err
	}

	if cfg.LLM.Retry.Attempts == 0 {
		cfg.LLM.Retry = llmtypes.DefaultRetryConfig
	}
	if cfg.LLM.Timeout <= 0 {
		cfg.LLM.Timeout = llmtypes.DefaultTimeout
	}
	cfg.applyProviderOverrides()

	return &cfg, nil
}

func (c *Config) applyProfile() error {
	name := c.Profile
	if name == "" || name == "default" {
		return nil
	}

	profile, ok := c.Profiles[name]
	if !ok {
		return errors.Errorf("profile %q not found", name)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		WeaklyTypedInput: true,
		ZeroFields:       false,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create profile decoder")
	}
	if err := decoder.Decode(profile); err != nil {
		return errors.Wrapf(err, "failed to apply profile %q", name)
	}
	return nil
}

// applyProviderOverrides copies the top-level api_key and base_url onto the
// explicitly selected provider, or onto Gemini when none is selected
func (c *Config) applyProviderOverrides() {
	if c.APIKey == "" && c.BaseURL == "" {
		return
	}

	var apiKey, baseURL *string
	switch c.LLM.Provider {
	case llmtypes.ProviderOpenAI:
		apiKey, baseURL = &c.LLM.OpenAI.APIKey, &c.LLM.OpenAI.BaseURL
	case llmtypes.ProviderAnthropic:
		apiKey, baseURL = &c.LLM.Anthropic.APIKey, &c.LLM.Anthropic.BaseURL
	case llmtypes.ProviderMock:
		return
	default:
		apiKey, baseURL = &c.LLM.Google.APIKey, &c.LLM.Google.BaseURL
	}

	if c.APIKey != "" {
		*apiKey = c.APIKey
	}
	if c.BaseURL != "" {
		*baseURL = c.BaseURL
	}
}

// ResolveSkillsDir returns the skills root. configured is the value of the
// skills_dir key, which already reflects --skills-dir and GENAI_SKILLS_DIR.
// Without it ~/GenAI/skills is used when that directory exists.
func ResolveSkillsDir(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "HOME env not set")
	}

	dir := filepath.Join(home, "GenAI", "skills")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir, nil
	}

	return "", errors.Errorf("skills directory not provided; use --skills-dir, set GENAI_SKILLS_DIR, or create %s", dir)
}
