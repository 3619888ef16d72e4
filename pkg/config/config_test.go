package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmtypes "github.com/jingkaihe/genai/pkg/types/llm"
)

func newViper(t *testing.T, yamlConfig string) *viper.Viper {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)

	if yamlConfig != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlConfig), 0o644))
	}

	v := viper.New()
	require.NoError(t, Setup(v))
	return v
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(newViper(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.SkillsDir)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "fmt", cfg.LogFormat)
	assert.Equal(t, llmtypes.DefaultTimeout, cfg.LLM.Timeout)
	assert.Equal(t, llmtypes.DefaultMaxTokens, cfg.LLM.MaxTokens)
	assert.Equal(t, llmtypes.DefaultGoogleModel, cfg.LLM.Google.Model)
	assert.Equal(t, llmtypes.DefaultRetryConfig, cfg.LLM.Retry)
	assert.False(t, cfg.Runners.PosixShell)
	assert.False(t, cfg.Conditions.Strict)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, "localhost", cfg.Serve.Host)
	assert.Equal(t, 8080, cfg.Serve.Port)
	assert.Empty(t, cfg.Serve.AllowedOrigins)
	assert.Equal(t, "always", cfg.Tracing.SamplerType)
}

func TestLoad_ConfigFile(t *testing.T) {
	cfg, err := Load(newViper(t, `
skills_dir: /srv/skills
provider: openai
timeout: 5s
openai:
  model: gpt-4o-mini
runners:
  posix_shell: true
conditions:
  strict: true
skills:
  allowed: [auto-commit]
retry:
  attempts: 1
serve:
  allowed_origins: [http://localhost:3000]
`))
	require.NoError(t, err)

	assert.Equal(t, "/srv/skills", cfg.SkillsDir)
	assert.Equal(t, llmtypes.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.True(t, cfg.Runners.PosixShell)
	assert.True(t, cfg.Conditions.Strict)
	assert.Equal(t, []string{"auto-commit"}, cfg.Skills.Allowed)
	assert.Equal(t, 1, cfg.LLM.Retry.Attempts)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Serve.AllowedOrigins)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	v := newViper(t, "skills_dir: /from/file\n")
	t.Setenv("GENAI_SKILLS_DIR", "/from/env")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("GEMINI_MODEL", "gemini-test")
	t.Setenv("ANTHROPIC_API_KEY", "anthropic-key")
	t.Setenv("GENAI_CONDITIONS_STRICT", "true")

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.SkillsDir)
	assert.Equal(t, "gemini-key", cfg.LLM.Google.APIKey)
	assert.Equal(t, "gemini-test", cfg.LLM.Google.Model)
	assert.Equal(t, "anthropic-key", cfg.LLM.Anthropic.APIKey)
	assert.True(t, cfg.Conditions.Strict)
}

func TestLoad_PrefixedEnvWinsOverAlias(t *testing.T) {
	v := newViper(t, "")
	t.Setenv("GENAI_GOOGLE_API_KEY", "prefixed")
	t.Setenv("GEMINI_API_KEY", "alias")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "prefixed", cfg.LLM.Google.APIKey)
}

func TestLoad_Profile(t *testing.T) {
	config := `
provider: google
max_tokens: 1000
profile: cheap
profiles:
  cheap:
    provider: openai
    timeout: 10s
    openai:
      model: gpt-4o-mini
    conditions:
      strict: "true"
`
	cfg, err := Load(newViper(t, config))
	require.NoError(t, err)

	assert.Equal(t, llmtypes.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, 10*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 1000, cfg.LLM.MaxTokens)
	assert.True(t, cfg.Conditions.Strict)
}

func TestLoad_DefaultProfileIsIgnored(t *testing.T) {
	cfg, err := Load(newViper(t, "provider: google\nprofile: default\n"))
	require.NoError(t, err)
	assert.Equal(t, llmtypes.ProviderGoogle, cfg.LLM.Provider)
}

func TestLoad_UnknownProfile(t *testing.T) {
	_, err := Load(newViper(t, "profile: missing\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `profile "missing" not found`)
}

func TestLoad_ProviderOverrides(t *testing.T) {
	tests := []struct {
		name   string
		config string
		check  func(t *testing.T, cfg *Config)
	}{
		{
			name:   "defaults to google",
			config: "api_key: k\nbase_url: http://localhost:9999\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "k", cfg.LLM.Google.APIKey)
				assert.Equal(t, "http://localhost:9999", cfg.LLM.Google.BaseURL)
			},
		},
		{
			name:   "openai",
			config: "provider: openai\napi_key: k\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "k", cfg.LLM.OpenAI.APIKey)
				assert.Empty(t, cfg.LLM.Google.APIKey)
			},
		},
		{
			name:   "anthropic keeps base url when unset",
			config: "provider: anthropic\napi_key: k\nanthropic:\n  base_url: http://proxy\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "k", cfg.LLM.Anthropic.APIKey)
				assert.Equal(t, "http://proxy", cfg.LLM.Anthropic.BaseURL)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(newViper(t, tt.config))
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestSetup_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("provider: [unterminated"), 0o644))

	err := Setup(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestResolveSkillsDir(t *testing.T) {
	t.Run("configured value wins", func(t *testing.T) {
		dir, err := ResolveSkillsDir("/explicit")
		require.NoError(t, err)
		assert.Equal(t, "/explicit", dir)
	})

	t.Run("falls back to home skills dir", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		want := filepath.Join(home, "GenAI", "skills")
		require.NoError(t, os.MkdirAll(want, 0o755))

		dir, err := ResolveSkillsDir("")
		require.NoError(t, err)
		assert.Equal(t, want, dir)
	})

	t.Run("errors without any source", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		_, err := ResolveSkillsDir("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "skills directory not provided")
	})
}
