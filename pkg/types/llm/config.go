package llm

import "time"

// Provider names understood by the generator factory
const (
	ProviderGoogle    = "google"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// Config holds the configuration for the generation backends
type Config struct {
	Provider  string        `mapstructure:"provider"`
	Model     string        `mapstructure:"model"`    // Model is used when a step or the selector passes an empty model id
	RealLLM   bool          `mapstructure:"real_llm"` // RealLLM forces a live backend even without an API key in the environment
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxTokens int           `mapstructure:"max_tokens"`

	Google    GoogleConfig    `mapstructure:"google"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`

	Retry RetryConfig `mapstructure:"retry"`
}

// GoogleConfig holds Gemini API settings
type GoogleConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// OpenAIConfig holds OpenAI-compatible API settings
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// AnthropicConfig holds Anthropic API settings
type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RetryConfig controls how transient generation failures are retried.
// InitialDelay and MaxDelay are in milliseconds.
type RetryConfig struct {
	Attempts     int    `mapstructure:"attempts"`
	InitialDelay int    `mapstructure:"initial_delay"`
	MaxDelay     int    `mapstructure:"max_delay"`
	BackoffType  string `mapstructure:"backoff_type"` // "fixed" or "exponential"
}

// DefaultRetryConfig is applied when no retry attempts are configured
var DefaultRetryConfig = RetryConfig{
	Attempts:     3,
	InitialDelay: 1000,
	MaxDelay:     10000,
	BackoffType:  "exponential",
}

const (
	DefaultTimeout     = 30 * time.Second
	DefaultGoogleModel = "gemini-3-flash-preview"
	DefaultGoogleURL   = "https://generativelanguage.googleapis.com"
	DefaultMaxTokens   = 4096
)
