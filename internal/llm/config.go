package llm

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotConfigured is returned by Config.Validate when the selected provider
// has no credential.
var ErrNotConfigured = errors.New("LLM provider is not configured")

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "openai", "anthropic", "gemini", "openrouter", "mock".
	// Empty means "pick the first provider with a key".
	Provider string `mapstructure:"provider"`

	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Anthropic  AnthropicConfig  `mapstructure:"anthropic"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Mock       MockConfig       `mapstructure:"mock"`
	Retry      RetryConfig      `mapstructure:"retry"`

	// Timeout bounds a single evaluation request, including retries.
	Timeout time.Duration `mapstructure:"timeout"`
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `mapstructure:"base_url"` // Optional. Override for compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`    // Default: "claude-haiku"
	BaseURL string `mapstructure:"base_url"` // Optional. Override for gateways.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`    // Default: "gemini-flash"
	BaseURL string `mapstructure:"base_url"` // Optional. Override for proxies.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"` // Default: "https://openrouter.ai/api/v1"

	// AppName and SiteURL are sent as the X-Title and HTTP-Referer headers.
	AppName string `mapstructure:"app_name"`
	SiteURL string `mapstructure:"site_url"`
}

// MockConfig configures the offline "mock" provider.
type MockConfig struct {
	// Response is returned for every request.
	Response string `mapstructure:"response"`
}

// RetryConfig configures retry behavior for transient failures.
// MaxAttempts of 1 disables retries.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max_attempts"`
	InitialWait time.Duration `mapstructure:"initial_wait"`
	MaxWait     time.Duration `mapstructure:"max_wait"`
	Multiplier  float64       `mapstructure:"multiplier"`
}

// DefaultConfig returns a Config with sensible defaults. Evaluations are
// not retried unless configured otherwise.
func DefaultConfig() Config {
	return Config{
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model:   "openai/gpt-4o-mini",
			AppName: "engpractice",
		},
		Retry: RetryConfig{
			MaxAttempts: 1,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ResolveProvider returns the provider name to use. An explicit Provider
// wins; otherwise keys are probed in the order OpenAI, Anthropic, Gemini,
// OpenRouter, falling back to "openai" so that Validate reports the
// missing OpenAI key.
func (c Config) ResolveProvider() string {
	if c.Provider != "" {
		return c.Provider
	}
	switch {
	case c.OpenAI.APIKey != "":
		return "openai"
	case c.Anthropic.APIKey != "":
		return "anthropic"
	case c.Gemini.APIKey != "":
		return "gemini"
	case c.OpenRouter.APIKey != "":
		return "openrouter"
	}
	return "openai"
}

// MissingKeyError reports the environment variable that would configure the
// selected provider. It matches ErrNotConfigured.
type MissingKeyError struct {
	Provider string
	EnvVar   string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%v: %s is required for the %s provider", ErrNotConfigured, e.EnvVar, e.Provider)
}

func (e *MissingKeyError) Is(target error) bool { return target == ErrNotConfigured }

// providerKeyEnv names the key variable of each keyed provider.
var providerKeyEnv = map[string]string{
	"openai":     "OPENAI_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
	"gemini":     "GEMINI_API_KEY",
	"openrouter": "OPENROUTER_API_KEY",
}

// Validate checks that the selected provider has its required API key set.
// A missing key is a *MissingKeyError.
func (c Config) Validate() error {
	name := c.ResolveProvider()
	var key string
	switch name {
	case "openai":
		key = c.OpenAI.APIKey
	case "anthropic":
		key = c.Anthropic.APIKey
	case "gemini":
		key = c.Gemini.APIKey
	case "openrouter":
		key = c.OpenRouter.APIKey
	case "mock":
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return &MissingKeyError{Provider: name, EnvVar: providerKeyEnv[name]}
	}
	return nil
}
