package llm

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// ErrNotConfigured is returned when no provider is selected and no API key
// can be discovered. The tutor is optional, so callers treat this as
// "feature off" rather than a failure.
var ErrNotConfigured = errors.New("no LLM provider configured")

// Config selects and configures a provider.
type Config struct {
	Provider string

	Anthropic  AnthropicConfig
	OpenAI     OpenAIConfig
	Gemini     GeminiConfig
	OpenRouter OpenRouterConfig
	Retry      RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// RetryConfig controls WithRetry.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig has every provider on its cheapest sensible model and no
// provider selected.
func DefaultConfig() Config {
	return Config{
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		OpenAI:     OpenAIConfig{Model: "gpt-mini"},
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenRouter: OpenRouterConfig{Model: "google/gemini-2.5-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// envSetting binds one environment variable to a Config field.
type envSetting struct {
	name string
	set  func(*Config, string)
}

var envSettings = []envSetting{
	{"PYMASTER_LLM_PROVIDER", func(c *Config, v string) { c.Provider = v }},
	{"PYMASTER_ANTHROPIC_API_KEY", func(c *Config, v string) { c.Anthropic.APIKey = v }},
	{"PYMASTER_ANTHROPIC_MODEL", func(c *Config, v string) { c.Anthropic.Model = v }},
	{"PYMASTER_OPENAI_API_KEY", func(c *Config, v string) { c.OpenAI.APIKey = v }},
	{"PYMASTER_OPENAI_MODEL", func(c *Config, v string) { c.OpenAI.Model = v }},
	{"PYMASTER_OPENAI_BASE_URL", func(c *Config, v string) { c.OpenAI.BaseURL = v }},
	{"PYMASTER_GEMINI_API_KEY", func(c *Config, v string) { c.Gemini.APIKey = v }},
	{"PYMASTER_GEMINI_MODEL", func(c *Config, v string) { c.Gemini.Model = v }},
	{"PYMASTER_OPENROUTER_API_KEY", func(c *Config, v string) { c.OpenRouter.APIKey = v }},
	{"PYMASTER_OPENROUTER_MODEL", func(c *Config, v string) { c.OpenRouter.Model = v }},
	{"PYMASTER_LLM_TIMEOUT", func(c *Config, v string) {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.Timeout = d
		}
	}},
}

// ConfigFromEnv overlays PYMASTER_* variables on DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	for _, s := range envSettings {
		if v := os.Getenv(s.name); v != "" {
			s.set(&cfg, v)
		}
	}
	return cfg
}

// discoveryOrder lists the vendor-standard key variables probed when no
// provider is selected explicitly.
var discoveryOrder = []struct {
	env      string
	provider string
	set      func(*Config, string)
}{
	{"ANTHROPIC_API_KEY", ProviderAnthropic, func(c *Config, k string) { c.Anthropic.APIKey = k }},
	{"OPENAI_API_KEY", ProviderOpenAI, func(c *Config, k string) { c.OpenAI.APIKey = k }},
	{"GEMINI_API_KEY", ProviderGemini, func(c *Config, k string) { c.Gemini.APIKey = k }},
	{"OPENROUTER_API_KEY", ProviderOpenRouter, func(c *Config, k string) { c.OpenRouter.APIKey = k }},
}

// DiscoverConfig picks the first provider whose standard API key variable
// is set. It reports false when none is.
func DiscoverConfig() (Config, bool) {
	cfg := ConfigFromEnv()
	for _, d := range discoveryOrder {
		if k := os.Getenv(d.env); k != "" {
			cfg.Provider = d.provider
			d.set(&cfg, k)
			return cfg, true
		}
	}
	return Config{}, false
}

// ResolveConfig prefers an explicit PYMASTER_LLM_PROVIDER and falls back to
// discovery. It returns ErrNotConfigured when neither yields a provider.
func ResolveConfig() (Config, error) {
	cfg := ConfigFromEnv()
	if cfg.Provider != "" {
		return cfg, cfg.Validate()
	}
	if cfg, ok := DiscoverConfig(); ok {
		return cfg, nil
	}
	return Config{}, ErrNotConfigured
}

// Validate checks the selected provider has what it needs.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "PYMASTER_ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "PYMASTER_OPENAI_API_KEY"
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "PYMASTER_GEMINI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "PYMASTER_OPENROUTER_API_KEY"
	case ProviderMock:
		return nil
	case "":
		return ErrNotConfigured
	default:
		return fmt.Errorf("unknown LLM provider %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
