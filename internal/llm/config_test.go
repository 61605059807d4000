package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearLLMEnv blanks every variable the package reads.
func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, s := range envSettings {
		t.Setenv(s.name, "")
	}
	for _, d := range discoveryOrder {
		t.Setenv(d.env, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("PYMASTER_LLM_PROVIDER", "openai")
	t.Setenv("PYMASTER_OPENAI_API_KEY", "sk-1")
	t.Setenv("PYMASTER_OPENAI_MODEL", "gpt-4.1-mini")
	t.Setenv("PYMASTER_LLM_TIMEOUT", "10s")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-1", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4.1-mini", cfg.OpenAI.Model)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, "claude-haiku", cfg.Anthropic.Model)
	assert.NoError(t, cfg.Validate())
}

func TestConfigFromEnv_IgnoresBadTimeout(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("PYMASTER_LLM_TIMEOUT", "soon")
	assert.Equal(t, DefaultConfig().Timeout, ConfigFromEnv().Timeout)
}

func TestDiscoverConfig(t *testing.T) {
	clearLLMEnv(t)
	_, ok := DiscoverConfig()
	assert.False(t, ok)

	t.Setenv("GEMINI_API_KEY", "g")
	t.Setenv("OPENAI_API_KEY", "o")
	cfg, ok := DiscoverConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, cfg.Provider, "openai is probed before gemini")
	assert.Equal(t, "o", cfg.OpenAI.APIKey)
}

func TestResolveConfig(t *testing.T) {
	t.Run("nothing configured", func(t *testing.T) {
		clearLLMEnv(t)
		_, err := ResolveConfig()
		assert.ErrorIs(t, err, ErrNotConfigured)
	})

	t.Run("explicit provider wins", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("PYMASTER_LLM_PROVIDER", "mock")
		t.Setenv("ANTHROPIC_API_KEY", "a")
		cfg, err := ResolveConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderMock, cfg.Provider)
	})

	t.Run("explicit provider missing key", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("PYMASTER_LLM_PROVIDER", "gemini")
		_, err := ResolveConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PYMASTER_GEMINI_API_KEY")
	})

	t.Run("discovery", func(t *testing.T) {
		clearLLMEnv(t)
		t.Setenv("OPENROUTER_API_KEY", "or")
		cfg, err := ResolveConfig()
		require.NoError(t, err)
		assert.Equal(t, ProviderOpenRouter, cfg.Provider)
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}}, true},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, false},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, false},
		{"mock", Config{Provider: ProviderMock}, true},
		{"empty", Config{}, false},
		{"unknown", Config{Provider: "llamafile"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewProvider(t *testing.T) {
	t.Run("mock without recording", func(t *testing.T) {
		p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "mock", p.ModelID())
		_, isRetry := p.(*RetryProvider)
		assert.True(t, isRetry)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewProvider(context.Background(), Config{Provider: ProviderOpenAI}, nil, nil)
		assert.Error(t, err)
	})

	t.Run("openrouter", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = "k"
		p, err := NewProvider(context.Background(), cfg, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "google/gemini-2.5-flash", p.ModelID())
	})

	t.Run("from env", func(t *testing.T) {
		clearLLMEnv(t)
		_, err := NewProviderFromEnv(context.Background(), nil, nil)
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
