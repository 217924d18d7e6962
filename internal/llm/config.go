package llm

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrConfigMissing marks a missing evaluation-service credential. The
// absence is a startup-time fatal condition, not a per-call failure.
var ErrConfigMissing = errors.New("llm credential missing")

// Config selects and configures the evaluation provider.
type Config struct {
	// Provider is one of "anthropic", "openai", "gemini", "mock".
	Provider string

	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Retry     RetryConfig

	// Timeout bounds a single evaluation call, retries included. A call
	// that outlives it follows the evaluator's fail-closed path.
	Timeout time.Duration
}

// AnthropicConfig holds Anthropic-specific settings.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig holds OpenAI-specific settings. BaseURL overrides the
// endpoint for compatible APIs.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Gemini-specific settings.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// RetryConfig tunes the transient-failure retry middleware.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns sensible defaults: OpenAI (the service the
// training content was authored against), three retries, 30s timeout.
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Anthropic: AnthropicConfig{Model: "claude-haiku"},
		OpenAI:    OpenAIConfig{Model: "gpt-4o-mini"},
		Gemini:    GeminiConfig{Model: "gemini-flash"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// ConfigFromEnv builds a Config from NMOTRAIN_* variables, falling back
// to the standard provider key variables when no explicit provider is
// chosen.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("NMOTRAIN_LLM_PROVIDER"); p != "" {
		cfg.Provider = p
	} else if p, ok := discoverProvider(); ok {
		cfg.Provider = p
	}

	if k := os.Getenv("NMOTRAIN_ANTHROPIC_API_KEY"); k != "" {
		cfg.Anthropic.APIKey = k
	} else {
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if m := os.Getenv("NMOTRAIN_ANTHROPIC_MODEL"); m != "" {
		cfg.Anthropic.Model = m
	}

	if k := os.Getenv("NMOTRAIN_OPENAI_API_KEY"); k != "" {
		cfg.OpenAI.APIKey = k
	} else {
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if m := os.Getenv("NMOTRAIN_OPENAI_MODEL"); m != "" {
		cfg.OpenAI.Model = m
	}
	if u := os.Getenv("NMOTRAIN_OPENAI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
	}

	if k := os.Getenv("NMOTRAIN_GEMINI_API_KEY"); k != "" {
		cfg.Gemini.APIKey = k
	} else {
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if m := os.Getenv("NMOTRAIN_GEMINI_MODEL"); m != "" {
		cfg.Gemini.Model = m
	}

	return cfg
}

// discoverProvider probes the standard key variables in priority order
// and picks the first provider with a key present.
func discoverProvider() (string, bool) {
	switch {
	case os.Getenv("OPENAI_API_KEY") != "" || os.Getenv("NMOTRAIN_OPENAI_API_KEY") != "":
		return "openai", true
	case os.Getenv("ANTHROPIC_API_KEY") != "" || os.Getenv("NMOTRAIN_ANTHROPIC_API_KEY") != "":
		return "anthropic", true
	case os.Getenv("GEMINI_API_KEY") != "" || os.Getenv("NMOTRAIN_GEMINI_API_KEY") != "":
		return "gemini", true
	}
	return "", false
}

// Validate checks that the selected provider has its credential. A
// missing key wraps ErrConfigMissing so callers can treat it as fatal at
// startup.
func (c Config) Validate() error {
	switch c.Provider {
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return fmt.Errorf("%w: set NMOTRAIN_ANTHROPIC_API_KEY or ANTHROPIC_API_KEY", ErrConfigMissing)
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("%w: set NMOTRAIN_OPENAI_API_KEY or OPENAI_API_KEY", ErrConfigMissing)
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("%w: set NMOTRAIN_GEMINI_API_KEY or GEMINI_API_KEY", ErrConfigMissing)
		}
	case "mock":
		// No credential needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}
