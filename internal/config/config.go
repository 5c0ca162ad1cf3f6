// Package config loads mathgalaxy settings from defaults, an optional YAML
// file and MATHGALAXY_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/abhisek/mathgalaxy/internal/explain"
	"github.com/abhisek/mathgalaxy/internal/llm"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores: llm.openai.api_key is MATHGALAXY_LLM_OPENAI_API_KEY.
const EnvPrefix = "MATHGALAXY"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all configuration for mathgalaxy.
type Config struct {
	// DB is the SQLite database path. Empty means the XDG default.
	DB string `mapstructure:"db"`

	Log     LogConfig      `mapstructure:"log"`
	LLM     llm.Config     `mapstructure:"llm"`
	Explain explain.Config `mapstructure:"explain"`
	Cache   CacheConfig    `mapstructure:"cache"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// CacheConfig selects where generated explanations are cached.
type CacheConfig struct {
	Backend  string `mapstructure:"backend" validate:"oneof=none memory redis"`
	RedisURL string `mapstructure:"redis_url" validate:"required_if=Backend redis"`
}

var validate = newValidator()

// newValidator reports fields by their config key rather than the Go name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Load reads configuration. path names an explicit config file; when empty
// the default location is tried and a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// No provider chosen: look for a well-known API key, else run without
	// text generation.
	if cfg.LLM.Provider == "" {
		var found bool
		cfg.LLM, found = llm.DiscoverConfig(cfg.LLM)
		if !found {
			cfg.LLM.Provider = llm.ProviderNone
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and provider credentials.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if err := c.LLM.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// setDefaults registers every key so that AutomaticEnv can override it.
func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()
	explainDefaults := explain.DefaultConfig()

	v.SetDefault("db", "")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", llmDefaults.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", llmDefaults.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", llmDefaults.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", llmDefaults.Gemini.Model)
	v.SetDefault("llm.gemini.base_url", "")
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", llmDefaults.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.ollama.model", llmDefaults.Ollama.Model)
	v.SetDefault("llm.ollama.base_url", llmDefaults.Ollama.BaseURL)
	v.SetDefault("llm.breaker.max_requests", llmDefaults.Breaker.MaxRequests)
	v.SetDefault("llm.breaker.interval", llmDefaults.Breaker.Interval)
	v.SetDefault("llm.breaker.timeout", llmDefaults.Breaker.Timeout)
	v.SetDefault("llm.breaker.failure_threshold", llmDefaults.Breaker.FailureThreshold)
	v.SetDefault("llm.breaker.min_requests", llmDefaults.Breaker.MinRequests)

	v.SetDefault("explain.check_timeout", explainDefaults.CheckTimeout)
	v.SetDefault("explain.timeout", explainDefaults.Timeout)
	v.SetDefault("explain.snippet_max_tokens", explainDefaults.SnippetMaxTokens)
	v.SetDefault("explain.full_max_tokens", explainDefaults.FullMaxTokens)
	v.SetDefault("explain.temperature", explainDefaults.Temperature)
	v.SetDefault("explain.cache_ttl", explainDefaults.CacheTTL)

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.redis_url", "")
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/mathgalaxy, falling back to
// ~/.config/mathgalaxy.
func DefaultConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mathgalaxy")
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := configKey(e.Namespace())
	switch e.Tag() {
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "required_if":
		return fmt.Sprintf("%s is required", field)
	case "gt", "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// configKey drops the root type from a validator namespace:
// "Config.llm.breaker.timeout" becomes "llm.breaker.timeout".
func configKey(ns string) string {
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}
	return ns
}
