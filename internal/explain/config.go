package explain

import "time"

// Config holds explanation generation settings.
type Config struct {
	// CheckTimeout bounds the availability check. Default: 2s.
	CheckTimeout time.Duration `mapstructure:"check_timeout" validate:"gt=0"`

	// Timeout bounds the generation call. Default: 20s.
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`

	SnippetMaxTokens int     `mapstructure:"snippet_max_tokens" validate:"gt=0"`
	FullMaxTokens    int     `mapstructure:"full_max_tokens" validate:"gt=0"`
	Temperature      float64 `mapstructure:"temperature" validate:"gte=0,lte=1"`

	// CacheTTL is how long generated text is reused. Zero disables expiry.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// DefaultConfig returns sensible defaults for explanation generation.
func DefaultConfig() Config {
	return Config{
		CheckTimeout:     2 * time.Second,
		Timeout:          20 * time.Second,
		SnippetMaxTokens: 200,
		FullMaxTokens:    700,
		Temperature:      0.4,
		CacheTTL:         24 * time.Hour,
	}
}
