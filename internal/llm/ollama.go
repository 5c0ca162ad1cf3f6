package llm

const defaultOllamaBaseURL = "http://localhost:11434/v1"

// ollamaAPIKey is a placeholder; Ollama ignores the bearer token but the
// OpenAI client always sends one.
const ollamaAPIKey = "ollama"

// OllamaProvider targets a local Ollama server through its OpenAI-compatible
// endpoint, reusing the OpenAI SDK.
type OllamaProvider struct {
	*OpenAIProvider
}

// NewOllamaProvider creates a provider for the given Ollama server.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "llama3.2"
	}

	inner := newCompatProvider(ProviderOllama, OpenAIConfig{
		APIKey:  ollamaAPIKey,
		Model:   model,
		BaseURL: baseURL,
	}, nil)
	return &OllamaProvider{OpenAIProvider: inner}, nil
}
