package config

// LLMConfig configures the generative remote search service.
type LLMConfig struct {
	Provider string `yaml:"provider"` // gemini
	APIKey   string `yaml:"api_key"`

	// EnhancedModel serves the first tier (structured output, category context).
	EnhancedModel string `yaml:"enhanced_model"`

	// BasicModel serves the lower-effort second tier.
	BasicModel string `yaml:"basic_model"`

	Timeout string `yaml:"timeout"`
}
