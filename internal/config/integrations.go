package config

// ImagesConfig configures the image resolution helper.
type ImagesConfig struct {
	// AccessKey enables the photo-search API tier when non-empty.
	AccessKey  string `yaml:"access_key"`
	APIBaseURL string `yaml:"api_base_url"`

	// FallbackTemplate receives the query-escaped search phrase via %s.
	FallbackTemplate string `yaml:"fallback_template"`

	// Timeout bounds each lookup; on expiry the fallback URL is used.
	Timeout string `yaml:"timeout"`
}

// MessagingConfig configures the outbound messaging channel.
type MessagingConfig struct {
	// Endpoint receives POSTed messages. Empty means fallback only.
	Endpoint string `yaml:"endpoint"`

	// Recipient is the personal shopper's phone number.
	Recipient string `yaml:"recipient"`

	// FallbackTemplate receives the recipient digits and the escaped text.
	FallbackTemplate string `yaml:"fallback_template"`

	// OpenFallback opens the fallback URI in the local browser (CLI only).
	OpenFallback bool `yaml:"open_fallback"`

	Timeout string `yaml:"timeout"`
}
