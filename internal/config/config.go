package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all atelier configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Generative remote search service
	LLM LLMConfig `yaml:"llm"`

	// Photo-search service and fallback image template
	Images ImagesConfig `yaml:"images"`

	// Search cascade
	Search SearchConfig `yaml:"search"`

	// Order manager
	Orders OrdersConfig `yaml:"orders"`

	// Outbound messaging channel
	Messaging MessagingConfig `yaml:"messaging"`

	// Durable order-summary mirror
	Store StoreConfig `yaml:"store"`

	// HTTP API
	Server ServerConfig `yaml:"server"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// SearchConfig configures the tier cascade.
type SearchConfig struct {
	// Disable remote tiers even when an API key is present.
	DisableRemote bool `yaml:"disable_remote"`

	// Timeout for one full search (all tiers).
	Timeout string `yaml:"timeout"`

	// Recent-search history length.
	HistorySize int `yaml:"history_size"`

	// Upper bound on live per-client search sessions; the least recently
	// used is evicted beyond it.
	MaxSessions int `yaml:"max_sessions"`

	// Seed for the procedural generator; 0 means seed from the clock.
	Seed uint64 `yaml:"seed"`
}

// OrdersConfig configures the order manager.
type OrdersConfig struct {
	// IDScheme is "counter" (timestamp + in-process counter) or "uuid".
	IDScheme string `yaml:"id_scheme"`

	// CounterSeed is the first counter value for the counter scheme.
	CounterSeed int64 `yaml:"counter_seed"`
}

// StoreConfig configures the durable mirror.
type StoreConfig struct {
	Enabled      bool   `yaml:"enabled"`
	DatabasePath string `yaml:"database_path"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr          string `yaml:"addr"`
	SessionSecret string `yaml:"session_secret"`
	SessionName   string `yaml:"session_name"`
	ReadTimeout   string `yaml:"read_timeout"`
	WriteTimeout  string `yaml:"write_timeout"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "atelier",
		Version: "1.0.0",

		LLM: LLMConfig{
			Provider:      "gemini",
			EnhancedModel: "gemini-2.5-pro",
			BasicModel:    "gemini-2.5-flash",
			Timeout:       "45s",
		},

		Images: ImagesConfig{
			APIBaseURL:       "https://api.unsplash.com",
			FallbackTemplate: "https://source.unsplash.com/800x800/?%s",
			Timeout:          "8s",
		},

		Search: SearchConfig{
			Timeout:     "60s",
			HistorySize: 5,
			MaxSessions: 1000,
		},

		Orders: OrdersConfig{
			IDScheme:    "counter",
			CounterSeed: 1000,
		},

		Messaging: MessagingConfig{
			Recipient:        "+12125550147",
			FallbackTemplate: "https://wa.me/%s?text=%s",
			Timeout:          "15s",
		},

		Store: StoreConfig{
			Enabled:      true,
			DatabasePath: "data/atelier.db",
		},

		Server: ServerConfig{
			Addr:         ":8080",
			SessionName:  "atelier-session",
			ReadTimeout:  "15s",
			WriteTimeout: "90s",
		},

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Dir:    "data/logs",
		},
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return defaults if config file doesn't exist
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	// LLM API key from environment (GOOGLE_API_KEY is what the genai SDK reads too)
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	}

	if key := os.Getenv("UNSPLASH_ACCESS_KEY"); key != "" {
		c.Images.AccessKey = key
	}

	if url := os.Getenv("ATELIER_MESSAGING_URL"); url != "" {
		c.Messaging.Endpoint = url
	}
	if phone := os.Getenv("ATELIER_CONCIERGE_PHONE"); phone != "" {
		c.Messaging.Recipient = phone
	}

	if path := os.Getenv("ATELIER_DB"); path != "" {
		c.Store.DatabasePath = path
	}

	if addr := os.Getenv("ATELIER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if secret := os.Getenv("ATELIER_SESSION_SECRET"); secret != "" {
		c.Server.SessionSecret = secret
	}
}

// parseDuration parses s, returning def when s is empty or malformed.
func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// GetLLMTimeout returns the per-call LLM timeout as a duration.
func (c *Config) GetLLMTimeout() time.Duration {
	return parseDuration(c.LLM.Timeout, 45*time.Second)
}

// GetImageTimeout returns the per-lookup image timeout as a duration.
func (c *Config) GetImageTimeout() time.Duration {
	return parseDuration(c.Images.Timeout, 8*time.Second)
}

// GetSearchTimeout returns the whole-search timeout as a duration.
func (c *Config) GetSearchTimeout() time.Duration {
	return parseDuration(c.Search.Timeout, 60*time.Second)
}

// GetMessagingTimeout returns the dispatch timeout as a duration.
func (c *Config) GetMessagingTimeout() time.Duration {
	return parseDuration(c.Messaging.Timeout, 15*time.Second)
}

// GetReadTimeout returns the HTTP read timeout.
func (c *Config) GetReadTimeout() time.Duration {
	return parseDuration(c.Server.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the HTTP write timeout.
func (c *Config) GetWriteTimeout() time.Duration {
	return parseDuration(c.Server.WriteTimeout, 90*time.Second)
}

// RemoteSearchEnabled reports whether the remote tiers can run.
func (c *Config) RemoteSearchEnabled() bool {
	return !c.Search.DisableRemote && c.LLM.APIKey != ""
}

// ValidIDSchemes lists the supported order id schemes.
var ValidIDSchemes = []string{"counter", "uuid"}

// Validate validates the configuration.
// A missing API key is not an error: remote tiers are simply skipped.
func (c *Config) Validate() error {
	validScheme := false
	for _, s := range ValidIDSchemes {
		if c.Orders.IDScheme == s {
			validScheme = true
			break
		}
	}
	if !validScheme {
		return fmt.Errorf("invalid order id scheme: %s (valid: %v)", c.Orders.IDScheme, ValidIDSchemes)
	}

	if c.Search.HistorySize < 0 {
		return fmt.Errorf("search.history_size must be >= 0, got %d", c.Search.HistorySize)
	}
	if c.Search.MaxSessions < 0 {
		return fmt.Errorf("search.max_sessions must be >= 0, got %d", c.Search.MaxSessions)
	}

	if c.LLM.Provider != "" && c.LLM.Provider != "gemini" {
		return fmt.Errorf("unsupported LLM provider: %s (only gemini)", c.LLM.Provider)
	}

	return nil
}
