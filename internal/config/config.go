package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/orbit-mail/")
	v.AddConfigPath("$HOME/.orbit-mail")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("ORBIT_MAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Scheduler defaults
	v.SetDefault("scheduler.store_type", "sqlite")
	v.SetDefault("scheduler.sqlite_path", "/data/orbit-mail/scheduled.db")
	v.SetDefault("scheduler.mysql_dsn", "user:password@tcp(localhost:3306)/orbit_mail")
	v.SetDefault("scheduler.tick_interval", "30s")

	// SMTP gateway defaults
	v.SetDefault("smtp.address", "localhost:587")
	v.SetDefault("smtp.username", "")
	v.SetDefault("smtp.password", "")
	v.SetDefault("smtp.from", "")
	v.SetDefault("smtp.use_tls", false)

	// IMAP mailbox defaults
	v.SetDefault("imap.address", "localhost:993")
	v.SetDefault("imap.username", "")
	v.SetDefault("imap.password", "")
	v.SetDefault("imap.use_tls", true)
	v.SetDefault("imap.folder", "INBOX")
	v.SetDefault("imap.fetch_limit", 50)

	// Spam defaults
	v.SetDefault("spam.threshold", 0.5)
	v.SetDefault("spam.keywords", []string{})
	v.SetDefault("spam.keyword_weight", 0.15)
	v.SetDefault("spam.keyword_cap", 0.5)
	v.SetDefault("spam.shouting_threshold", 0.5)
	v.SetDefault("spam.shouting_weight", 0.2)
	v.SetDefault("spam.max_exclamations", 3)
	v.SetDefault("spam.punctuation_weight", 0.15)
	v.SetDefault("spam.suspicious_weight", 0.1)
	v.SetDefault("spam.contact_discount", 0.3)

	// Contacts defaults
	v.SetDefault("contacts.addresses", []string{})
	v.SetDefault("contacts.file", "")

	// Assistant defaults
	v.SetDefault("assistant.provider", "rules")
	v.SetDefault("assistant.max_body_size", 4096)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.model_name", "gpt-4")
	v.SetDefault("openai.max_tokens", 300)
	v.SetDefault("openai.temperature", 0.3)
	v.SetDefault("openai.top_p", 0.9)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-pro")
	v.SetDefault("gemini.max_tokens", 300)
	v.SetDefault("gemini.temperature", 0.3)
	v.SetDefault("gemini.top_p", 0.9)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 300)
	v.SetDefault("bedrock.temperature", 0.3)
	v.SetDefault("bedrock.top_p", 0.9)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetFloat64 gets a float value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	d := c.v.GetDuration(key)
	if d <= 0 {
		return 0, fmt.Errorf("invalid duration for %s: %q", key, c.v.GetString(key))
	}
	return d, nil
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
