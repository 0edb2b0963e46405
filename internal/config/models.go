package config

// SchedulerConfig represents the configuration for the delivery scheduler
type SchedulerConfig struct {
	StoreType  string
	SQLitePath string
	MySQLDSN   string
}

// SMTPConfig represents the configuration for the outbound transport gateway
type SMTPConfig struct {
	Address  string
	Username string
	Password string
	From     string
	UseTLS   bool
}

// IMAPConfig represents the configuration for the mailbox source
type IMAPConfig struct {
	Address    string
	Username   string
	Password   string
	UseTLS     bool
	Folder     string
	FetchLimit int
}

// AssistantConfig represents the configuration for the assistant capability
type AssistantConfig struct {
	Provider    string
	MaxBodySize int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GetScheduler returns the scheduler configuration
func (c *Config) GetScheduler() SchedulerConfig {
	return SchedulerConfig{
		StoreType:  c.GetString("scheduler.store_type"),
		SQLitePath: c.GetString("scheduler.sqlite_path"),
		MySQLDSN:   c.GetString("scheduler.mysql_dsn"),
	}
}

// GetSMTP returns the SMTP gateway configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		Address:  c.GetString("smtp.address"),
		Username: c.GetString("smtp.username"),
		Password: c.GetString("smtp.password"),
		From:     c.GetString("smtp.from"),
		UseTLS:   c.GetBool("smtp.use_tls"),
	}
}

// GetIMAP returns the IMAP mailbox configuration
func (c *Config) GetIMAP() IMAPConfig {
	return IMAPConfig{
		Address:    c.GetString("imap.address"),
		Username:   c.GetString("imap.username"),
		Password:   c.GetString("imap.password"),
		UseTLS:     c.GetBool("imap.use_tls"),
		Folder:     c.GetString("imap.folder"),
		FetchLimit: c.GetInt("imap.fetch_limit"),
	}
}

// GetAssistant returns the assistant configuration
func (c *Config) GetAssistant() AssistantConfig {
	return AssistantConfig{
		Provider:    c.GetString("assistant.provider"),
		MaxBodySize: c.GetInt("assistant.max_body_size"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}
