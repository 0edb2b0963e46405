package factory

import (
	"fmt"

	"github.com/mikey/orbit-mail/internal/adapters/bedrock"
	"github.com/mikey/orbit-mail/internal/adapters/gemini"
	"github.com/mikey/orbit-mail/internal/adapters/openai"
	"github.com/mikey/orbit-mail/internal/assistant"
	"github.com/mikey/orbit-mail/internal/config"
	"github.com/mikey/orbit-mail/internal/core"
	"github.com/mikey/orbit-mail/internal/textutil"
	"go.uber.org/zap"
)

// AssistantFactory creates the assistant capability based on configuration
type AssistantFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *textutil.TextProcessor
}

// NewAssistantFactory creates a new assistant factory
func NewAssistantFactory(cfg *config.Config, logger *zap.Logger, textProcessor *textutil.TextProcessor) *AssistantFactory {
	return &AssistantFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateAssistant creates an assistant based on the configured provider.
// The "rules" provider needs no credentials and is the default.
func (f *AssistantFactory) CreateAssistant() (core.Assistant, error) {
	assistantCfg := f.cfg.GetAssistant()

	if assistantCfg.Provider == "rules" {
		return assistant.NewRuleBased(), nil
	}

	generator, maxTokens, err := f.createGenerator(assistantCfg.Provider)
	if err != nil {
		return nil, err
	}

	return assistant.NewAssisted(
		generator,
		f.textProcessor,
		assistantCfg.MaxBodySize,
		maxTokens,
		f.logger,
	), nil
}

func (f *AssistantFactory) createGenerator(provider string) (core.TextGenerator, int, error) {
	switch provider {
	case "openai":
		cfg := f.cfg.GetOpenAI()
		return openai.NewGenerator(&cfg, f.logger), cfg.MaxTokens, nil
	case "gemini":
		cfg := f.cfg.GetGemini()
		generator, err := gemini.NewGenerator(&cfg, f.logger)
		return generator, cfg.MaxTokens, err
	case "bedrock":
		cfg := f.cfg.GetBedrock()
		generator, err := bedrock.NewGenerator(&cfg, f.logger)
		return generator, cfg.MaxTokens, err
	default:
		return nil, 0, fmt.Errorf("unsupported assistant provider: %s", provider)
	}
}
