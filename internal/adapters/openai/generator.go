package openai

import (
	"context"
	"fmt"

	"github.com/mikey/orbit-mail/internal/config"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Generator is an implementation of the TextGenerator interface using OpenAI
type Generator struct {
	client      *openai.Client
	modelName   string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewGenerator creates a new OpenAI text generator
func NewGenerator(cfg *config.OpenAIConfig, logger *zap.Logger) *Generator {
	return &Generator{
		client:      openai.NewClient(cfg.APIKey),
		modelName:   cfg.ModelName,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		logger:      logger,
	}
}

// Generate produces text for the given prompt
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}

	req := openai.ChatCompletionRequest{
		Model: g.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an email assistant. Respond with plain text only.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: g.temperature,
		TopP:        g.topP,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from OpenAI")
	}

	g.logger.Debug("Generated text with OpenAI",
		zap.String("model", g.modelName),
		zap.String("processing_id", resp.ID))

	return resp.Choices[0].Message.Content, nil
}
