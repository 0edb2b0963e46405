package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/orbit-mail/internal/config"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Generator is an implementation of the TextGenerator interface using
// Google Gemini
type Generator struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
	maxTokens int
	logger    *zap.Logger
}

// NewGenerator creates a new Gemini text generator
func NewGenerator(cfg *config.GeminiConfig, logger *zap.Logger) (*Generator, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.ModelName)
	model.SetTemperature(cfg.Temperature)
	model.SetTopP(cfg.TopP)
	model.SetMaxOutputTokens(int32(cfg.MaxTokens))

	return &Generator{
		client:    client,
		model:     model,
		modelName: cfg.ModelName,
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}, nil
}

// Close closes the Gemini client
func (g *Generator) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate produces text for the given prompt
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	model := g.model
	if maxTokens > 0 && maxTokens != g.maxTokens {
		model = g.client.GenerativeModel(g.modelName)
		model.SetMaxOutputTokens(int32(maxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from Gemini")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}

	g.logger.Debug("Generated text with Gemini",
		zap.String("model", g.modelName))

	return sb.String(), nil
}
