package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/orbit-mail/internal/config"
	"go.uber.org/zap"
)

// Generator is an implementation of the TextGenerator interface using
// Amazon Bedrock
type Generator struct {
	client      *bedrockruntime.Client
	modelID     string
	maxTokens   int
	temperature float32
	topP        float32
	logger      *zap.Logger
}

// NewGenerator creates a new Bedrock text generator
func NewGenerator(cfg *config.BedrockConfig, logger *zap.Logger) (*Generator, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return &Generator{
		client:      bedrockruntime.NewFromConfig(awsCfg),
		modelID:     cfg.ModelID,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		logger:      logger,
	}, nil
}

func (g *Generator) isAnthropicModel() bool {
	return strings.Contains(g.modelID, "anthropic")
}

func (g *Generator) isAmazonTitanModel() bool {
	return strings.Contains(g.modelID, "amazon.titan")
}

// Generate produces text for the given prompt
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if maxTokens <= 0 {
		maxTokens = g.maxTokens
	}

	var payload []byte
	var err error

	if g.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": maxTokens,
			"temperature":          g.temperature,
			"top_p":                g.topP,
		})
	} else if g.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": maxTokens,
				"temperature":   g.temperature,
				"topP":          g.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  maxTokens,
			"temperature": g.temperature,
			"top_p":       g.topP,
		})
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := g.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &g.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	text, err := g.extractText(resp.Body)
	if err != nil {
		return "", err
	}

	g.logger.Debug("Generated text with Bedrock",
		zap.String("model_id", g.modelID))

	return text, nil
}

// extractText pulls the generated text out of a model-specific response body.
func (g *Generator) extractText(body []byte) (string, error) {
	if g.isAnthropicModel() {
		var resp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to parse Bedrock response: %w", err)
		}
		return resp.Completion, nil
	}

	if g.isAmazonTitanModel() {
		var resp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &resp); err != nil {
			return "", fmt.Errorf("failed to parse Bedrock response: %w", err)
		}
		if len(resp.Results) == 0 {
			return "", fmt.Errorf("empty response from Bedrock")
		}
		return resp.Results[0].OutputText, nil
	}

	var resp struct {
		Completion string `json:"completion"`
		OutputText string `json:"outputText"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse Bedrock response: %w", err)
	}
	if resp.Completion != "" {
		return resp.Completion, nil
	}
	return resp.OutputText, nil
}
