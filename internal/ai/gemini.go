package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/david/youth-hub/internal/models"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient uses the Gemini API with a JSON response schema for matching.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

var matchSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"matches": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"id":        {Type: genai.TypeNumber},
					"rationale": {Type: genai.TypeString},
				},
				Required: []string{"id", "rationale"},
			},
		},
	},
}

func (g *GeminiClient) Match(ctx context.Context, profile string, records []models.Opportunity) ([]models.AIRecommendation, error) {
	prompt, err := matchPrompt(profile, records)
	if err != nil {
		return nil, err
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   matchSchema,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini match: %w", err)
	}
	return parseMatches(resp.Text())
}

func (g *GeminiClient) Generate(ctx context.Context, record models.Opportunity, profile string, mode Mode) (string, error) {
	prompt, err := contentPrompt(record, profile, mode)
	if err != nil {
		return "", err
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}
