package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"todoai/pkg/logger"
)

// ============================================================================
// GeminiClient - client เดียวใช้ร่วมกันได้หลาย model ใน cascade
// ============================================================================

type GeminiClient struct {
	client *genai.Client
	logger *slog.Logger
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is empty")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		logger: logger.GetLogger().With("component", "gemini"),
	}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// ============================================================================
// GeminiProvider - ModelProvider สำหรับ model หนึ่งตัว
// ============================================================================

type GeminiProvider struct {
	client *GeminiClient
	model  string
	params GenerationParams
}

func NewGeminiProvider(client *GeminiClient, model string, params GenerationParams) *GeminiProvider {
	return &GeminiProvider{client: client, model: model, params: params}
}

func (p *GeminiProvider) Name() string {
	return KindGemini + ":" + p.model
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	model := p.client.client.GenerativeModel(p.model)
	p.configureModel(model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate (%s): %w", p.model, err)
	}

	return p.extractText(resp)
}

func (p *GeminiProvider) configureModel(model *genai.GenerativeModel) {
	model.ResponseMIMEType = "application/json"
	model.Temperature = toPtr(p.params.Temperature)
	model.TopP = toPtr(float32(0.95))
	model.TopK = toPtr(int32(40))
	model.MaxOutputTokens = toPtr(p.params.MaxOutputTokens)
}

// ============================================================================
// Response Extraction
// ============================================================================

func (p *GeminiProvider) extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no content (finish reason: %v)", candidate.FinishReason)
	}

	p.client.logger.Debug("Gemini response",
		"model", p.model,
		"finish_reason", candidate.FinishReason,
		"parts_count", len(candidate.Content.Parts),
	)

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("unexpected response type: %T", candidate.Content.Parts[0])
	}
	return b.String(), nil
}

func toPtr[T any](v T) *T {
	return &v
}
