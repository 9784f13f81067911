package ai

import (
	"context"
	"fmt"
	"net/http"

	"todoai/domain/ports"
	"todoai/pkg/config"
	"todoai/pkg/logger"
)

// Backend kinds ใน AI_PROVIDERS
const (
	KindGemini = "gemini"
	KindOpenAI = "openai"
)

// GenerationParams ค่า sampling ที่ใช้ร่วมกันทุก provider
type GenerationParams struct {
	Temperature     float32
	MaxOutputTokens int32
}

// Cascade - providers ตามลำดับ config พร้อม resources ที่ต้องปิดตอน shutdown
type Cascade struct {
	Providers []ports.ModelProvider
	gemini    *GeminiClient
}

func (c *Cascade) Close() error {
	if c.gemini != nil {
		return c.gemini.Close()
	}
	return nil
}

// BuildCascade สร้าง providers ตาม cfg.Providers
// backend ที่ไม่มี API key จะถูกข้าม (log warning) แทนที่จะทำให้ startup ล้ม
func BuildCascade(ctx context.Context, cfg *config.AIConfig, httpClient *http.Client) (*Cascade, error) {
	params := GenerationParams{
		Temperature:     cfg.Temperature,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
	cascade := &Cascade{}

	for _, spec := range cfg.Providers {
		switch spec.Kind {
		case KindGemini:
			if cfg.GeminiAPIKey == "" {
				logger.Warn("Skipping Gemini provider (GEMINI_API_KEY not configured)", "model", spec.Model)
				continue
			}
			if cascade.gemini == nil {
				client, err := NewGeminiClient(ctx, cfg.GeminiAPIKey)
				if err != nil {
					return nil, err
				}
				cascade.gemini = client
			}
			cascade.Providers = append(cascade.Providers, NewGeminiProvider(cascade.gemini, spec.Model, params))

		case KindOpenAI:
			if cfg.OpenAIAPIKey == "" {
				logger.Warn("Skipping OpenAI provider (OPENAI_API_KEY not configured)", "model", spec.Model)
				continue
			}
			cascade.Providers = append(cascade.Providers, NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, spec.Model, params, httpClient))

		default:
			cascade.Close()
			return nil, fmt.Errorf("unknown AI provider kind %q", spec.Kind)
		}
	}

	return cascade, nil
}
