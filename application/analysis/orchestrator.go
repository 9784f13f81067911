// Package analysis ส่ง task snapshot ไปให้ model providers ตามลำดับ (cascade)
// แล้วตรวจสอบและ reconcile ผลลัพธ์กับข้อมูลจริง
package analysis

import (
	"context"
	"fmt"
	"time"

	"todoai/domain/models"
	"todoai/domain/ports"
	"todoai/domain/taskgraph"
	"todoai/pkg/logger"
)

const DefaultProviderTimeout = 20 * time.Second

// Options การตั้งค่า Orchestrator
type Options struct {
	Timeout         time.Duration    // timeout ต่อ provider หนึ่งตัว
	Now             func() time.Time // clock (test ใส่ค่าคงที่ได้)
	FallbackMessage string
}

// Orchestrator - ลอง providers ทีละตัวตามลำดับ ไม่ race กัน
type Orchestrator struct {
	providers       []ports.ModelProvider
	timeout         time.Duration
	now             func() time.Time
	fallbackMessage string
}

// NewOrchestrator รับ cascade ที่เรียงลำดับแล้ว (provider ตัวแรกถูกลองก่อน)
func NewOrchestrator(providers []ports.ModelProvider, opts Options) *Orchestrator {
	o := &Orchestrator{
		providers:       append([]ports.ModelProvider(nil), providers...),
		timeout:         opts.Timeout,
		now:             opts.Now,
		fallbackMessage: opts.FallbackMessage,
	}
	if o.timeout <= 0 {
		o.timeout = DefaultProviderTimeout
	}
	if o.now == nil {
		o.now = time.Now
	}
	return o
}

// ProviderNames ชื่อ providers ตามลำดับ cascade
func (o *Orchestrator) ProviderNames() []string {
	names := make([]string, 0, len(o.providers))
	for _, p := range o.providers {
		names = append(names, p.Name())
	}
	return names
}

// Analyze ไม่เคยคืน error: ถ้าทุก provider ล้มเหลวจะได้ Fallback
func (o *Orchestrator) Analyze(ctx context.Context, tasks []*models.Task) *models.AnalysisResult {
	now := o.now()
	graph := taskgraph.New(tasks)

	prompt, err := BuildPrompt(Enrich(graph, now), now)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build analysis prompt", "error", err)
		return Fallback(o.fallbackMessage, now)
	}

	for i, provider := range o.providers {
		if ctx.Err() != nil {
			logger.WarnContext(ctx, "Analysis cancelled before cascade finished",
				"attempted", i,
				"error", ctx.Err(),
			)
			break
		}

		started := time.Now()
		result, err := o.attempt(ctx, provider, prompt, graph)
		if err != nil {
			logger.WarnContext(ctx, "AI provider failed, trying next candidate",
				"provider", provider.Name(),
				"attempt", i+1,
				"latency", time.Since(started).String(),
				"error", err,
			)
			continue
		}

		result.Provider = provider.Name()
		result.GeneratedAt = now
		logger.InfoContext(ctx, "AI analysis completed",
			"provider", provider.Name(),
			"attempt", i+1,
			"risks", len(result.Risks),
			"suggestions", len(result.Suggestions),
			"latency", time.Since(started).String(),
		)
		return result
	}

	logger.WarnContext(ctx, "All AI providers failed, returning fallback analysis",
		"providers", len(o.providers),
		"tasks", graph.Len(),
	)
	return Fallback(o.fallbackMessage, now)
}

type generation struct {
	text string
	err  error
}

// attempt เรียก provider หนึ่งตัวภายใต้ timeout แล้ว extract/parse/reconcile
// ถ้า provider ไม่สนใจ ctx ก็ยังคืนภายใน timeout เพราะรอผ่าน select
func (o *Orchestrator) attempt(ctx context.Context, provider ports.ModelProvider, prompt string, graph *taskgraph.Graph) (*models.AnalysisResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	done := make(chan generation, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- generation{err: fmt.Errorf("provider panicked: %v", r)}
			}
		}()
		text, err := provider.Generate(callCtx, prompt)
		done <- generation{text: text, err: err}
	}()

	var gen generation
	select {
	case gen = <-done:
	case <-callCtx.Done():
		return nil, &ProviderError{Provider: provider.Name(), Err: callCtx.Err()}
	}

	if gen.err != nil {
		return nil, &ProviderError{Provider: provider.Name(), Err: gen.err}
	}

	payload, err := ExtractPayload(gen.text)
	if err != nil {
		return nil, &ProviderError{Provider: provider.Name(), Err: err}
	}

	result, err := ParsePayload(payload)
	if err != nil {
		return nil, &ProviderError{Provider: provider.Name(), Err: err}
	}

	Reconcile(result, graph)
	return result, nil
}
