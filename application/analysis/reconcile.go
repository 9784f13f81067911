package analysis

import (
	"time"

	"todoai/domain/models"
	"todoai/domain/taskgraph"
)

const (
	UnknownTaskTitle = "Unknown task"

	DefaultFallbackSuggestion = "AI analysis is unavailable right now: no model provider could be reached. Check the configured API keys and try again."
)

// Reconcile แทน taskTitle ด้วยชื่อจริงจาก snapshot (เชื่อ id จาก model แต่ไม่เชื่อชื่อ)
func Reconcile(result *models.AnalysisResult, graph *taskgraph.Graph) {
	for i := range result.Risks {
		if task, ok := graph.Get(result.Risks[i].TaskID); ok {
			result.Risks[i].TaskTitle = task.Title
		} else {
			result.Risks[i].TaskTitle = UnknownTaskTitle
		}
	}
}

// Fallback ผลลัพธ์สำรองเมื่อทุก provider ล้มเหลว
func Fallback(message string, now time.Time) *models.AnalysisResult {
	if message == "" {
		message = DefaultFallbackSuggestion
	}
	return &models.AnalysisResult{
		Risks:       []models.RiskFinding{},
		Suggestions: []string{message},
		Provider:    models.ProviderFallback,
		GeneratedAt: now,
	}
}
