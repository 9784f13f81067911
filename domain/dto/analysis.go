package dto

import "time"

type RiskResponse struct {
	TaskID    string `json:"taskId"`
	TaskTitle string `json:"taskTitle"`
	Message   string `json:"message"`
}

// AnalysisResponse - risks และ suggestions ไม่เป็น null ใน JSON
type AnalysisResponse struct {
	Risks       []RiskResponse `json:"risks"`
	Suggestions []string       `json:"suggestions"`
	Provider    string         `json:"provider"`
	Fallback    bool           `json:"fallback"`
	Cached      bool           `json:"cached"`
	GeneratedAt time.Time      `json:"generatedAt"`
}
