package models

import "time"

// ProviderFallback ชื่อ provider เมื่อไม่มี model ตอบกลับได้
const ProviderFallback = "fallback"

// RiskFinding - ความเสี่ยงที่ AI ตรวจพบสำหรับ task หนึ่ง
type RiskFinding struct {
	TaskID    string `json:"taskId"`
	TaskTitle string `json:"taskTitle"`
	Message   string `json:"message"`
}

// AnalysisResult - ผลวิเคราะห์ (ไม่ถูกบันทึกลง database)
type AnalysisResult struct {
	Risks       []RiskFinding `json:"risks"`
	Suggestions []string      `json:"suggestions"`
	Provider    string        `json:"provider,omitempty"`
	GeneratedAt time.Time     `json:"generatedAt"`
}

// IsFallback ตรวจสอบว่าเป็นผลลัพธ์สำรอง (ไม่มี provider ตอบ)
func (r *AnalysisResult) IsFallback() bool {
	return r.Provider == ProviderFallback
}
