package services

import (
	"context"

	"github.com/google/uuid"

	"todoai/domain/models"
)

// AnalysisService วิเคราะห์ tasks ปัจจุบันของ owner
type AnalysisService interface {
	// AnalyzeTasks คืน fallback แทน error เมื่อ AI ไม่พร้อม
	// error มีเฉพาะเมื่ออ่าน tasks จาก store ไม่ได้; cached = true เมื่อได้ผลจาก cache
	AnalyzeTasks(ctx context.Context, ownerID uuid.UUID, refresh bool) (result *models.AnalysisResult, cached bool, err error)
}
