package ports

import (
	"context"
	"time"

	"todoai/domain/models"
)

// AnalysisCache - cache ชั่วคราวของผลวิเคราะห์ (key ผูกกับ snapshot ของ task)
// Get คืน (nil, nil) เมื่อไม่พบ
type AnalysisCache interface {
	Get(ctx context.Context, key string) (*models.AnalysisResult, error)
	Set(ctx context.Context, key string, result *models.AnalysisResult, ttl time.Duration) error
}

// DeadlineNotifyGuard ป้องกันการแจ้งเตือนซ้ำของ task เดิมในช่วงเวลาหนึ่ง
type DeadlineNotifyGuard interface {
	// ShouldNotify คืน true ครั้งแรกที่ถูกเรียกสำหรับ key ภายใน ttl
	ShouldNotify(ctx context.Context, key string, ttl time.Duration) (bool, error)
}
