package models

import (
	"time"

	"github.com/google/uuid"
)

// Priority values
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID            uuid.UUID  `gorm:"primaryKey;type:varchar(36)"`
	UserID        uuid.UUID  `gorm:"type:varchar(36);not null;index"`
	Title         string     `gorm:"not null"`
	DurationHours *float64   // ประมาณการชั่วโมงทำงาน (optional)
	Deadline      *time.Time `gorm:"index"`
	Priority      string     `gorm:"size:10;default:'medium'"`
	Dependencies  []string   `gorm:"serializer:json;type:text"` // task IDs ที่ต้อง complete ก่อน
	Completed     bool       `gorm:"default:false"`
	Version       int64      `gorm:"not null;default:1"` // optimistic concurrency
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Task) TableName() string {
	return "tasks"
}

// DependencyIDs คืน dependency list ที่ไม่เป็น nil เสมอ
func (t *Task) DependencyIDs() []string {
	if t.Dependencies == nil {
		return []string{}
	}
	return t.Dependencies
}

// HasDeadline ตรวจสอบว่ามี deadline หรือไม่
func (t *Task) HasDeadline() bool {
	return t.Deadline != nil && !t.Deadline.IsZero()
}

// IsValidPriority ตรวจสอบค่า priority
func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
