package ports

import (
	"context"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Task Event Port - แจ้งการเปลี่ยนแปลงของ task ออกไปยังระบบอื่น
// ═══════════════════════════════════════════════════════════════════════════════

// Task event types
const (
	TaskEventCreated             = "created"
	TaskEventUpdated             = "updated"
	TaskEventCompleted           = "completed"
	TaskEventDeleted             = "deleted"
	TaskEventDeadlineApproaching = "deadline_approaching"
)

// TaskEvent - Plain struct (ไม่มี NATS dependency)
type TaskEvent struct {
	Type       string
	TaskID     string
	OwnerID    string
	Title      string
	Deadline   *time.Time
	Completed  bool
	OccurredAt time.Time
}

// TaskEventPublisher - Interface สำหรับส่ง task events
// การ publish ไม่สำเร็จต้องไม่ทำให้ request หลักล้มเหลว
type TaskEventPublisher interface {
	PublishTaskEvent(ctx context.Context, event *TaskEvent) error
}

// NoopTaskEventPublisher ใช้เมื่อไม่มี NATS
type NoopTaskEventPublisher struct{}

func (NoopTaskEventPublisher) PublishTaskEvent(ctx context.Context, event *TaskEvent) error {
	return nil
}
