package nats

import (
	"time"

	"todoai/domain/ports"
)

// Stream and subjects
const (
	StreamName = "TASK_EVENTS"

	// SubjectPrefix - ทุก event อยู่ใต้ tasks.> (tasks.created, tasks.completed, ...)
	SubjectPrefix = "tasks"
	SubjectAll    = SubjectPrefix + ".>"
)

// Subject คืน subject ของ event type เช่น tasks.deadline_approaching
func Subject(eventType string) string {
	return SubjectPrefix + "." + eventType
}

// ═══════════════════════════════════════════════════════════════════════════════
// TaskEventMessage - payload บน NATS
// ⚠️ consumers ภายนอกอ่านโครงสร้างนี้ ห้ามเปลี่ยนชื่อ field
// ═══════════════════════════════════════════════════════════════════════════════
type TaskEventMessage struct {
	Type       string     `json:"type"`
	TaskID     string     `json:"task_id"`
	OwnerID    string     `json:"owner_id"`
	Title      string     `json:"title,omitempty"`
	Deadline   *time.Time `json:"deadline,omitempty"`
	Completed  bool       `json:"completed"`
	OccurredAt int64      `json:"occurred_at"` // unix seconds
}

func NewTaskEventMessage(event *ports.TaskEvent) *TaskEventMessage {
	occurred := event.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now()
	}
	return &TaskEventMessage{
		Type:       event.Type,
		TaskID:     event.TaskID,
		OwnerID:    event.OwnerID,
		Title:      event.Title,
		Deadline:   event.Deadline,
		Completed:  event.Completed,
		OccurredAt: occurred.Unix(),
	}
}

// StreamStatus - สำหรับ health endpoint
type StreamStatus struct {
	Name     string `json:"name"`
	Messages uint64 `json:"messages"`
	Bytes    uint64 `json:"bytes"`
	LastSeq  uint64 `json:"last_seq"`
}
