package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateTaskRequest - completed ไม่รับจาก client (task ใหม่ยังไม่เสร็จเสมอ)
type CreateTaskRequest struct {
	Title        string     `json:"title" validate:"required,min=1,max=200"`
	Duration     *float64   `json:"duration" validate:"omitempty,gte=0"`
	Deadline     *time.Time `json:"deadline" validate:"omitempty"`
	Priority     string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	Dependencies []string   `json:"dependencies" validate:"omitempty,max=100,dive,max=64"`
}

// UpdateTaskRequest - partial update, field ที่เป็น nil คือไม่แก้
type UpdateTaskRequest struct {
	Title        *string    `json:"title" validate:"omitempty,min=1,max=200"`
	Duration     *float64   `json:"duration" validate:"omitempty,gte=0"`
	Deadline     *time.Time `json:"deadline" validate:"omitempty"`
	Priority     *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Dependencies *[]string  `json:"dependencies" validate:"omitempty,max=100,dive,max=64"`
	Completed    *bool      `json:"completed"`

	ClearDeadline bool `json:"clearDeadline"`
	ClearDuration bool `json:"clearDuration"`
}

type TaskResponse struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Duration     *float64   `json:"duration"`
	Deadline     *time.Time `json:"deadline"`
	Priority     string     `json:"priority"`
	Dependencies []string   `json:"dependencies"`
	Completed    bool       `json:"completed"`
	Version      int64      `json:"version"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
