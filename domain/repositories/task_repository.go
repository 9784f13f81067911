package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"todoai/domain/models"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrVersionConflict = errors.New("task was modified concurrently")
)

// TaskReader อ่าน snapshot ของ owner (ใช้ได้ทั้งนอกและใน transaction)
type TaskReader interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error)
}

// TaskMutator ถูกเรียกภายใน transaction เดียวกับการ save
// reader ผูกกับ transaction นั้น และ task คือ row ปัจจุบันที่ต้องแก้ไขในที่
type TaskMutator func(ctx context.Context, reader TaskReader, task *models.Task) error

// TaskRepository - ทุก method scope ด้วย ownerID
// task ที่ไม่มีอยู่และ task ของ owner อื่น ให้ผลเหมือนกันคือ ErrTaskNotFound
type TaskRepository interface {
	TaskReader
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Task, error)
	UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, mutate TaskMutator) (*models.Task, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)

	// ListDeadlineBetween สำหรับ background job (ไม่ scope ด้วย owner)
	ListDeadlineBetween(ctx context.Context, from, to time.Time) ([]*models.Task, error)
}
