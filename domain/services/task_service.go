package services

import (
	"context"

	"github.com/google/uuid"

	"todoai/domain/dto"
	"todoai/domain/models"
)

// TaskService - ทุก operation scope ด้วย ownerID จาก JWT
//
// errors ที่คืน: *apperrors.ValidationError (invalid, not_found, blocked, conflict)
// หรือ *apperrors.StoreError
type TaskService interface {
	CreateTask(ctx context.Context, ownerID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error)
	GetTask(ctx context.Context, taskID, ownerID uuid.UUID) (*models.Task, error)
	UpdateTask(ctx context.Context, taskID, ownerID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID, ownerID uuid.UUID) error
}
