package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todoai/domain/models"
	"todoai/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

// columns ที่ UpdateOwned เขียนได้ (id, user_id, created_at ห้ามแก้)
var taskMutableColumns = []string{
	"title", "duration_hours", "deadline", "priority", "dependencies", "completed", "version", "updated_at",
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

// UpdateOwned อ่าน row, เรียก mutate และ save ภายใน transaction เดียว
// การ save เป็น conditional update บน version ที่อ่านมา ถ้ามีคนแก้ก่อนจะได้ ErrVersionConflict
func (r *TaskRepositoryImpl) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, mutate repositories.TaskMutator) (*models.Task, error) {
	var updated models.Task

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repositories.ErrTaskNotFound
			}
			return err
		}

		readVersion := task.Version
		if err := mutate(ctx, &TaskRepositoryImpl{db: tx}, &task); err != nil {
			return err
		}

		task.ID = id
		task.UserID = ownerID
		task.Version = readVersion + 1
		task.UpdatedAt = time.Now().UTC()

		result := tx.Model(&task).
			Where("user_id = ? AND version = ?", ownerID, readVersion).
			Select(taskMutableColumns).
			Updates(&task)
		if result.Error != nil {
			return fmt.Errorf("failed to save task: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return repositories.ErrVersionConflict
		}

		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *TaskRepositoryImpl) Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Task{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *TaskRepositoryImpl) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Task{}).Where("user_id = ?", ownerID).Count(&count).Error
	return count, err
}

func (r *TaskRepositoryImpl) ListDeadlineBetween(ctx context.Context, from, to time.Time) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Where("completed = ? AND deadline IS NOT NULL AND deadline > ? AND deadline <= ?", false, from.UTC(), to.UTC()).
		Order("deadline ASC").
		Find(&tasks).Error
	return tasks, err
}
