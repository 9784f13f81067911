package serviceimpl

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"todoai/domain/dto"
	"todoai/domain/models"
	"todoai/domain/ports"
	"todoai/domain/repositories"
	"todoai/domain/services"
	"todoai/domain/taskgraph"
	"todoai/pkg/apperrors"
	"todoai/pkg/logger"
)

type TaskServiceImpl struct {
	taskRepo  repositories.TaskRepository
	publisher ports.TaskEventPublisher
	now       func() time.Time
}

func NewTaskService(taskRepo repositories.TaskRepository, publisher ports.TaskEventPublisher) services.TaskService {
	if publisher == nil {
		publisher = ports.NoopTaskEventPublisher{}
	}
	return &TaskServiceImpl{
		taskRepo:  taskRepo,
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, ownerID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.InvalidFields("Validation failed", map[string]string{"title": "is required"})
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.IsValidPriority(priority) {
		return nil, apperrors.InvalidFields("Validation failed", map[string]string{"priority": "must be one of: low, medium, high"})
	}
	if req.Duration != nil && *req.Duration < 0 {
		return nil, apperrors.InvalidFields("Validation failed", map[string]string{"duration": "must be greater than or equal to 0"})
	}

	now := s.now().UTC()
	task := &models.Task{
		ID:            uuid.New(),
		UserID:        ownerID,
		Title:         title,
		DurationHours: req.Duration,
		Deadline:      utcPtr(req.Deadline),
		Priority:      priority,
		Dependencies:  normalizeDependencies(req.Dependencies),
		Completed:     false,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to create task", "user_id", ownerID, "error", err)
		return nil, apperrors.Store("create task", err)
	}

	logger.InfoContext(ctx, "Task created", "task_id", task.ID, "user_id", ownerID, "dependencies", len(task.Dependencies))
	s.publish(ctx, ports.TaskEventCreated, task)

	return task, nil
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, ownerID uuid.UUID) ([]*models.Task, error) {
	tasks, err := s.taskRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tasks", "user_id", ownerID, "error", err)
		return nil, apperrors.Store("list tasks", err)
	}
	return tasks, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID, ownerID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID, ownerID)
	if err != nil {
		return nil, mapTaskRepoError("get task", err)
	}
	return task, nil
}

// UpdateTask apply partial update และตรวจ completion gate ภายใน transaction เดียวกับการ save
//
// snapshot ของ owner ถูกอ่านผ่าน reader ของ transaction นั้น
// ดังนั้นสถานะ dependencies ที่ใช้ตัดสินคือสถานะเดียวกับตอนเขียน
func (s *TaskServiceImpl) UpdateTask(ctx context.Context, taskID, ownerID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	var wasCompleted bool

	updated, err := s.taskRepo.UpdateOwned(ctx, taskID, ownerID, func(ctx context.Context, reader repositories.TaskReader, task *models.Task) error {
		wasCompleted = task.Completed

		if err := applyTaskUpdate(task, req); err != nil {
			return err
		}

		for _, dep := range task.Dependencies {
			if dep == task.ID.String() {
				return apperrors.Invalid("a task cannot depend on itself")
			}
		}

		// gate ตรวจเฉพาะเมื่อ request ขอ completed = true
		if req.Completed == nil || !*req.Completed {
			return nil
		}

		tasks, err := reader.ListByOwner(ctx, ownerID)
		if err != nil {
			return apperrors.Store("load task snapshot", err)
		}
		return taskgraph.CheckCompletion(req.Completed, task.DependencyIDs(), taskgraph.New(tasks))
	})
	if err != nil {
		if _, ok := apperrors.AsValidation(err); ok {
			logger.WarnContext(ctx, "Task update rejected", "task_id", taskID, "user_id", ownerID, "error", err)
		}
		return nil, mapTaskRepoError("update task", err)
	}

	logger.InfoContext(ctx, "Task updated", "task_id", updated.ID, "user_id", ownerID, "version", updated.Version)

	if !wasCompleted && updated.Completed {
		s.publish(ctx, ports.TaskEventCompleted, updated)
	} else {
		s.publish(ctx, ports.TaskEventUpdated, updated)
	}

	return updated, nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, taskID, ownerID uuid.UUID) error {
	deleted, err := s.taskRepo.Delete(ctx, taskID, ownerID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to delete task", "task_id", taskID, "user_id", ownerID, "error", err)
		return apperrors.Store("delete task", err)
	}
	if !deleted {
		return apperrors.NotFound("task")
	}

	logger.InfoContext(ctx, "Task deleted", "task_id", taskID, "user_id", ownerID)
	s.publish(ctx, ports.TaskEventDeleted, &models.Task{ID: taskID, UserID: ownerID})
	return nil
}

// applyTaskUpdate เขียนเฉพาะ field ที่ request ส่งมา
func applyTaskUpdate(task *models.Task, req *dto.UpdateTaskRequest) error {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return apperrors.InvalidFields("Validation failed", map[string]string{"title": "is required"})
		}
		task.Title = title
	}

	if req.ClearDuration {
		task.DurationHours = nil
	} else if req.Duration != nil {
		if *req.Duration < 0 {
			return apperrors.InvalidFields("Validation failed", map[string]string{"duration": "must be greater than or equal to 0"})
		}
		d := *req.Duration
		task.DurationHours = &d
	}

	if req.ClearDeadline {
		task.Deadline = nil
	} else if req.Deadline != nil {
		task.Deadline = utcPtr(req.Deadline)
	}

	if req.Priority != nil {
		if !models.IsValidPriority(*req.Priority) {
			return apperrors.InvalidFields("Validation failed", map[string]string{"priority": "must be one of: low, medium, high"})
		}
		task.Priority = *req.Priority
	}

	if req.Dependencies != nil {
		task.Dependencies = normalizeDependencies(*req.Dependencies)
	}

	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	return nil
}

// normalizeDependencies ตัดค่าว่างและค่าซ้ำ (คงลำดับเดิม)
func normalizeDependencies(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func mapTaskRepoError(op string, err error) error {
	if _, ok := apperrors.AsValidation(err); ok {
		return err
	}
	if apperrors.IsStoreError(err) {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrTaskNotFound):
		return apperrors.NotFound("task")
	case errors.Is(err, repositories.ErrVersionConflict):
		return apperrors.Conflict("task was modified by another request; reload and retry")
	default:
		return apperrors.Store(op, err)
	}
}

func (s *TaskServiceImpl) publish(ctx context.Context, eventType string, task *models.Task) {
	event := &ports.TaskEvent{
		Type:       eventType,
		TaskID:     task.ID.String(),
		OwnerID:    task.UserID.String(),
		Title:      task.Title,
		Deadline:   task.Deadline,
		Completed:  task.Completed,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.PublishTaskEvent(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish task event", "type", eventType, "task_id", event.TaskID, "error", err)
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
