package serviceimpl

import (
	"context"
	"sync"
	"time"

	"todoai/domain/models"
	"todoai/domain/ports"
	"todoai/domain/repositories"
	"todoai/pkg/logger"
	"todoai/pkg/scheduler"
)

const deadlineWatcherJobID = "deadline_watcher"

// DeadlineWatcherConfig การตั้งค่าสำหรับ deadline watcher
type DeadlineWatcherConfig struct {
	CronExpr string        // default: "@every 5m"
	Window   time.Duration // แจ้งเตือน task ที่ deadline อยู่ภายในช่วงนี้ (default: 1h)
}

// DeadlineWatcherService หา task ที่ยังไม่เสร็จและใกล้ถึง deadline แล้ว publish event
// แต่ละ task ถูกแจ้งครั้งเดียวต่อ window
type DeadlineWatcherService struct {
	config    DeadlineWatcherConfig
	taskRepo  repositories.TaskRepository
	publisher ports.TaskEventPublisher
	guard     ports.DeadlineNotifyGuard
	scheduler scheduler.EventScheduler
	now       func() time.Time
}

func NewDeadlineWatcherService(
	config DeadlineWatcherConfig,
	taskRepo repositories.TaskRepository,
	publisher ports.TaskEventPublisher,
	guard ports.DeadlineNotifyGuard,
	eventScheduler scheduler.EventScheduler,
) *DeadlineWatcherService {
	if config.CronExpr == "" {
		config.CronExpr = "@every 5m"
	}
	if config.Window <= 0 {
		config.Window = time.Hour
	}
	if publisher == nil {
		publisher = ports.NoopTaskEventPublisher{}
	}
	if guard == nil {
		guard = newMemoryNotifyGuard(time.Now)
	}

	return &DeadlineWatcherService{
		config:    config,
		taskRepo:  taskRepo,
		publisher: publisher,
		guard:     guard,
		scheduler: eventScheduler,
		now:       time.Now,
	}
}

// RegisterWatcherJob ลงทะเบียน job กับ scheduler
func (s *DeadlineWatcherService) RegisterWatcherJob() error {
	if err := scheduler.ValidateCronExpression(s.config.CronExpr); err != nil {
		return err
	}
	return s.scheduler.AddJob(deadlineWatcherJobID, s.config.CronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		s.RunCheck(ctx)
	})
}

// RunCheck คืนจำนวน events ที่ publish ในรอบนี้
func (s *DeadlineWatcherService) RunCheck(ctx context.Context) int {
	now := s.now().UTC()

	tasks, err := s.taskRepo.ListDeadlineBetween(ctx, now, now.Add(s.config.Window))
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tasks near deadline", "error", err)
		return 0
	}

	published := 0
	for _, task := range tasks {
		ok, err := s.guard.ShouldNotify(ctx, notifyKey(task), s.config.Window)
		if err != nil {
			logger.WarnContext(ctx, "Deadline notify guard failed", "task_id", task.ID, "error", err)
			continue
		}
		if !ok {
			continue
		}

		event := &ports.TaskEvent{
			Type:       ports.TaskEventDeadlineApproaching,
			TaskID:     task.ID.String(),
			OwnerID:    task.UserID.String(),
			Title:      task.Title,
			Deadline:   task.Deadline,
			Completed:  task.Completed,
			OccurredAt: now,
		}
		if err := s.publisher.PublishTaskEvent(ctx, event); err != nil {
			logger.WarnContext(ctx, "Failed to publish deadline event", "task_id", task.ID, "error", err)
			continue
		}
		published++
	}

	if published > 0 {
		logger.InfoContext(ctx, "Deadline check completed", "candidates", len(tasks), "published", published)
	}
	return published
}

// notifyKey ผูกกับ deadline ด้วย ถ้า deadline ถูกเลื่อนจะแจ้งใหม่ได้
func notifyKey(task *models.Task) string {
	return "deadline_notified:" + task.ID.String() + ":" + task.Deadline.UTC().Format(time.RFC3339)
}

// memoryNotifyGuard ใช้เมื่อไม่มี Redis (instance เดียว)
type memoryNotifyGuard struct {
	mu      sync.Mutex
	expires map[string]time.Time
	now     func() time.Time
}

func newMemoryNotifyGuard(now func() time.Time) *memoryNotifyGuard {
	return &memoryNotifyGuard{expires: make(map[string]time.Time), now: now}
}

func (g *memoryNotifyGuard) ShouldNotify(_ context.Context, key string, ttl time.Duration) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, exp := range g.expires {
		if !now.Before(exp) {
			delete(g.expires, k)
		}
	}

	if _, seen := g.expires[key]; seen {
		return false, nil
	}
	g.expires[key] = now.Add(ttl)
	return true, nil
}
