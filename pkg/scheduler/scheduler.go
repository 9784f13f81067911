package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"todoai/pkg/logger"
)

// EventScheduler - background jobs (เช่น deadline watcher)
type EventScheduler interface {
	Start()
	Stop()
	AddJob(id, cronExpr string, task func()) error
	RemoveJob(id string) error
	ListJobs() map[string]*JobInfo
	IsRunning() bool
}

type JobInfo struct {
	ID       string
	CronExpr string
	LastRun  *time.Time
	NextRun  *time.Time
}

type GocronScheduler struct {
	scheduler *gocron.Scheduler
	jobs      map[string]*registeredJob
	mu        sync.RWMutex
	running   bool
}

type registeredJob struct {
	cronExpr string
	job      *gocron.Job
	lastRun  *time.Time
}

func NewEventScheduler() *GocronScheduler {
	scheduler := gocron.NewScheduler(time.UTC)
	// job เดิมไม่รันซ้อนกันถ้ารอบก่อนยังไม่จบ
	scheduler.SingletonModeAll()

	return &GocronScheduler{
		scheduler: scheduler,
		jobs:      make(map[string]*registeredJob),
	}
}

func (s *GocronScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.scheduler.StartAsync()
	s.running = true
	logger.Info("Event scheduler started", "jobs", len(s.jobs))
}

func (s *GocronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.scheduler.Stop()
	s.running = false
	logger.Info("Event scheduler stopped")
}

func (s *GocronScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *GocronScheduler) AddJob(id, cronExpr string, task func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[id]; exists {
		return fmt.Errorf("job with ID %s already exists", id)
	}

	job, err := s.scheduler.Cron(cronExpr).Do(func() {
		now := time.Now()
		logger.Debug("Executing job", "job_id", id)

		s.mu.Lock()
		if j, ok := s.jobs[id]; ok {
			j.lastRun = &now
		}
		s.mu.Unlock()

		task()
	})
	if err != nil {
		return fmt.Errorf("failed to create job %s: %w", id, err)
	}

	s.jobs[id] = &registeredJob{cronExpr: cronExpr, job: job}

	logger.Info("Job added", "job_id", id, "cron", cronExpr, "next_run", job.NextRun().Format(time.RFC3339))
	return nil
}

func (s *GocronScheduler) RemoveJob(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job with ID %s not found", id)
	}

	s.scheduler.RemoveByReference(j.job)
	delete(s.jobs, id)
	logger.Info("Job removed", "job_id", id)
	return nil
}

// ListJobs คืน snapshot (copy) ของ jobs ทั้งหมด
func (s *GocronScheduler) ListJobs() map[string]*JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make(map[string]*JobInfo, len(s.jobs))
	for id, j := range s.jobs {
		info := &JobInfo{ID: id, CronExpr: j.cronExpr}
		if j.lastRun != nil {
			lastRun := *j.lastRun
			info.LastRun = &lastRun
		}
		nextRun := j.job.NextRun()
		info.NextRun = &nextRun
		jobs[id] = info
	}
	return jobs
}

// ValidateCronExpression ตรวจ expression ก่อนลงทะเบียน job
func ValidateCronExpression(cronExpr string) error {
	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Cron(cronExpr).Do(func() {}); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}
	return nil
}
