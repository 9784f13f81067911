package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todoai/domain/models"
	"todoai/domain/repositories"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(DatabaseConfig{Driver: DriverSQLite, Path: ":memory:", LogLevel: "silent"})
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedTask(t *testing.T, repo repositories.TaskRepository, owner uuid.UUID, title string, created time.Time, deps ...string) *models.Task {
	t.Helper()
	task := &models.Task{
		ID:           uuid.New(),
		UserID:       owner,
		Title:        title,
		Priority:     models.PriorityMedium,
		Dependencies: deps,
		Version:      1,
		CreatedAt:    created,
	}
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatalf("Create(%s): %v", title, err)
	}
	return task
}

func TestTaskRepositoryOwnershipScoping(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(openTestDB(t))

	ownerX := uuid.New()
	ownerY := uuid.New()
	base := time.Now().UTC()
	taskY := seedTask(t, repo, ownerY, "Y's task", base)

	if _, err := repo.GetByID(ctx, taskY.ID, ownerX); !errors.Is(err, repositories.ErrTaskNotFound) {
		t.Errorf("GetByID cross-owner err = %v, want ErrTaskNotFound", err)
	}
	if _, err := repo.GetByID(ctx, uuid.New(), ownerX); !errors.Is(err, repositories.ErrTaskNotFound) {
		t.Errorf("GetByID missing err = %v, want ErrTaskNotFound", err)
	}

	_, err := repo.UpdateOwned(ctx, taskY.ID, ownerX, func(ctx context.Context, _ repositories.TaskReader, task *models.Task) error {
		task.Title = "hijacked"
		return nil
	})
	if !errors.Is(err, repositories.ErrTaskNotFound) {
		t.Errorf("UpdateOwned cross-owner err = %v, want ErrTaskNotFound", err)
	}

	deleted, err := repo.Delete(ctx, taskY.ID, ownerX)
	if err != nil || deleted {
		t.Errorf("Delete cross-owner = (%v, %v), want (false, nil)", deleted, err)
	}
	deletedMissing, err := repo.Delete(ctx, uuid.New(), ownerX)
	if err != nil || deletedMissing {
		t.Errorf("Delete missing = (%v, %v), want (false, nil)", deletedMissing, err)
	}

	got, err := repo.GetByID(ctx, taskY.ID, ownerY)
	if err != nil {
		t.Fatalf("GetByID owner: %v", err)
	}
	if got.Title != "Y's task" {
		t.Errorf("title = %q, task was modified by another owner", got.Title)
	}

	listX, err := repo.ListByOwner(ctx, ownerX)
	if err != nil || len(listX) != 0 {
		t.Errorf("ListByOwner(X) = %d tasks, err %v; want 0", len(listX), err)
	}
}

func TestTaskRepositoryDependenciesRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewTaskRepository(db)
	owner := uuid.New()
	base := time.Now().UTC()

	a := seedTask(t, repo, owner, "A", base)
	seedTask(t, repo, owner, "B", base.Add(time.Second), a.ID.String(), "dangling")
	c := seedTask(t, repo, owner, "C", base.Add(2*time.Second))

	// legacy rows: dependencies เป็น NULL หรือ string ว่าง
	if err := db.Exec("UPDATE tasks SET dependencies = NULL WHERE id = ?", a.ID).Error; err != nil {
		t.Fatalf("null deps: %v", err)
	}
	if err := db.Exec("UPDATE tasks SET dependencies = '' WHERE id = ?", c.ID).Error; err != nil {
		t.Fatalf("empty deps: %v", err)
	}

	tasks, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("got %d tasks, want 3", len(tasks))
	}
	if tasks[0].Title != "A" || tasks[1].Title != "B" || tasks[2].Title != "C" {
		t.Errorf("order = %s,%s,%s; want insertion order", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
	if deps := tasks[0].DependencyIDs(); len(deps) != 0 {
		t.Errorf("NULL deps = %v, want empty", deps)
	}
	if deps := tasks[2].DependencyIDs(); len(deps) != 0 {
		t.Errorf("empty deps = %v, want empty", deps)
	}
	deps := tasks[1].DependencyIDs()
	if len(deps) != 2 || deps[0] != a.ID.String() || deps[1] != "dangling" {
		t.Errorf("B deps = %v", deps)
	}
}

func TestTaskRepositoryUpdateOwned(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(openTestDB(t))
	owner := uuid.New()
	task := seedTask(t, repo, owner, "Draft", time.Now().UTC())

	deadline := time.Date(2030, 1, 2, 15, 0, 0, 0, time.UTC)
	updated, err := repo.UpdateOwned(ctx, task.ID, owner, func(ctx context.Context, reader repositories.TaskReader, row *models.Task) error {
		snapshot, err := reader.ListByOwner(ctx, owner)
		if err != nil {
			return err
		}
		if len(snapshot) != 1 {
			t.Errorf("snapshot inside tx has %d tasks, want 1", len(snapshot))
		}
		row.Title = "Final"
		row.Deadline = &deadline
		row.Completed = true
		row.UserID = uuid.New() // must be ignored
		return nil
	})
	if err != nil {
		t.Fatalf("UpdateOwned: %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("version = %d, want 2", updated.Version)
	}

	reloaded, err := repo.GetByID(ctx, task.ID, owner)
	if err != nil {
		t.Fatalf("owner changed or row lost: %v", err)
	}
	if reloaded.Title != "Final" || !reloaded.Completed || reloaded.Deadline == nil || !reloaded.Deadline.Equal(deadline) {
		t.Errorf("reloaded = %+v", reloaded)
	}

	// clear optional field
	_, err = repo.UpdateOwned(ctx, task.ID, owner, func(ctx context.Context, _ repositories.TaskReader, row *models.Task) error {
		row.Deadline = nil
		row.Completed = false
		return nil
	})
	if err != nil {
		t.Fatalf("second UpdateOwned: %v", err)
	}
	reloaded, _ = repo.GetByID(ctx, task.ID, owner)
	if reloaded.Deadline != nil || reloaded.Completed || reloaded.Version != 3 {
		t.Errorf("after clear = %+v", reloaded)
	}
}

func TestTaskRepositoryUpdateOwnedRollsBackOnMutatorError(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(openTestDB(t))
	owner := uuid.New()
	task := seedTask(t, repo, owner, "Keep me", time.Now().UTC())

	sentinel := errors.New("rejected")
	_, err := repo.UpdateOwned(ctx, task.ID, owner, func(ctx context.Context, _ repositories.TaskReader, row *models.Task) error {
		row.Title = "changed"
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}

	got, _ := repo.GetByID(ctx, task.ID, owner)
	if got.Title != "Keep me" || got.Version != 1 {
		t.Errorf("row changed despite rejection: %+v", got)
	}
}

func TestTaskRepositoryVersionConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(openTestDB(t))
	owner := uuid.New()
	task := seedTask(t, repo, owner, "Contended", time.Now().UTC())

	_, err := repo.UpdateOwned(ctx, task.ID, owner, func(ctx context.Context, reader repositories.TaskReader, row *models.Task) error {
		// จำลองการเขียนซ้อนระหว่าง read กับ write (ผ่าน tx เดียวกัน เพราะ sqlite มี connection เดียว)
		tx := reader.(*TaskRepositoryImpl).db
		return tx.Exec("UPDATE tasks SET version = version + 1 WHERE id = ?", task.ID).Error
	})
	if !errors.Is(err, repositories.ErrVersionConflict) {
		t.Errorf("err = %v, want ErrVersionConflict", err)
	}
}

func TestTaskRepositoryDeleteAndCount(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(openTestDB(t))
	owner := uuid.New()
	task := seedTask(t, repo, owner, "Temp", time.Now().UTC())
	seedTask(t, repo, owner, "Keep", time.Now().UTC())

	deleted, err := repo.Delete(ctx, task.ID, owner)
	if err != nil || !deleted {
		t.Fatalf("Delete = (%v, %v), want (true, nil)", deleted, err)
	}
	count, err := repo.CountByOwner(ctx, owner)
	if err != nil || count != 1 {
		t.Errorf("CountByOwner = (%d, %v), want 1", count, err)
	}
}

func TestTaskRepositoryListDeadlineBetween(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository(openTestDB(t))
	owner := uuid.New()
	now := time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

	mk := func(title string, deadline *time.Time, completed bool) {
		task := &models.Task{ID: uuid.New(), UserID: owner, Title: title, Priority: models.PriorityLow, Deadline: deadline, Completed: completed, Version: 1}
		if err := repo.Create(ctx, task); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	at := func(d time.Duration) *time.Time { v := now.Add(d); return &v }

	mk("soon", at(30*time.Minute), false)
	mk("soon but done", at(40*time.Minute), true)
	mk("later", at(5*time.Hour), false)
	mk("past", at(-time.Hour), false)
	mk("no deadline", nil, false)

	tasks, err := repo.ListDeadlineBetween(ctx, now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("ListDeadlineBetween: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "soon" {
		t.Errorf("got %d tasks, want only 'soon'", len(tasks))
	}
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(openTestDB(t))

	user := &models.User{ID: uuid.New(), Email: "ada@example.com", Username: "ada", Password: "hash"}
	if err := repo.Create(ctx, user); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := &models.User{ID: uuid.New(), Email: "ada@example.com", Username: "other", Password: "hash"}
	if err := repo.Create(ctx, dup); err == nil {
		t.Error("duplicate email should violate the unique index")
	}

	if got, err := repo.GetByEmail(ctx, "ada@example.com"); err != nil || got.ID != user.ID {
		t.Errorf("GetByEmail = (%v, %v)", got, err)
	}
	if got, err := repo.GetByUsername(ctx, "ada"); err != nil || got.ID != user.ID {
		t.Errorf("GetByUsername = (%v, %v)", got, err)
	}
	if _, err := repo.GetByID(ctx, uuid.New()); !errors.Is(err, repositories.ErrUserNotFound) {
		t.Errorf("GetByID missing err = %v, want ErrUserNotFound", err)
	}
}
