package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"todoai/application/analysis"
	"todoai/application/serviceimpl"
	"todoai/domain/ports"
	"todoai/infrastructure/postgres"
	"todoai/interfaces/api/handlers"
	"todoai/interfaces/api/middleware"
)

const testSecret = "routes-test-secret"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := postgres.NewDatabase(postgres.DatabaseConfig{Driver: postgres.DriverSQLite, Path: ":memory:", LogLevel: "silent"})
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	taskRepo := postgres.NewTaskRepository(db)
	orch := analysis.NewOrchestrator([]ports.ModelProvider{}, analysis.Options{Timeout: time.Second})

	h := handlers.NewHandlers(&handlers.Services{
		UserService:     serviceimpl.NewUserService(postgres.NewUserRepository(db), testSecret, time.Hour),
		TaskService:     serviceimpl.NewTaskService(taskRepo, nil),
		AnalysisService: serviceimpl.NewAnalysisService(taskRepo, orch, nil, 0),
		DB:              db,
	})

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestIDMiddleware())
	SetupRoutes(app, h, testSecret)
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp.StatusCode, env
}

func register(t *testing.T, app *fiber.App, email, username string) string {
	t.Helper()
	status, env := call(t, app, "POST", "/api/v1/auth/register", "", map[string]string{
		"email": email, "username": username, "password": "password123",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register status = %d (%+v)", status, env.Error)
	}
	var auth struct {
		Token string `json:"token"`
	}
	json.Unmarshal(env.Data, &auth)
	return auth.Token
}

type taskBody struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func createTask(t *testing.T, app *fiber.App, token, title string, deps ...string) taskBody {
	t.Helper()
	if deps == nil {
		deps = []string{}
	}
	status, env := call(t, app, "POST", "/api/v1/tasks", token, map[string]any{
		"title": title, "priority": "high", "dependencies": deps,
	})
	if status != fiber.StatusCreated {
		t.Fatalf("create %s status = %d (%+v)", title, status, env.Error)
	}
	var task taskBody
	json.Unmarshal(env.Data, &task)
	return task
}

func TestTaskLifecycleWithDependencyGate(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "dana@example.com", "dana")

	a := createTask(t, app, token, "Design")
	b := createTask(t, app, token, "Build", a.ID)

	status, env := call(t, app, "PUT", "/api/v1/tasks/"+b.ID, token, map[string]any{"completed": true})
	if status != fiber.StatusUnprocessableEntity {
		t.Fatalf("blocked update status = %d, want 422", status)
	}
	if env.Error == nil || env.Error.Code != "DEPENDENCY_BLOCKED" {
		t.Fatalf("error = %+v", env.Error)
	}
	var details struct {
		BlockedBy []string `json:"blockedBy"`
	}
	json.Unmarshal(env.Error.Details, &details)
	if len(details.BlockedBy) != 1 || details.BlockedBy[0] != "Design" {
		t.Errorf("blockedBy = %v", details.BlockedBy)
	}

	if status, _ := call(t, app, "PUT", "/api/v1/tasks/"+a.ID, token, map[string]any{"completed": true}); status != fiber.StatusOK {
		t.Fatalf("complete A status = %d", status)
	}
	status, env = call(t, app, "PUT", "/api/v1/tasks/"+b.ID, token, map[string]any{"completed": true})
	if status != fiber.StatusOK {
		t.Fatalf("complete B status = %d (%+v)", status, env.Error)
	}

	status, env = call(t, app, "GET", "/api/v1/tasks", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	var tasks []taskBody
	json.Unmarshal(env.Data, &tasks)
	if len(tasks) != 2 || !tasks[0].Completed || !tasks[1].Completed {
		t.Errorf("tasks = %+v", tasks)
	}

	if status, _ := call(t, app, "DELETE", "/api/v1/tasks/"+a.ID, token, nil); status != fiber.StatusNoContent {
		t.Errorf("delete status = %d", status)
	}
	if status, _ := call(t, app, "GET", "/api/v1/tasks/"+a.ID, token, nil); status != fiber.StatusNotFound {
		t.Errorf("get deleted status = %d", status)
	}
}

func TestOtherOwnersTasksLookAbsent(t *testing.T) {
	app := newTestApp(t)
	owner := register(t, app, "erin@example.com", "erin")
	intruder := register(t, app, "frank@example.com", "frank")

	task := createTask(t, app, owner, "Secret plan")

	statusForeign, envForeign := call(t, app, "PUT", "/api/v1/tasks/"+task.ID, intruder, map[string]any{"title": "mine now"})
	statusMissing, envMissing := call(t, app, "PUT", "/api/v1/tasks/00000000-0000-0000-0000-000000000000", intruder, map[string]any{"title": "mine now"})
	if statusForeign != fiber.StatusNotFound || statusMissing != fiber.StatusNotFound {
		t.Fatalf("statuses = %d, %d, want 404", statusForeign, statusMissing)
	}
	if envForeign.Error == nil || envMissing.Error == nil {
		t.Fatal("expected error bodies")
	}
	if envForeign.Error.Message != envMissing.Error.Message {
		t.Errorf("messages differ: %q vs %q", envForeign.Error.Message, envMissing.Error.Message)
	}

	_, env := call(t, app, "GET", "/api/v1/tasks", intruder, nil)
	var tasks []taskBody
	json.Unmarshal(env.Data, &tasks)
	if len(tasks) != 0 {
		t.Errorf("intruder sees %d tasks", len(tasks))
	}
}

func TestRequestsRequireToken(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/api/v1/tasks", "/api/v1/auth/me"} {
		if status, _ := call(t, app, "GET", path, "", nil); status != fiber.StatusUnauthorized {
			t.Errorf("GET %s without token = %d", path, status)
		}
	}
	if status, _ := call(t, app, "GET", "/api/v1/tasks", "not-a-jwt", nil); status != fiber.StatusUnauthorized {
		t.Errorf("bad token status = %d", status)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "gina@example.com", "gina")

	status, env := call(t, app, "POST", "/api/v1/tasks", token, map[string]any{"title": "", "priority": "urgent"})
	if status != fiber.StatusBadRequest || env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("status = %d, error = %+v", status, env.Error)
	}
}

func TestDuplicateRegistrationConflict(t *testing.T) {
	app := newTestApp(t)
	register(t, app, "hank@example.com", "hank")

	status, _ := call(t, app, "POST", "/api/v1/auth/register", "", map[string]string{
		"email": "hank@example.com", "username": "hank2", "password": "password123",
	})
	if status != fiber.StatusConflict {
		t.Errorf("status = %d, want 409", status)
	}

	status, _ = call(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"email": "hank@example.com", "password": "wrong-password",
	})
	if status != fiber.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", status)
	}
}

func TestAnalyzeReturnsFallbackWithoutProviders(t *testing.T) {
	app := newTestApp(t)
	token := register(t, app, "ivy@example.com", "ivy")
	createTask(t, app, token, "Write tests")

	status, env := call(t, app, "POST", "/api/v1/analyze", token, nil)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var result struct {
		Risks       []any    `json:"risks"`
		Suggestions []string `json:"suggestions"`
		Fallback    bool     `json:"fallback"`
	}
	json.Unmarshal(env.Data, &result)
	if !result.Fallback || result.Risks == nil || len(result.Risks) != 0 || len(result.Suggestions) != 1 {
		t.Errorf("result = %+v", result)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body struct {
		Status     string                       `json:"status"`
		Components map[string]map[string]string `json:"components"`
	}
	json.NewDecoder(resp.Body).Decode(&body)
	if body.Status != "ok" || body.Components["database"]["status"] != "ok" || body.Components["redis"]["status"] != "disabled" {
		t.Errorf("body = %+v", body)
	}
}
