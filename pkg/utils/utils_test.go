package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"todoai/pkg/apperrors"
)

func TestGenerateAndValidateToken(t *testing.T) {
	user := UserContext{ID: uuid.New(), Username: "alice", Email: "alice@example.com"}

	token, err := GenerateToken(user, "secret", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	got, err := ValidateTokenStringToUUID("Bearer "+token, "secret")
	if err != nil {
		t.Fatalf("ValidateTokenStringToUUID: %v", err)
	}
	if got.ID != user.ID || got.Email != user.Email || got.Username != user.Username {
		t.Errorf("claims = %+v, want %+v", got, user)
	}

	if _, err := ValidateTokenStringToUUID(token, "other-secret"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("wrong secret: err = %v, want ErrInvalidToken", err)
	}
	if _, err := ValidateTokenStringToUUID("", "secret"); !errors.Is(err, ErrMissingToken) {
		t.Errorf("empty token: err = %v, want ErrMissingToken", err)
	}
}

func TestExpiredToken(t *testing.T) {
	user := UserContext{ID: uuid.New()}
	token, err := GenerateToken(user, "secret", time.Minute, time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ValidateTokenStringToUUID(token, "secret"); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("err = %v, want ErrExpiredToken", err)
	}
}

type sampleRequest struct {
	Title    string `json:"title" validate:"required,max=5"`
	Priority string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

func TestGetValidationErrorsUsesJSONNames(t *testing.T) {
	err := ValidateStruct(&sampleRequest{Priority: "urgent"})
	if err == nil {
		t.Fatal("expected validation error")
	}

	details := GetValidationErrors(err)
	if details["title"] != "is required" {
		t.Errorf("title = %q", details["title"])
	}
	if details["priority"] != "must be one of: low, medium, high" {
		t.Errorf("priority = %q", details["priority"])
	}
}

func TestAppErrorResponseStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid", apperrors.Invalid("bad"), fiber.StatusBadRequest, ErrCodeBadRequest},
		{"invalid with fields", apperrors.InvalidFields("bad", map[string]string{"title": "is required"}), fiber.StatusBadRequest, ErrCodeValidation},
		{"not found", apperrors.NotFound("task"), fiber.StatusNotFound, ErrCodeNotFound},
		{"blocked", apperrors.Blocked([]string{"A"}), fiber.StatusUnprocessableEntity, ErrCodeBlocked},
		{"conflict", apperrors.Conflict("stale"), fiber.StatusConflict, ErrCodeConflict},
		{"store", apperrors.Store("list tasks", errors.New("disk full")), fiber.StatusInternalServerError, ErrCodeStore},
		{"other", errors.New("boom"), fiber.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return AppErrorResponse(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}

			body, _ := io.ReadAll(resp.Body)
			var envelope Response
			if err := json.Unmarshal(body, &envelope); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if envelope.Success || envelope.Error == nil || envelope.Error.Code != tt.code {
				t.Errorf("envelope = %s", body)
			}
		})
	}
}
