package utils

import (
	"github.com/gofiber/fiber/v2"

	"todoai/pkg/apperrors"
)

// ========== Response Structures ==========

type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ========== Error Code Constants ==========

const (
	ErrCodeValidation    = "VALIDATION_ERROR"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeConflict      = "CONFLICT"
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeBlocked       = "DEPENDENCY_BLOCKED"
	ErrCodeStore         = "STORE_ERROR"
)

// ========== Success Responses ==========

func SuccessResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
	})
}

func CreatedResponse(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Data:    data,
	})
}

func NoContentResponse(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// ========== Error Responses ==========

func ErrorResponse(c *fiber.Ctx, statusCode int, code, message string, details any) error {
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

func ValidationErrorResponse(c *fiber.Ctx, details any) error {
	return ErrorResponse(
		c,
		fiber.StatusBadRequest,
		ErrCodeValidation,
		"Validation failed",
		details,
	)
}

func BadRequestResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(
		c,
		fiber.StatusBadRequest,
		ErrCodeBadRequest,
		message,
		nil,
	)
}

func UnauthorizedResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized"
	}
	return ErrorResponse(
		c,
		fiber.StatusUnauthorized,
		ErrCodeUnauthorized,
		message,
		nil,
	)
}

func NotFoundResponse(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return ErrorResponse(
		c,
		fiber.StatusNotFound,
		ErrCodeNotFound,
		message,
		nil,
	)
}

// DependencyBlockedResponse 422 เมื่อ task ยัง complete ไม่ได้เพราะ dependencies ยังไม่เสร็จ
func DependencyBlockedResponse(c *fiber.Ctx, message string, details any) error {
	return ErrorResponse(
		c,
		fiber.StatusUnprocessableEntity,
		ErrCodeBlocked,
		message,
		details,
	)
}

func ConflictResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(
		c,
		fiber.StatusConflict,
		ErrCodeConflict,
		message,
		nil,
	)
}

func InternalServerErrorResponse(c *fiber.Ctx) error {
	return ErrorResponse(
		c,
		fiber.StatusInternalServerError,
		ErrCodeInternalError,
		"Internal server error",
		nil,
	)
}

// AppErrorResponse map error จาก service layer เป็น HTTP response
//
//	invalid -> 400, not_found -> 404, blocked -> 422, conflict -> 409
//	StoreError -> 500 (แสดง message), อื่นๆ -> 500 ทั่วไป
func AppErrorResponse(c *fiber.Ctx, err error) error {
	if ve, ok := apperrors.AsValidation(err); ok {
		switch ve.Kind {
		case apperrors.KindNotFound:
			return NotFoundResponse(c, ve.Message)
		case apperrors.KindBlocked:
			return DependencyBlockedResponse(c, ve.Message, ve.Details)
		case apperrors.KindConflict:
			return ConflictResponse(c, ve.Message)
		default:
			if ve.Details != nil {
				return ErrorResponse(c, fiber.StatusBadRequest, ErrCodeValidation, ve.Message, ve.Details)
			}
			return BadRequestResponse(c, ve.Message)
		}
	}

	if apperrors.IsStoreError(err) {
		return ErrorResponse(c, fiber.StatusInternalServerError, ErrCodeStore, err.Error(), nil)
	}

	return InternalServerErrorResponse(c)
}
