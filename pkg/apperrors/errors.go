// Package apperrors กำหนด error taxonomy ของ API
//
//   - ValidationError: user-facing (4xx) เช่น field ไม่ถูกต้อง, ไม่พบ resource, dependency ยังไม่เสร็จ
//   - StoreError: system fault จากชั้น persistence (5xx)
//
// Provider errors ของ AI ไม่อยู่ที่นี่ เพราะไม่เคยหลุดออกจาก analysis orchestrator
package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// Kind ประเภทของ ValidationError
type Kind string

const (
	KindInvalid  Kind = "invalid"
	KindNotFound Kind = "not_found"
	KindBlocked  Kind = "blocked"
	KindConflict Kind = "conflict"
)

// ValidationError - error ที่แสดงผลให้ผู้ใช้ได้
type ValidationError struct {
	Kind    Kind
	Message string
	Details any
}

func (e *ValidationError) Error() string {
	return e.Message
}

// StoreError - persistence layer ล้มเหลว (connection, constraint)
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return e.Op
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ═══════════════════════════════════════════════════════════════════════════════
// Constructors
// ═══════════════════════════════════════════════════════════════════════════════

func Invalid(message string) *ValidationError {
	return &ValidationError{Kind: KindInvalid, Message: message}
}

func InvalidFields(message string, details any) *ValidationError {
	return &ValidationError{Kind: KindInvalid, Message: message, Details: details}
}

func NotFound(resource string) *ValidationError {
	return &ValidationError{Kind: KindNotFound, Message: resource + " not found"}
}

func Conflict(message string) *ValidationError {
	return &ValidationError{Kind: KindConflict, Message: message}
}

// Blocked สร้าง error สำหรับ dependency gate พร้อมรายชื่อ task ที่ยังไม่เสร็จ
func Blocked(blockingTitles []string) *ValidationError {
	return &ValidationError{
		Kind:    KindBlocked,
		Message: "cannot complete task; blocked by incomplete dependencies: " + strings.Join(blockingTitles, ", "),
		Details: map[string][]string{"blockedBy": blockingTitles},
	}
}

func Store(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// ═══════════════════════════════════════════════════════════════════════════════
// Classification
// ═══════════════════════════════════════════════════════════════════════════════

// AsValidation ดึง ValidationError ออกจาก error chain
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsKind ตรวจสอบว่า err เป็น ValidationError ชนิดที่กำหนด
func IsKind(err error, kind Kind) bool {
	ve, ok := AsValidation(err)
	return ok && ve.Kind == kind
}

func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
