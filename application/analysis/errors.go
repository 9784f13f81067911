package analysis

import "fmt"

// ProviderError - provider ใน cascade ล้มเหลว (transport, auth, timeout, quota, payload เสีย)
// ไม่เคยหลุดออกจาก Orchestrator.Analyze
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ParseFailure - ข้อความจาก provider แปลงเป็น AnalysisResult ไม่ได้
type ParseFailure struct {
	Reason string
	Err    error
}

func (e *ParseFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse failure: %s: %v", e.Reason, e.Err)
	}
	return "parse failure: " + e.Reason
}

func (e *ParseFailure) Unwrap() error {
	return e.Err
}
