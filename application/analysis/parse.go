package analysis

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"

	"todoai/domain/models"
)

var payloadValidator = validator.New()

// looseString รับได้ทั้ง string และ number (model บางตัวส่ง taskId เป็นตัวเลข)
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

type riskPayload struct {
	TaskID    looseString `json:"taskId" validate:"required"`
	TaskTitle looseString `json:"taskTitle"`
	Message   looseString `json:"message" validate:"required"`
}

type analysisPayload struct {
	Risks       []riskPayload `json:"risks" validate:"required,dive"`
	Suggestions []string      `json:"suggestions" validate:"required"`
}

// ExtractPayload ตัดข้อความตั้งแต่ '{' ตัวแรกถึง '}' ตัวสุดท้าย
// รองรับ response ที่มีข้อความหรือ markdown fence ห่อไว้
func ExtractPayload(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 {
		return "", &ParseFailure{Reason: "no JSON object delimiters in response"}
	}
	if end < start {
		return "", &ParseFailure{Reason: "closing brace appears before opening brace"}
	}
	return text[start : end+1], nil
}

// ParsePayload แปลงและตรวจสอบ payload, error ที่คืนเป็น *ParseFailure เสมอ
func ParsePayload(payload string) (*models.AnalysisResult, error) {
	var p analysisPayload
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, &ParseFailure{Reason: "malformed JSON payload", Err: err}
	}

	for i := range p.Risks {
		p.Risks[i].TaskID = looseString(strings.TrimSpace(string(p.Risks[i].TaskID)))
		p.Risks[i].Message = looseString(strings.TrimSpace(string(p.Risks[i].Message)))
	}

	if err := payloadValidator.Struct(&p); err != nil {
		return nil, &ParseFailure{Reason: "payload does not match the risks/suggestions shape", Err: err}
	}

	result := &models.AnalysisResult{
		Risks:       make([]models.RiskFinding, 0, len(p.Risks)),
		Suggestions: make([]string, 0, len(p.Suggestions)),
	}
	for _, r := range p.Risks {
		result.Risks = append(result.Risks, models.RiskFinding{
			TaskID:    string(r.TaskID),
			TaskTitle: strings.TrimSpace(string(r.TaskTitle)),
			Message:   string(r.Message),
		})
	}
	for _, s := range p.Suggestions {
		if s = strings.TrimSpace(s); s != "" {
			result.Suggestions = append(result.Suggestions, s)
		}
	}
	return result, nil
}
