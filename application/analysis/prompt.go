package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// BuildPrompt สร้าง prompt ที่ไม่ผูกกับ provider ใด
func BuildPrompt(tasks []EnrichedTask, now time.Time) (string, error) {
	snapshot, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal task snapshot: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a project-planning assistant reviewing a personal task list.\n")
	fmt.Fprintf(&b, "Current time (UTC): %s\n\n", now.UTC().Format(time.RFC3339))
	b.WriteString("Tasks (JSON). \"duration\" is the estimated effort in hours, \"hoursRemaining\" is the time left until the deadline ")
	b.WriteString("(negative means the deadline has passed), \"dependencies\" lists the ids of tasks that must be finished first ")
	b.WriteString("and \"inDependencyCycle\" marks tasks whose dependencies loop back to themselves:\n")
	b.Write(snapshot)
	b.WriteString("\n\nIgnore tasks that are already completed when looking for risks. Then:\n")
	b.WriteString("1. Flag every task that is overdue (isOverdue is true) or over-committed (duration is greater than hoursRemaining).\n")
	b.WriteString("2. Flag dependency ordering conflicts: a task that depends on another task whose deadline is later than its own deadline, ")
	b.WriteString("and any task marked inDependencyCycle.\n")
	b.WriteString("3. Suggest a better order of work based on priority (high, medium, low) and urgency.\n")
	b.WriteString("4. Respond with JSON only, no markdown and no commentary, in exactly this shape:\n")
	b.WriteString(`{"risks":[{"taskId":"<task id>","taskTitle":"<task title>","message":"<why this task is at risk>"}],"suggestions":["<suggestion>"]}`)
	b.WriteString("\nIf nothing is at risk, return an empty \"risks\" array and one or two encouraging suggestions.\n")

	return b.String(), nil
}
