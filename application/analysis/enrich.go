package analysis

import (
	"math"
	"time"

	"todoai/domain/taskgraph"
)

// EnrichedTask - task ที่เติมข้อมูลเวลาไว้แล้ว เพื่อไม่ให้ model ต้องคำนวณวันที่เอง
type EnrichedTask struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	DurationHours     *float64 `json:"duration,omitempty"`
	Deadline          string   `json:"deadline,omitempty"`
	Priority          string   `json:"priority"`
	Dependencies      []string `json:"dependencies"`
	Completed         bool     `json:"completed"`
	HoursRemaining    *float64 `json:"hoursRemaining,omitempty"`
	IsOverdue         bool     `json:"isOverdue,omitempty"`
	InDependencyCycle bool     `json:"inDependencyCycle,omitempty"`
}

// Enrich แปลง snapshot เป็น EnrichedTask ตามลำดับเดิม
// hoursRemaining = (deadline - now) หน่วยชั่วโมง ปัดทศนิยม 1 ตำแหน่ง ค่าติดลบคือเลยกำหนด
func Enrich(graph *taskgraph.Graph, now time.Time) []EnrichedTask {
	cycles := graph.InCycle()
	tasks := graph.Tasks()

	out := make([]EnrichedTask, 0, len(tasks))
	for _, t := range tasks {
		e := EnrichedTask{
			ID:                t.ID.String(),
			Title:             t.Title,
			DurationHours:     t.DurationHours,
			Priority:          t.Priority,
			Dependencies:      t.DependencyIDs(),
			Completed:         t.Completed,
			InDependencyCycle: cycles[t.ID.String()],
		}

		if t.HasDeadline() {
			e.Deadline = t.Deadline.UTC().Format(time.RFC3339)
			hours := roundTenth(t.Deadline.Sub(now).Hours())
			e.HoursRemaining = &hours
			e.IsOverdue = hours < 0
		}

		out = append(out, e)
	}
	return out
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
