package taskgraph

import (
	"todoai/domain/models"
	"todoai/pkg/apperrors"
)

// Blockers คืน dependencies ที่มีอยู่จริงและยังไม่ completed
func (g *Graph) Blockers(depIDs []string) []*models.Task {
	known, _ := g.Resolve(depIDs)

	var blocking []*models.Task
	for _, dep := range known {
		if !dep.Completed {
			blocking = append(blocking, dep)
		}
	}
	return blocking
}

// CheckCompletion ตัดสินว่าคำขอ update อนุญาตหรือไม่
//
// requested คือค่า completed ใหม่ (nil = ไม่ได้แก้ field นี้)
// effectiveDeps คือ dependency set หลัง apply update (request อาจแทนที่ dependencies ด้วย)
func CheckCompletion(requested *bool, effectiveDeps []string, snapshot *Graph) error {
	if requested == nil || !*requested {
		return nil
	}

	blocking := snapshot.Blockers(effectiveDeps)
	if len(blocking) == 0 {
		return nil
	}

	titles := make([]string, 0, len(blocking))
	for _, t := range blocking {
		titles = append(titles, t.Title)
	}
	return apperrors.Blocked(titles)
}
