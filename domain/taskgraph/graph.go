// Package taskgraph เป็น dependency graph ของ task ของ owner คนเดียว
// สร้างใหม่ทุก request จาก snapshot ที่โหลดมาจาก repository
package taskgraph

import (
	"todoai/domain/models"
)

// Graph - in-memory view ของ tasks และ dependency edges
type Graph struct {
	tasks []*models.Task
	byID  map[string]*models.Task
}

// New สร้าง Graph จาก snapshot (task ที่ซ้ำ id จะใช้ตัวแรก)
func New(tasks []*models.Task) *Graph {
	g := &Graph{
		tasks: make([]*models.Task, 0, len(tasks)),
		byID:  make(map[string]*models.Task, len(tasks)),
	}
	for _, t := range tasks {
		if t == nil {
			continue
		}
		id := t.ID.String()
		if _, exists := g.byID[id]; exists {
			continue
		}
		g.byID[id] = t
		g.tasks = append(g.tasks, t)
	}
	return g
}

// Tasks คืน tasks ตามลำดับใน snapshot
func (g *Graph) Tasks() []*models.Task {
	return g.tasks
}

// Len จำนวน task ใน graph
func (g *Graph) Len() int {
	return len(g.tasks)
}

// Get หา task ด้วย id
func (g *Graph) Get(id string) (*models.Task, bool) {
	t, ok := g.byID[id]
	return t, ok
}

// DependenciesOf resolve dependency ids ของ task (single hop เท่านั้น)
// id ที่ไม่มีใน graph คือ dangling reference และถูกแยกออกมา ไม่ใช่ error
func (g *Graph) DependenciesOf(taskID string) (known []*models.Task, dangling []string) {
	t, ok := g.byID[taskID]
	if !ok {
		return nil, nil
	}
	return g.Resolve(t.DependencyIDs())
}

// Resolve แปลง dependency ids เป็น tasks ที่รู้จัก
func (g *Graph) Resolve(ids []string) (known []*models.Task, dangling []string) {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		if dep, ok := g.byID[id]; ok {
			known = append(known, dep)
		} else {
			dangling = append(dangling, id)
		}
	}
	return known, dangling
}
