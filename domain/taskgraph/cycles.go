package taskgraph

// Cycles หา dependency cycles (transitive) ด้วย iterative DFS
// ผลลัพธ์แต่ละ cycle เป็นลำดับ task ids ตามทิศทาง edge (task -> dependency)
// ใช้เพื่อ enrich ข้อมูลเท่านั้น gate ไม่ได้ใช้
func (g *Graph) Cycles() [][]string {
	const (
		white = iota
		grey
		black
	)

	color := make(map[string]int, len(g.tasks))
	var cycles [][]string

	type frame struct {
		id   string
		deps []string
		next int
	}

	for _, root := range g.tasks {
		rootID := root.ID.String()
		if color[rootID] != white {
			continue
		}

		stack := []*frame{{id: rootID, deps: g.knownDeps(root.DependencyIDs())}}
		color[rootID] = grey

		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next >= len(top.deps) {
				color[top.id] = black
				stack = stack[:len(stack)-1]
				continue
			}

			depID := top.deps[top.next]
			top.next++

			switch color[depID] {
			case white:
				dep := g.byID[depID]
				color[depID] = grey
				stack = append(stack, &frame{id: depID, deps: g.knownDeps(dep.DependencyIDs())})
			case grey:
				// back edge: ตัด path ตั้งแต่ depID ถึง top
				var cycle []string
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i].id == depID {
						for _, f := range stack[i:] {
							cycle = append(cycle, f.id)
						}
						break
					}
				}
				cycles = append(cycles, cycle)
			}
		}
	}

	return cycles
}

// InCycle คืน set ของ task ids ที่อยู่ใน cycle ใดก็ได้
func (g *Graph) InCycle() map[string]bool {
	members := make(map[string]bool)
	for _, cycle := range g.Cycles() {
		for _, id := range cycle {
			members[id] = true
		}
	}
	return members
}

func (g *Graph) knownDeps(ids []string) []string {
	known, _ := g.Resolve(ids)
	out := make([]string, 0, len(known))
	for _, t := range known {
		out = append(out, t.ID.String())
	}
	return out
}
