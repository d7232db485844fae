package pipeline

import (
	"fmt"
	"sort"
)

// BuildOrder returns a deterministic topological order of the steps. The exit
// handler, which is outside the dependency graph, sorts last. Ties break
// lexicographically so compiled documents are reproducible.
func BuildOrder(def Definition) ([]string, error) {
	inDegree := make(map[string]int, len(def.Steps))
	adj := make(map[string][]string, len(def.Steps))
	for _, step := range def.Steps {
		if step.Name == def.ExitHandler {
			continue
		}
		inDegree[step.Name] = 0
	}
	for _, dep := range def.Dependencies {
		adj[dep.From] = append(adj[dep.From], dep.To)
		inDegree[dep.To]++
	}

	ready := make([]string, 0, len(inDegree))
	for name, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	ordered := make([]string, 0, len(def.Steps))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		ordered = append(ordered, name)
		for _, next := range adj[name] {
			inDegree[next]--
			if inDegree[next] == 0 {
				ready = append(ready, next)
				sort.Strings(ready)
			}
		}
	}

	if len(ordered) != len(inDegree) {
		return nil, fmt.Errorf("dependency graph contains a cycle")
	}
	if def.ExitHandler != "" {
		ordered = append(ordered, def.ExitHandler)
	}
	return ordered, nil
}
