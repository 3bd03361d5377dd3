package scheduling

import (
	"github.com/lkleinbrodt/chewy/internal/cerrors"
	"github.com/lkleinbrodt/chewy/internal/models"
	"github.com/lkleinbrodt/chewy/internal/solver"
)

// detectCycle reports whether the dependency edge set (task_id ->
// dependency_id) contains a cycle, restricted to edges where both ends are
// present in byID. Edges referencing a task outside the batch are skipped
// here, per §4.5.
func detectCycle(edges []models.TaskDependency, byID map[string]*taskVar) bool {
	adj := map[string][]string{}
	for _, e := range edges {
		if _, ok := byID[e.TaskID]; !ok {
			continue
		}
		if _, ok := byID[e.DependencyID]; !ok {
			continue
		}
		adj[e.TaskID] = append(adj[e.TaskID], e.DependencyID)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[string]int{}

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = gray
		for _, next := range adj[id] {
			switch color[next] {
			case gray:
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for id := range byID {
		if color[id] == white {
			if visit(id) {
				return true
			}
		}
	}
	return false
}

// addDependencyConstraints wires start(A) >= end(B) for every edge A -> B
// where both ends are in the current batch, per §4.5. Edges referencing a
// task outside byID are dropped silently; this is the spec's explicit
// design choice, not an error.
func addDependencyConstraints(model *solver.Model, edges []models.TaskDependency, byID map[string]*taskVar) error {
	if detectCycle(edges, byID) {
		return cerrors.New(cerrors.KindDependencyCycle, "dependency graph contains a cycle")
	}

	for _, e := range edges {
		a, aok := byID[e.TaskID]
		b, bok := byID[e.DependencyID]
		if !aok || !bok {
			continue
		}
		model.AddDiffGE(a.interval.Start, b.interval.End, 0)
	}
	return nil
}
