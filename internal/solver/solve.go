package solver

import (
	"context"
	"sort"
)

// Status mirrors the subset of cp_model.CpSolverStatus values this engine
// can produce.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusFeasible
	StatusInfeasible
	StatusTimeout
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "OPTIMAL"
	case StatusFeasible:
		return "FEASIBLE"
	case StatusInfeasible:
		return "INFEASIBLE"
	case StatusTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// Solver runs a bounded search over a Model.
type Solver struct {
	nodesSinceCheck int
}

// NewSolver returns a ready-to-use Solver.
func NewSolver() *Solver {
	return &Solver{}
}

// Value returns the value assigned to v by the most recent successful
// Solve call. Behavior is undefined if called before a feasible solve.
func (s *Solver) Value(v *IntVar) int {
	return v.value
}

type ivOwner struct {
	iv       *IntervalVar
	isStart  bool
}

// edge is a precedence constraint: from (a Start var's owning interval)
// must not start before to (a End var's owning interval) ends.
type edge struct {
	from, to *IntervalVar
}

// solveState carries the mutable search context threaded through the
// recursive search so Solve itself stays small.
type solveState struct {
	ctx        context.Context
	groups     []*IntervalVar // interval membership per NoOverlap group, flattened below
	groupOf    map[*IntervalVar][]int
	groupMembers [][]*IntervalVar
	deps       []edge
	timedOut   bool
	nodes      int
}

// Solve runs the search. The context's deadline, if any, bounds the search;
// exceeding it yields StatusTimeout with no side effects on the model's
// variables beyond whatever partial assignment existed at that instant
// (callers must not read Value() after a Timeout/Infeasible result).
func (s *Solver) Solve(ctx context.Context, m *Model) (Status, error) {
	if m.infeasible {
		return StatusInfeasible, nil
	}

	varOwner := buildOwnerIndex(m)

	if !propagateUnconditional(m, varOwner) {
		return StatusInfeasible, nil
	}

	st := &solveState{
		ctx:          ctx,
		groupOf:      map[*IntervalVar][]int{},
		groupMembers: m.noOverlaps,
	}
	for gi, group := range m.noOverlaps {
		for _, iv := range group {
			st.groupOf[iv] = append(st.groupOf[iv], gi)
		}
	}
	st.deps = buildDependencyEdges(m, varOwner)

	// Movable intervals: everything that isn't a fixed forbidden zone.
	var movable []*IntervalVar
	placed := map[*IntervalVar]bool{}
	for _, iv := range m.intervals {
		if iv.fixed {
			placed[iv] = true
		} else {
			movable = append(movable, iv)
		}
	}

	ok, timedOut := search(st, m, movable, placed, map[string]int{})
	if timedOut {
		return StatusTimeout, nil
	}
	if !ok {
		return StatusInfeasible, nil
	}
	return StatusOptimal, nil
}

func buildOwnerIndex(m *Model) map[*IntVar]ivOwner {
	idx := make(map[*IntVar]ivOwner, len(m.intervals)*2)
	for _, iv := range m.intervals {
		idx[iv.Start] = ivOwner{iv: iv, isStart: true}
		idx[iv.End] = ivOwner{iv: iv, isStart: false}
	}
	return idx
}

// propagateUnconditional applies every linear constraint with no
// enforcement literal directly to variable domains (a<=k, a>=k forms; b==nil
// means a single-variable bound). Dependency edges (b != nil) are handled
// separately by the placement search, not by domain tightening, since they
// relate two different tasks' actual assigned times rather than static
// bounds. Returns false if any domain becomes empty.
func propagateUnconditional(m *Model, owners map[*IntVar]ivOwner) bool {
	for _, c := range m.linears {
		if c.enforcedBy != nil {
			continue
		}
		if c.b != nil {
			continue // dependency edge; handled by search ordering
		}
		switch c.cmp {
		case cmpGE:
			if c.k > c.a.min {
				c.a.min = c.k
			}
		case cmpLE:
			if c.k < c.a.max {
				c.a.max = c.k
			}
		}
		if c.a.min > c.a.max {
			return false
		}
		// Keep an interval's Start/End domains consistent with each other.
		if own, ok := owners[c.a]; ok {
			iv := own.iv
			if own.isStart {
				if iv.End.min < iv.Start.min+iv.Size {
					iv.End.min = iv.Start.min + iv.Size
				}
				if iv.End.max > iv.Start.max+iv.Size {
					iv.End.max = iv.Start.max + iv.Size
				}
			} else {
				if iv.Start.min < iv.End.min-iv.Size {
					iv.Start.min = iv.End.min - iv.Size
				}
				if iv.Start.max > iv.End.max-iv.Size {
					iv.Start.max = iv.End.max - iv.Size
				}
			}
			if iv.Start.min > iv.Start.max || iv.End.min > iv.End.max {
				return false
			}
		}
	}
	return true
}

func buildDependencyEdges(m *Model, owners map[*IntVar]ivOwner) []edge {
	var edges []edge
	for _, c := range m.linears {
		if c.enforcedBy != nil || c.b == nil || c.cmp != cmpGE {
			continue
		}
		fromOwn, ok1 := owners[c.a]
		toOwn, ok2 := owners[c.b]
		if !ok1 || !ok2 || !fromOwn.isStart || toOwn.isStart {
			continue
		}
		edges = append(edges, edge{from: fromOwn.iv, to: toOwn.iv})
	}
	return edges
}

const searchNodeCheckInterval = 256

// search resolves every exactlyOne group (branching over which literal is
// true) then places every movable interval via a most-constrained-first
// backtracking search. It returns (found, timedOut).
func search(st *solveState, m *Model, movable []*IntervalVar, placed map[*IntervalVar]bool, chosen map[string]int) (bool, bool) {
	return resolveGroups(st, m, 0, movable, placed)
}

func resolveGroups(st *solveState, m *Model, groupIdx int, movable []*IntervalVar, placed map[*IntervalVar]bool) (bool, bool) {
	if st.timedOut {
		return false, true
	}
	if groupIdx >= len(m.exactlyOnes) {
		return placeAll(st, m, movable, placed)
	}

	group := m.exactlyOnes[groupIdx]
	for _, chosenBool := range group.bools {
		if checkTimeout(st) {
			return false, true
		}

		// Apply this literal's enforced constraints, snapshot/restore the
		// touched domains so siblings in this branch start clean.
		snaps := applyEnforced(m, chosenBool, owners(m))
		chosenBool.value = 1
		feasible := chosenBool.min <= chosenBool.max

		var ok, timedOut bool
		if feasible {
			ok, timedOut = resolveGroups(st, m, groupIdx+1, movable, placed)
		}
		restoreSnapshots(snaps)
		chosenBool.value = 0

		if timedOut {
			return false, true
		}
		if ok {
			chosenBool.value = 1
			return true, false
		}
	}
	return false, false
}

type domainSnapshot struct {
	v        *IntVar
	min, max int
}

func owners(m *Model) map[*IntVar]ivOwner { return buildOwnerIndex(m) }

// applyEnforced tightens the domains of every linear constraint whose
// enforcement literal is lit, returning snapshots so the caller can
// restore state when backtracking out of this branch.
func applyEnforced(m *Model, lit *BoolVar, owners map[*IntVar]ivOwner) []domainSnapshot {
	var snaps []domainSnapshot
	snap := func(v *IntVar) {
		snaps = append(snaps, domainSnapshot{v: v, min: v.min, max: v.max})
	}
	for _, c := range m.linears {
		if c.enforcedBy != lit || c.b != nil {
			continue
		}
		snap(c.a)
		if own, ok := owners[c.a]; ok {
			snap(own.iv.Start)
			snap(own.iv.End)
		}
		switch c.cmp {
		case cmpGE:
			if c.k > c.a.min {
				c.a.min = c.k
			}
		case cmpLE:
			if c.k < c.a.max {
				c.a.max = c.k
			}
		}
		if own, ok := owners[c.a]; ok {
			iv := own.iv
			if own.isStart {
				if iv.End.min < iv.Start.min+iv.Size {
					iv.End.min = iv.Start.min + iv.Size
				}
				if iv.End.max > iv.Start.max+iv.Size {
					iv.End.max = iv.Start.max + iv.Size
				}
			} else {
				if iv.Start.min < iv.End.min-iv.Size {
					iv.Start.min = iv.End.min - iv.Size
				}
				if iv.Start.max > iv.End.max-iv.Size {
					iv.Start.max = iv.End.max - iv.Size
				}
			}
		}
	}
	return snaps
}

func restoreSnapshots(snaps []domainSnapshot) {
	// Restore in reverse so repeated touches of the same var unwind in
	// the order they were captured.
	for i := len(snaps) - 1; i >= 0; i-- {
		s := snaps[i]
		s.v.min, s.v.max = s.min, s.max
	}
}

// placeAll performs the most-constrained-first backtracking placement
// search over movable intervals, respecting NoOverlap membership and
// dependency precedence. It uses the standard exchange argument for
// single-resource non-preemptive scheduling: for any fixed, precedence
// -respecting order, the earliest feasible start is never worse than a
// later one, so only the order is searched, not individual start times.
func placeAll(st *solveState, m *Model, remaining []*IntervalVar, placed map[*IntervalVar]bool) (bool, bool) {
	if checkTimeout(st) {
		return false, true
	}
	if len(remaining) == 0 {
		return true, false
	}

	ready := readyIntervals(remaining, placed, st.deps)
	if len(ready) == 0 {
		return false, false // dependency deadlock; treated as infeasible
	}
	sort.Slice(ready, func(i, j int) bool {
		return ready[i].Start.max < ready[j].Start.max
	})

	for _, candidate := range ready {
		lo := earliestReadyLowerBound(candidate, placed, st.deps)
		if lo < candidate.Start.min {
			lo = candidate.Start.min
		}
		start, ok := earliestFit(st, candidate, lo, placed)
		if !ok {
			continue
		}

		candidate.Start.value = start
		candidate.End.value = start + candidate.Size
		candidate.Start.assigned, candidate.End.assigned = true, true
		placed[candidate] = true

		nextRemaining := removeInterval(remaining, candidate)
		done, timedOut := placeAll(st, m, nextRemaining, placed)
		if timedOut {
			return false, true
		}
		if done {
			return true, false
		}

		delete(placed, candidate)
		candidate.Start.assigned, candidate.End.assigned = false, false
	}
	return false, false
}

func readyIntervals(remaining []*IntervalVar, placed map[*IntervalVar]bool, deps []edge) []*IntervalVar {
	var ready []*IntervalVar
	for _, iv := range remaining {
		blocked := false
		for _, e := range deps {
			if e.from == iv && !placed[e.to] {
				blocked = true
				break
			}
		}
		if !blocked {
			ready = append(ready, iv)
		}
	}
	return ready
}

func earliestReadyLowerBound(iv *IntervalVar, placed map[*IntervalVar]bool, deps []edge) int {
	lo := iv.Start.min
	for _, e := range deps {
		if e.from == iv && placed[e.to] {
			if e.to.End.value > lo {
				lo = e.to.End.value
			}
		}
	}
	return lo
}

// earliestFit returns the earliest start >= lo, within [lo, Start.max], at
// which candidate's interval does not overlap any already-placed interval
// it shares a NoOverlap group with.
func earliestFit(st *solveState, candidate *IntervalVar, lo int, placed map[*IntervalVar]bool) (int, bool) {
	hi := candidate.Start.max
	if lo > hi {
		return 0, false
	}

	conflicting := conflictingPlaced(st, candidate, placed)
	sort.Slice(conflicting, func(i, j int) bool {
		return conflicting[i].Start.value < conflicting[j].Start.value
	})

	start := lo
	for _, other := range conflicting {
		if start+candidate.Size <= other.Start.value {
			break
		}
		if start < other.End.value {
			start = other.End.value
		}
	}
	if start > hi {
		return 0, false
	}
	return start, true
}

func conflictingPlaced(st *solveState, candidate *IntervalVar, placed map[*IntervalVar]bool) []*IntervalVar {
	groupIdxs := st.groupOf[candidate]
	seen := map[*IntervalVar]bool{}
	var out []*IntervalVar
	for _, gi := range groupIdxs {
		for _, member := range st.groupMembers[gi] {
			if member == candidate || seen[member] {
				continue
			}
			if placed[member] {
				seen[member] = true
				out = append(out, member)
			}
		}
	}
	return out
}

func removeInterval(ivs []*IntervalVar, target *IntervalVar) []*IntervalVar {
	out := make([]*IntervalVar, 0, len(ivs)-1)
	for _, iv := range ivs {
		if iv != target {
			out = append(out, iv)
		}
	}
	return out
}

func checkTimeout(st *solveState) bool {
	st.nodes++
	if st.nodes%searchNodeCheckInterval != 0 {
		return false
	}
	select {
	case <-st.ctx.Done():
		st.timedOut = true
		return true
	default:
		return false
	}
}
