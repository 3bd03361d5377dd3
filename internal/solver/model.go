// Package solver implements a small CP-SAT-like constraint engine: integer
// and boolean variables, interval variables, a no-overlap constraint over
// intervals, linear inequalities with optional enforcement literals, and an
// exactly-one constraint over boolean groups. It mirrors the shape of
// Google OR-Tools' cp_model API (NewIntVar, NewIntervalVar, AddNoOverlap,
// OnlyEnforceIf) closely enough that a model builder written against
// OR-Tools translates directly, since no equivalent Go package exists in
// this dependency slice.
package solver

// IntVar is an integer decision variable with domain [Min, Max].
type IntVar struct {
	name     string
	min, max int
	value    int
	assigned bool
}

// Name returns the variable's diagnostic name.
func (v *IntVar) Name() string { return v.name }

// Min returns the variable's current lower bound.
func (v *IntVar) Min() int { return v.min }

// Max returns the variable's current upper bound.
func (v *IntVar) Max() int { return v.max }

// BoolVar is an IntVar constrained to {0, 1}.
type BoolVar = IntVar

// IntervalVar is a (start, size, end) triple with the invariant
// end = start + size enforced at construction.
type IntervalVar struct {
	Start *IntVar
	Size  int
	End   *IntVar
	name  string
	fixed bool
}

// cmpKind enumerates the relational operators a LinearConstraint supports.
type cmpKind int

const (
	cmpGE cmpKind = iota // a - b >= k
	cmpLE                // a - b <= k
)

// LinearConstraint represents `a - b <cmp> k`, where b may be nil to mean a
// constraint on a single variable (`a <cmp> k`).
type LinearConstraint struct {
	a, b *IntVar
	k    int
	cmp  cmpKind
	// enforcedBy, if non-nil, means this constraint only applies when the
	// literal is assigned 1 (mirrors cp_model's OnlyEnforceIf).
	enforcedBy *BoolVar
}

// OnlyEnforceIf attaches an enforcement literal: the constraint is ignored
// by the search unless lit is assigned 1.
func (c *LinearConstraint) OnlyEnforceIf(lit *BoolVar) *LinearConstraint {
	c.enforcedBy = lit
	return c
}

// exactlyOneGroup records a set of boolean variables constrained to sum to
// exactly one true value.
type exactlyOneGroup struct {
	bools []*BoolVar
}

// Model accumulates variables and constraints for a single scheduling
// problem instance.
type Model struct {
	vars        []*IntVar
	intervals   []*IntervalVar
	noOverlaps  [][]*IntervalVar
	linears     []*LinearConstraint
	exactlyOnes []exactlyOneGroup
	infeasible  bool
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// NewIntVar creates an integer variable with domain [lo, hi]. A domain with
// lo > hi is legal and represents an unsatisfiable variable (mirrors
// OR-Tools' convention for forcing local infeasibility, per the Python
// original's or_task_wrapper.ORTaskWrapper).
func (m *Model) NewIntVar(lo, hi int, name string) *IntVar {
	v := &IntVar{name: name, min: lo, max: hi}
	m.vars = append(m.vars, v)
	if lo > hi {
		m.infeasible = true
	}
	return v
}

// NewBoolVar creates a boolean decision variable.
func (m *Model) NewBoolVar(name string) *BoolVar {
	return m.NewIntVar(0, 1, name)
}

// NewIntervalVar creates an interval variable over the caller's start
// variable (whose domain the caller chooses) with Size fixed, deriving
// End = Start + size.
func (m *Model) NewIntervalVar(start *IntVar, size int, name string) *IntervalVar {
	end := m.NewIntVar(start.min+size, start.max+size, name+"_end")
	iv := &IntervalVar{Start: start, Size: size, End: end, name: name}
	m.intervals = append(m.intervals, iv)
	// end == start + size is implicit in how End's domain is derived and
	// is re-tightened during search whenever Start narrows.
	return iv
}

// NewFixedInterval creates an interval whose start is pinned to a constant,
// used for forbidden zones that are not decision variables.
func (m *Model) NewFixedInterval(start, size int, name string) *IntervalVar {
	s := m.NewIntVar(start, start, name+"_start")
	e := m.NewIntVar(start+size, start+size, name+"_end")
	s.value, s.assigned = start, true
	e.value, e.assigned = start+size, true
	iv := &IntervalVar{Start: s, Size: size, End: e, name: name, fixed: true}
	m.intervals = append(m.intervals, iv)
	return iv
}

// AddNoOverlap registers a group of intervals that must be pairwise
// disjoint. May be called more than once; each group is enforced on its
// own, so two intervals only conflict if they share a group (in practice the scheduling driver adds exactly one group
// covering all task and forbidden-zone intervals, per spec §4.4).
func (m *Model) AddNoOverlap(intervals []*IntervalVar) {
	if len(intervals) == 0 {
		return
	}
	m.noOverlaps = append(m.noOverlaps, intervals)
}

// addLinear adds `a - b <cmp> k` as described by cmpKind, returning the
// constraint so callers can attach OnlyEnforceIf.
func (m *Model) addLinear(a, b *IntVar, k int, cmp cmpKind) *LinearConstraint {
	c := &LinearConstraint{a: a, b: b, k: k, cmp: cmp}
	m.linears = append(m.linears, c)
	return c
}

// AddGE adds the unconditional constraint a >= k.
func (m *Model) AddGE(a *IntVar, k int) *LinearConstraint {
	return m.addLinear(a, nil, k, cmpGE)
}

// AddLE adds the unconditional constraint a <= k.
func (m *Model) AddLE(a *IntVar, k int) *LinearConstraint {
	return m.addLinear(a, nil, k, cmpLE)
}

// AddDiffGE adds the unconditional constraint a - b >= k (used for
// dependency edges: start(A) - end(B) >= 0).
func (m *Model) AddDiffGE(a, b *IntVar, k int) *LinearConstraint {
	return m.addLinear(a, b, k, cmpGE)
}

// AddExactlyOne constrains exactly one of bools to be 1.
func (m *Model) AddExactlyOne(bools []*BoolVar) {
	m.exactlyOnes = append(m.exactlyOnes, exactlyOneGroup{bools: bools})
	if len(bools) == 0 {
		m.infeasible = true
	}
}

// MarkInfeasible forces the model to report INFEASIBLE without running the
// search, the short-circuit strategy spec.md §9 recommends over asserting
// contradictory literals.
func (m *Model) MarkInfeasible() {
	m.infeasible = true
}
