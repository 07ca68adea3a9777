// Package solve holds the linear/integer program representation and the
// solver backends used by the optimization engine. The engine builds a
// Program and hands it to any Solver; nothing in here knows about seats,
// floors or units.
package solve

import "context"

// VarKind distinguishes continuous, general integer and binary variables.
type VarKind int

const (
	Continuous VarKind = iota
	Integer
	Binary
)

// Variable is one decision variable with bounds and an objective cost.
// Programs are always minimization problems.
type Variable struct {
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64 // +Inf for unbounded
	Cost  float64
}

// Sense is the comparison direction of a constraint.
type Sense int

const (
	LE Sense = iota
	GE
	EQ
)

// Term is one coefficient on one variable.
type Term struct {
	Var  int
	Coef float64
}

// Constraint is a single linear constraint. Class carries the business
// constraint family (capacity, policy-bound) so infeasibility can be
// reported with the violated class when determinable.
type Constraint struct {
	Name  string
	Class string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Program is a minimization LP/MIP.
type Program struct {
	Vars []Variable
	Cons []Constraint

	// Warm optionally carries a known integer-feasible solution, used by
	// branch-and-bound as the initial incumbent. On timeout the best
	// incumbent is returned, so a warm start bounds the answer quality
	// from below.
	Warm []float64
}

// AddVar appends a variable and returns its index. A Binary variable
// declared with the zero-value upper bound gets the unit box [0,1].
func (p *Program) AddVar(v Variable) int {
	if v.Kind == Binary && v.Upper == 0 {
		v.Upper = 1
	}
	p.Vars = append(p.Vars, v)
	return len(p.Vars) - 1
}

// AddConstraint appends a constraint.
func (p *Program) AddConstraint(c Constraint) {
	p.Cons = append(p.Cons, c)
}

// Objective evaluates the objective at x.
func (p *Program) Objective(x []float64) float64 {
	total := 0.0
	for i, v := range p.Vars {
		total += v.Cost * x[i]
	}
	return total
}

// Feasible reports whether x satisfies every constraint and bound within
// tolerance.
func (p *Program) Feasible(x []float64, tol float64) bool {
	if len(x) != len(p.Vars) {
		return false
	}
	for i, v := range p.Vars {
		if x[i] < v.Lower-tol || x[i] > v.Upper+tol {
			return false
		}
	}
	for _, c := range p.Cons {
		lhs := 0.0
		for _, t := range c.Terms {
			lhs += t.Coef * x[t.Var]
		}
		switch c.Sense {
		case LE:
			if lhs > c.RHS+tol {
				return false
			}
		case GE:
			if lhs < c.RHS-tol {
				return false
			}
		case EQ:
			if lhs < c.RHS-tol || lhs > c.RHS+tol {
				return false
			}
		}
	}
	return true
}

// Status is the solver outcome contract.
type Status string

const (
	StatusOptimal    Status = "Optimal"
	StatusFeasible   Status = "Feasible" // budget hit, best incumbent returned
	StatusInfeasible Status = "Infeasible"
	StatusError      Status = "Error"
)

// Solution is a solver result. Values is indexed like Program.Vars and is
// only meaningful for Optimal and Feasible statuses.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
}

// Solver is the narrow boundary to any LP/MIP implementation. Solve must
// respect ctx cancellation and deadline: on expiry it returns the best
// incumbent with StatusFeasible rather than running on.
type Solver interface {
	Solve(ctx context.Context, p *Program) (Solution, error)
}
