package solve

import (
	"context"
	"errors"
	"math"
)

const (
	intTol      = 1e-6
	objTol      = 1e-9
	defaultMaxN = 200000
)

// BranchBound is an exact MIP solver: LP relaxations via the simplex
// method, depth-first branching on the most fractional integer variable.
// It honors the context deadline — on expiry it returns the best incumbent
// found so far with StatusFeasible, never StatusOptimal.
type BranchBound struct {
	MaxNodes int // node budget; 0 means the default
}

// NewSolver returns the default solver backend.
func NewSolver() *BranchBound {
	return &BranchBound{}
}

type bbNode struct {
	lower []float64
	upper []float64
}

func (bb *BranchBound) Solve(ctx context.Context, p *Program) (Solution, error) {
	maxNodes := bb.MaxNodes
	if maxNodes <= 0 {
		maxNodes = defaultMaxN
	}

	n := len(p.Vars)
	rootLower := make([]float64, n)
	rootUpper := make([]float64, n)
	var intVars []int
	for i, v := range p.Vars {
		rootLower[i] = v.Lower
		rootUpper[i] = v.Upper
		if v.Kind == Binary {
			rootLower[i] = math.Max(rootLower[i], 0)
			rootUpper[i] = math.Min(rootUpper[i], 1)
		}
		if v.Kind != Continuous {
			intVars = append(intVars, i)
		}
	}

	var incumbent []float64
	incumbentObj := math.Inf(1)
	if p.Warm != nil && p.Feasible(p.Warm, intTol) {
		incumbent = append([]float64(nil), p.Warm...)
		incumbentObj = p.Objective(incumbent)
	}

	stack := []bbNode{{lower: rootLower, upper: rootUpper}}
	nodes := 0
	budgetHit := false
	rootInfeasible := false

search:
	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			budgetHit = true
			break search
		default:
		}
		if nodes >= maxNodes {
			budgetHit = true
			break
		}
		nodes++

		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		obj, x, err := solveRelaxation(p, node.lower, node.upper)
		if err != nil {
			if errors.Is(err, errRelaxInfeasible) {
				if nodes == 1 {
					rootInfeasible = true
				}
				continue
			}
			return Solution{Status: StatusError}, err
		}
		if obj >= incumbentObj-objTol {
			continue // bound: cannot beat the incumbent
		}

		branchVar := -1
		worstFrac := intTol
		for _, i := range intVars {
			frac := math.Abs(x[i] - math.Round(x[i]))
			if frac > worstFrac {
				worstFrac = frac
				branchVar = i
			}
		}

		if branchVar < 0 {
			// Integral within tolerance: snap and accept.
			rounded := append([]float64(nil), x...)
			for _, i := range intVars {
				rounded[i] = math.Round(rounded[i])
			}
			if p.Feasible(rounded, 1e-4) {
				if cand := p.Objective(rounded); cand < incumbentObj-objTol {
					incumbent = rounded
					incumbentObj = cand
				}
			}
			continue
		}

		floorVal := math.Floor(x[branchVar])

		down := bbNode{
			lower: append([]float64(nil), node.lower...),
			upper: append([]float64(nil), node.upper...),
		}
		down.upper[branchVar] = floorVal

		up := bbNode{
			lower: append([]float64(nil), node.lower...),
			upper: append([]float64(nil), node.upper...),
		}
		up.lower[branchVar] = floorVal + 1

		stack = append(stack, up, down)
	}

	switch {
	case incumbent != nil && !budgetHit:
		return Solution{Status: StatusOptimal, Objective: incumbentObj, Values: incumbent}, nil
	case incumbent != nil:
		return Solution{Status: StatusFeasible, Objective: incumbentObj, Values: incumbent}, nil
	case rootInfeasible:
		return Solution{Status: StatusInfeasible}, nil
	case budgetHit:
		return Solution{Status: StatusError}, errors.New("solve budget exhausted before any feasible solution was found")
	default:
		return Solution{Status: StatusInfeasible}, nil
	}
}
