package solve

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

var errRelaxInfeasible = errors.New("relaxation infeasible")

// solveRelaxation solves the continuous relaxation of p with the given
// variable bounds (which may be tighter than the program's, during
// branching). It converts the program to the general form gonum's Convert
// understands, then runs the simplex method on the resulting standard form.
func solveRelaxation(p *Program, lower, upper []float64) (float64, []float64, error) {
	n := len(p.Vars)
	if n == 0 {
		return 0, nil, nil
	}

	c := make([]float64, n)
	for i, v := range p.Vars {
		c[i] = v.Cost
	}

	// Assemble G x <= h rows: one (or two, for equalities) per constraint,
	// plus bound rows for every variable. Convert treats variables as free,
	// so even x >= 0 must appear explicitly.
	var rows [][]float64
	var rhs []float64

	addRow := func(terms []Term, negate bool, b float64) {
		row := make([]float64, n)
		for _, t := range terms {
			if negate {
				row[t.Var] -= t.Coef
			} else {
				row[t.Var] += t.Coef
			}
		}
		rows = append(rows, row)
		rhs = append(rhs, b)
	}

	for _, con := range p.Cons {
		switch con.Sense {
		case LE:
			addRow(con.Terms, false, con.RHS)
		case GE:
			addRow(con.Terms, true, -con.RHS)
		case EQ:
			addRow(con.Terms, false, con.RHS)
			addRow(con.Terms, true, -con.RHS)
		}
	}
	unitTerm := make([]Term, 1)
	for i := range p.Vars {
		unitTerm[0] = Term{Var: i, Coef: 1}
		if !math.IsInf(upper[i], 1) {
			addRow(unitTerm, false, upper[i])
		}
		addRow(unitTerm, true, -lower[i])
	}

	g := mat.NewDense(len(rows), n, nil)
	for i, row := range rows {
		g.SetRow(i, row)
	}

	cStd, aStd, bStd := lp.Convert(c, g, rhs, nil, nil)
	optF, optX, err := lp.Simplex(cStd, aStd, bStd, 1e-10, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return 0, nil, errRelaxInfeasible
		}
		return 0, nil, err
	}

	// Convert splits each free variable into a positive and negative part:
	// the first n standard-form columns are x+, the next n are x-.
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = optX[i] - optX[n+i]
	}
	return optF, x, nil
}
