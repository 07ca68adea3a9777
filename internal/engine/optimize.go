package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/piwi3910/SeatPlan/internal/model"
	"github.com/piwi3910/SeatPlan/internal/solve"
)

// BeforeAfter compares the greedy heuristic against the solver outcome.
type BeforeAfter struct {
	GreedyAssigned    int `json:"greedy_assigned"`
	OptimizedAssigned int `json:"optimized_assigned"`
	GreedyFloors      int `json:"greedy_floors"`
	OptimizedFloors   int `json:"optimized_floors"`
}

// OptimizationOutcome is the result of one solver run. Assignments are only
// present for Optimal and Feasible statuses.
type OptimizationOutcome struct {
	Objective      model.Objective         `json:"objective"`
	Status         solve.Status            `json:"status"`
	ObjectiveValue float64                 `json:"objective_value"`
	Assignments    []model.FloorAssignment `json:"assignments,omitempty"`
	UnitTotals     map[string]int          `json:"unit_totals,omitempty"`
	FloorsUsed     int                     `json:"floors_used"`
	BeforeAfter    BeforeAfter             `json:"before_after"`
	Suggestions    []string                `json:"suggestions,omitempty"`
	Message        string                  `json:"message"`
}

// Optimize runs the LP/MIP seat placement for the policy's objective. It
// reuses the allocation pipeline to establish per-unit demand, warm-starts
// the solver from the greedy placement, and never relaxes a constraint: an
// unsatisfiable program comes back as Infeasible with the violated
// constraint class, not as a silently weakened answer.
//
// A nil solver selects the default branch-and-bound backend. The policy's
// solve budget bounds wall time; on expiry the best incumbent is returned
// with the Feasible status.
//
// Advanced-mode units without attendance data are reported in the returned
// error (joined per unit) while the outcome is still produced.
func Optimize(ctx context.Context, baseline model.Baseline, scenario *model.Scenario, policy model.PolicyConfig, solver solve.Solver) (*OptimizationOutcome, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if err := baseline.Validate(); err != nil {
		return nil, err
	}
	if solver == nil {
		solver = solve.NewSolver()
	}

	horizon := policy.HorizonMonths
	if scenario != nil && scenario.HorizonMonths != 0 {
		horizon = scenario.HorizonMonths
	}

	overlay := NewOverlay(scenario)
	units, attendance, floors := overlay.Resolve(baseline)
	unitMap := make(map[string]model.Unit, len(units))
	for _, u := range units {
		unitMap[u.Name] = u
	}

	allocator := NewAllocator(policy)
	recs, unitErrs := allocator.ComputeAll(units, attendance, horizon)
	recs = Redistribute(recs, unitMap, model.TotalCapacity(floors), horizon, policy)

	// Keep only units with demand; zero-demand units have nothing to place.
	active := recs[:0:0]
	for _, r := range recs {
		if r.EffectiveSeats > 0 {
			active = append(active, r)
		}
	}
	sort.Slice(active, func(i, j int) bool { return active[i].UnitName < active[j].UnitName })
	sort.Slice(floors, func(i, j int) bool { return floors[i].FloorID() < floors[j].FloorID() })

	greedy := Place(active, unitMap, floors, nil, policy.MinAvgSeats)

	minSeats := make([]int, len(active))
	totalMin, totalCap := 0, model.TotalCapacity(floors)
	for i, r := range active {
		hc := unitMap[r.UnitName].CurrentHC
		m := int(math.Round(policy.MinAllocPct * float64(hc)))
		if m > r.EffectiveSeats {
			m = r.EffectiveSeats
		}
		minSeats[i] = m
		totalMin += m
	}
	if totalMin > totalCap {
		return &OptimizationOutcome{
				Objective: policy.Objective,
				Status:    solve.StatusInfeasible,
				Message:   fmt.Sprintf("minimum allocations require %d seats but only %d exist", totalMin, totalCap),
			}, &model.InfeasibleError{
				ConstraintClass: model.ConstraintClassPolicyBound,
				Detail:          fmt.Sprintf("minimum allocations total %d seats against %d available", totalMin, totalCap),
			}
	}

	prog, decode, err := buildProgram(policy.Objective, active, unitMap, floors, minSeats, greedy)
	if err != nil {
		return nil, err
	}

	if policy.SolveBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(policy.SolveBudget)*time.Second)
		defer cancel()
	}

	sol, err := solver.Solve(ctx, prog)
	if err != nil {
		return &OptimizationOutcome{
			Objective: policy.Objective,
			Status:    solve.StatusError,
			Message:   err.Error(),
		}, fmt.Errorf("optimization failed: %w", err)
	}

	outcome := &OptimizationOutcome{
		Objective:      policy.Objective,
		Status:         sol.Status,
		ObjectiveValue: sol.Objective,
	}

	switch sol.Status {
	case solve.StatusInfeasible:
		outcome.Message = "constraint set is unsatisfiable; nothing was relaxed"
		return outcome, &model.InfeasibleError{
			ConstraintClass: model.ConstraintClassPolicyBound,
			Detail:          "per-unit minimum allocations cannot all be met within floor capacity",
		}
	case solve.StatusOptimal, solve.StatusFeasible:
		outcome.Assignments = decode(sol.Values)
		outcome.UnitTotals = map[string]int{}
		used := map[string]bool{}
		for _, a := range outcome.Assignments {
			outcome.UnitTotals[a.UnitName] += a.Seats
			used[a.FloorID()] = true
		}
		outcome.FloorsUsed = len(used)

		greedyAssigned, greedyFloors := 0, map[string]bool{}
		for _, a := range greedy.Assignments {
			greedyAssigned += a.Seats
			greedyFloors[a.FloorID()] = true
		}
		optimizedAssigned := 0
		for _, n := range outcome.UnitTotals {
			optimizedAssigned += n
		}
		outcome.BeforeAfter = BeforeAfter{
			GreedyAssigned:    greedyAssigned,
			OptimizedAssigned: optimizedAssigned,
			GreedyFloors:      len(greedyFloors),
			OptimizedFloors:   outcome.FloorsUsed,
		}

		frag := fragmentation(active, outcome.Assignments, policy.MinAvgSeats)
		outcome.Suggestions = ConsolidationSuggestions(frag, outcome.Assignments)

		if sol.Status == solve.StatusOptimal {
			outcome.Message = fmt.Sprintf("proven optimal for %s", policy.Objective)
		} else {
			outcome.Message = fmt.Sprintf("solve budget reached; best known solution for %s", policy.Objective)
		}
	default:
		outcome.Message = "solver error"
	}
	if len(unitErrs) > 0 {
		return outcome, fmt.Errorf("allocation incomplete: %w", errors.Join(unitErrs...))
	}
	return outcome, nil
}

// buildProgram assembles the MIP for one objective. The seat variables
// x[u][f] are shared by every objective; only the auxiliary variables and
// the cost vector differ. The returned decode turns a solution vector back
// into floor assignments.
func buildProgram(
	objective model.Objective,
	recs []model.Recommendation,
	units map[string]model.Unit,
	floors []model.Floor,
	minSeats []int,
	greedy Placement,
) (*solve.Program, func([]float64) []model.FloorAssignment, error) {
	nU, nF := len(recs), len(floors)
	p := &solve.Program{}

	xIdx := make([][]int, nU)
	for u, rec := range recs {
		xIdx[u] = make([]int, nF)
		for f, fl := range floors {
			upper := rec.EffectiveSeats
			if fl.TotalSeats < upper {
				upper = fl.TotalSeats
			}
			xIdx[u][f] = p.AddVar(solve.Variable{
				Name:  fmt.Sprintf("x[%s][%s]", rec.UnitName, fl.FloorID()),
				Kind:  solve.Integer,
				Lower: 0,
				Upper: float64(upper),
			})
		}
	}

	for f, fl := range floors {
		terms := make([]solve.Term, nU)
		for u := range recs {
			terms[u] = solve.Term{Var: xIdx[u][f], Coef: 1}
		}
		p.AddConstraint(solve.Constraint{
			Name:  "cap:" + fl.FloorID(),
			Class: model.ConstraintClassCapacity,
			Terms: terms,
			Sense: solve.LE,
			RHS:   float64(fl.TotalSeats),
		})
	}

	unitTerms := func(u int) []solve.Term {
		terms := make([]solve.Term, nF)
		for f := 0; f < nF; f++ {
			terms[f] = solve.Term{Var: xIdx[u][f], Coef: 1}
		}
		return terms
	}

	greedyByUnit := map[string]int{}
	for _, a := range greedy.Assignments {
		greedyByUnit[a.UnitName] += a.Seats
	}

	for u, rec := range recs {
		p.AddConstraint(solve.Constraint{
			Name:  "demand:" + rec.UnitName,
			Class: model.ConstraintClassPolicyBound,
			Terms: unitTerms(u),
			Sense: solve.LE,
			RHS:   float64(rec.EffectiveSeats),
		})
		if minSeats[u] > 0 {
			p.AddConstraint(solve.Constraint{
				Name:  "min:" + rec.UnitName,
				Class: model.ConstraintClassPolicyBound,
				Terms: unitTerms(u),
				Sense: solve.GE,
				RHS:   float64(minSeats[u]),
			})
		}
	}

	warm := make([]float64, len(p.Vars))
	floorPos := map[string]int{}
	for f, fl := range floors {
		floorPos[fl.FloorID()] = f
	}
	unitPos := map[string]int{}
	for u, rec := range recs {
		unitPos[rec.UnitName] = u
	}
	for _, a := range greedy.Assignments {
		u, okU := unitPos[a.UnitName]
		f, okF := floorPos[a.FloorID()]
		if okU && okF {
			warm[xIdx[u][f]] += float64(a.Seats)
		}
	}

	switch objective {
	case model.ObjectiveMinShortfall:
		// Slack per unit: s >= demand - placed, minimize total slack.
		for u, rec := range recs {
			s := p.AddVar(solve.Variable{
				Name:  "short:" + rec.UnitName,
				Kind:  solve.Continuous,
				Lower: 0,
				Upper: float64(rec.EffectiveSeats),
				Cost:  1,
			})
			terms := append(unitTerms(u), solve.Term{Var: s, Coef: 1})
			p.AddConstraint(solve.Constraint{
				Name:  "shortlink:" + rec.UnitName,
				Terms: terms,
				Sense: solve.GE,
				RHS:   float64(rec.EffectiveSeats),
			})
			warm = append(warm, float64(rec.EffectiveSeats-greedyByUnit[rec.UnitName]))
		}

	case model.ObjectiveFairness:
		// z bounds every unit's shortfall ratio; minimizing z minimizes the
		// worst-off unit's relative gap.
		worst := 0.0
		for _, rec := range recs {
			if rec.EffectiveSeats == 0 {
				continue
			}
			ratio := float64(rec.EffectiveSeats-greedyByUnit[rec.UnitName]) / float64(rec.EffectiveSeats)
			if ratio > worst {
				worst = ratio
			}
		}
		z := p.AddVar(solve.Variable{Name: "maxratio", Kind: solve.Continuous, Lower: 0, Upper: 1, Cost: 1})
		warm = append(warm, worst)
		for u, rec := range recs {
			if rec.EffectiveSeats == 0 {
				continue
			}
			terms := append(unitTerms(u), solve.Term{Var: z, Coef: float64(rec.EffectiveSeats)})
			p.AddConstraint(solve.Constraint{
				Name:  "fair:" + rec.UnitName,
				Terms: terms,
				Sense: solve.GE,
				RHS:   float64(rec.EffectiveSeats),
			})
		}

	case model.ObjectiveMinFloors:
		// Binary floor-open indicators; seats only flow through open floors.
		// Each unit must keep at least what the greedy pass gave it, so the
		// solver cannot zero everyone out to use zero floors.
		for f, fl := range floors {
			y := p.AddVar(solve.Variable{
				Name:  "open:" + fl.FloorID(),
				Kind:  solve.Binary,
				Upper: 1,
				Cost:  1,
			})
			terms := make([]solve.Term, 0, nU+1)
			greedyUsed := false
			for u := range recs {
				terms = append(terms, solve.Term{Var: xIdx[u][f], Coef: 1})
				if warm[xIdx[u][f]] > 0 {
					greedyUsed = true
				}
			}
			terms = append(terms, solve.Term{Var: y, Coef: -float64(fl.TotalSeats)})
			p.AddConstraint(solve.Constraint{
				Name:  "open:" + fl.FloorID(),
				Terms: terms,
				Sense: solve.LE,
				RHS:   0,
			})
			if greedyUsed {
				warm = append(warm, 1)
			} else {
				warm = append(warm, 0)
			}
		}
		addFloorConstraints(p, recs, unitTerms, greedyByUnit)

	case model.ObjectiveMaxCohesion:
		// Binary unit-on-floor indicators, weighted by distance from the home
		// tower: splitting across floors costs, crossing towers costs more,
		// crossing buildings most.
		for u, rec := range recs {
			home := units[rec.UnitName].HomeTowerID
			homeBldg := model.BuildingOfTower(floors, home)
			for f, fl := range floors {
				weight := 1.0
				switch {
				case home == "" || fl.TowerID == home:
					weight = 1.0
				case homeBldg != "" && fl.BuildingID == homeBldg:
					weight = 3.0
				default:
					weight = 6.0
				}
				y := p.AddVar(solve.Variable{
					Name:  fmt.Sprintf("on[%s][%s]", rec.UnitName, fl.FloorID()),
					Kind:  solve.Binary,
					Upper: 1,
					Cost:  weight,
				})
				upper := rec.EffectiveSeats
				if fl.TotalSeats < upper {
					upper = fl.TotalSeats
				}
				p.AddConstraint(solve.Constraint{
					Name: fmt.Sprintf("onlink[%s][%s]", rec.UnitName, fl.FloorID()),
					Terms: []solve.Term{
						{Var: xIdx[u][f], Coef: 1},
						{Var: y, Coef: -float64(upper)},
					},
					Sense: solve.LE,
					RHS:   0,
				})
				if warm[xIdx[u][f]] > 0 {
					warm = append(warm, 1)
				} else {
					warm = append(warm, 0)
				}
			}
		}
		addFloorConstraints(p, recs, unitTerms, greedyByUnit)

	default:
		return nil, nil, &model.ValidationError{Field: "objective", Message: "unknown objective " + string(objective)}
	}

	p.Warm = warm

	decode := func(values []float64) []model.FloorAssignment {
		var out []model.FloorAssignment
		for u, rec := range recs {
			for f, fl := range floors {
				seats := int(math.Round(values[xIdx[u][f]]))
				if seats <= 0 {
					continue
				}
				out = append(out, model.FloorAssignment{
					UnitName:    rec.UnitName,
					BuildingID:  fl.BuildingID,
					TowerID:     fl.TowerID,
					FloorNumber: fl.FloorNumber,
					Seats:       seats,
					Tier:        model.TierOptimized,
				})
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].UnitName != out[j].UnitName {
				return out[i].UnitName < out[j].UnitName
			}
			return out[i].FloorID() < out[j].FloorID()
		})
		return out
	}
	return p, decode, nil
}

// addFloorConstraints pins each unit to at least its greedy seat count. The
// cohesion and floor-count objectives would otherwise trade seats away for a
// better score; the greedy result is known feasible, so these bounds are too.
func addFloorConstraints(p *solve.Program, recs []model.Recommendation, unitTerms func(int) []solve.Term, greedyByUnit map[string]int) {
	for u, rec := range recs {
		if greedyByUnit[rec.UnitName] == 0 {
			continue
		}
		p.AddConstraint(solve.Constraint{
			Name:  "keep:" + rec.UnitName,
			Class: model.ConstraintClassPolicyBound,
			Terms: unitTerms(u),
			Sense: solve.GE,
			RHS:   float64(greedyByUnit[rec.UnitName]),
		})
	}
}
