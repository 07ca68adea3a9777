package engine

import (
	"context"
	"testing"

	"github.com/piwi3910/SeatPlan/internal/model"
	"github.com/piwi3910/SeatPlan/internal/solve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func optimizeBaseline() model.Baseline {
	return model.Baseline{
		Units: []model.Unit{
			{Name: "Finance", CurrentHC: 50, HomeTowerID: "T1"},
			{Name: "Sales", CurrentHC: 50, HomeTowerID: "T1"},
		},
		Floors: []model.Floor{
			{BuildingID: "B1", BuildingName: "HQ", TowerID: "T1", FloorNumber: 1, TotalSeats: 50},
			{BuildingID: "B1", BuildingName: "HQ", TowerID: "T1", FloorNumber: 2, TotalSeats: 50},
		},
	}
}

func TestOptimize_MinShortfall_FullAssignment(t *testing.T) {
	// 40 + 40 seats demanded against 100 seats of capacity: zero shortfall
	// is reachable and the solver must prove it.
	policy := model.DefaultPolicy()
	policy.Objective = model.ObjectiveMinShortfall
	policy.SolveBudget = 10

	outcome, err := Optimize(context.Background(), optimizeBaseline(), nil, policy, nil)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	assert.Equal(t, solve.StatusOptimal, outcome.Status)
	assert.InDelta(t, 0.0, outcome.ObjectiveValue, 1e-6)
	assert.Equal(t, 40, outcome.UnitTotals["Finance"])
	assert.Equal(t, 40, outcome.UnitTotals["Sales"])
	for _, a := range outcome.Assignments {
		assert.Equal(t, model.TierOptimized, a.Tier)
	}
}

func TestOptimize_MinFloors_NeverWorseThanGreedy(t *testing.T) {
	// The home tower only offers two half-size floors, so the greedy pass
	// fragments the unit across both. One T2 floor can hold everything.
	baseline := model.Baseline{
		Units: []model.Unit{{Name: "Ops", CurrentHC: 75, HomeTowerID: "T1"}},
		Floors: []model.Floor{
			{BuildingID: "B1", BuildingName: "HQ", TowerID: "T1", FloorNumber: 1, TotalSeats: 30},
			{BuildingID: "B1", BuildingName: "HQ", TowerID: "T1", FloorNumber: 2, TotalSeats: 30},
			{BuildingID: "B1", BuildingName: "HQ", TowerID: "T2", FloorNumber: 1, TotalSeats: 60},
		},
	}
	policy := model.DefaultPolicy()
	policy.Objective = model.ObjectiveMinFloors
	policy.SolveBudget = 10

	greedyFloors := func() int {
		result, err := RunScenario(baseline, nil, policy)
		require.NoError(t, err)
		return result.FloorsUsed()
	}()

	outcome, err := Optimize(context.Background(), baseline, nil, policy, nil)
	require.NoError(t, err)
	require.NotNil(t, outcome)

	require.Contains(t, []solve.Status{solve.StatusOptimal, solve.StatusFeasible}, outcome.Status)
	assert.LessOrEqual(t, outcome.FloorsUsed, greedyFloors)
	assert.Equal(t, 1, outcome.FloorsUsed, "all 60 demanded seats fit one T2 floor")

	// The unit keeps at least its greedy seat total.
	assert.GreaterOrEqual(t, outcome.UnitTotals["Ops"], outcome.BeforeAfter.GreedyAssigned)
}

func TestOptimize_ConsolidationInfeasible(t *testing.T) {
	// Post-reduction capacity falls below the sum of minimum allocation
	// bounds: the engine must report Infeasible, never a silent partial fit.
	baseline := model.Baseline{
		Units: []model.Unit{
			{Name: "A", CurrentHC: 100},
			{Name: "B", CurrentHC: 100},
		},
		Floors: []model.Floor{
			{BuildingID: "B1", BuildingName: "HQ", TowerID: "T1", FloorNumber: 1, TotalSeats: 38},
		},
	}
	s := model.NewScenario("consolidate", model.ScenarioConsolidation)
	require.NoError(t, s.SetParams(model.ScenarioParams{CapacityReductionPct: 0.2}))

	policy := model.DefaultPolicy() // min alloc 20% -> 20 seats per unit, 40 > 30

	outcome, err := Optimize(context.Background(), baseline, s, policy, nil)
	require.NotNil(t, outcome)
	assert.Equal(t, solve.StatusInfeasible, outcome.Status)
	assert.Empty(t, outcome.Assignments)

	require.Error(t, err)
	var infeasible *model.InfeasibleError
	require.ErrorAs(t, err, &infeasible)
	assert.Equal(t, model.ConstraintClassPolicyBound, infeasible.ConstraintClass)
}

func TestOptimize_Fairness_BalancesShortfall(t *testing.T) {
	// 40 seats of capacity for two identical 40-seat demands: the min-max
	// ratio optimum splits the pain instead of starving one unit.
	baseline := model.Baseline{
		Units: []model.Unit{
			{Name: "A", CurrentHC: 50},
			{Name: "B", CurrentHC: 50},
		},
		Floors: []model.Floor{
			{BuildingID: "B1", BuildingName: "HQ", TowerID: "T1", FloorNumber: 1, TotalSeats: 40},
		},
	}
	policy := model.DefaultPolicy()
	policy.Objective = model.ObjectiveFairness
	policy.MinAllocPct = 0 // isolate the fairness objective from min bounds
	policy.SolveBudget = 10

	outcome, err := Optimize(context.Background(), baseline, nil, policy, nil)
	require.NoError(t, err)
	require.Contains(t, []solve.Status{solve.StatusOptimal, solve.StatusFeasible}, outcome.Status)

	total := outcome.UnitTotals["A"] + outcome.UnitTotals["B"]
	assert.Equal(t, 40, total, "all capacity is used")

	// Worst-case shortfall ratio at the optimum is 0.5; neither unit does
	// worse than that.
	for _, name := range []string{"A", "B"} {
		ratio := float64(40-outcome.UnitTotals[name]) / 40.0
		assert.LessOrEqual(t, ratio, 0.5+1e-6, name)
	}
}

func TestOptimize_MaxCohesion_PrefersHomeTower(t *testing.T) {
	// Demand fits the home tower exactly; cohesion must not scatter it into
	// the cross-building floor.
	baseline := model.Baseline{
		Units: []model.Unit{{Name: "Ops", CurrentHC: 50, HomeTowerID: "T1"}},
		Floors: []model.Floor{
			{BuildingID: "B1", BuildingName: "HQ", TowerID: "T1", FloorNumber: 1, TotalSeats: 60},
			{BuildingID: "B2", BuildingName: "Annex", TowerID: "T9", FloorNumber: 1, TotalSeats: 60},
		},
	}
	policy := model.DefaultPolicy()
	policy.Objective = model.ObjectiveMaxCohesion
	policy.SolveBudget = 10

	outcome, err := Optimize(context.Background(), baseline, nil, policy, nil)
	require.NoError(t, err)
	require.Contains(t, []solve.Status{solve.StatusOptimal, solve.StatusFeasible}, outcome.Status)

	for _, a := range outcome.Assignments {
		assert.Equal(t, "T1", a.TowerID, "all seats stay in the home tower")
	}
}

func TestOptimize_AdvancedMissingAttendanceReported(t *testing.T) {
	// Advanced mode with no profile for Sales: the outcome is still produced
	// for the units that have data, but the gap is reported per unit instead
	// of the unit silently vanishing with zero demand.
	baseline := optimizeBaseline()
	baseline.Attendance = []model.AttendanceProfile{
		{UnitName: "Finance", MedianHC: 30, MaxHC: 40, RTODaysPerWeek: 4},
	}
	policy := model.DefaultPolicy()
	policy.Mode = model.ModeAdvanced
	policy.Objective = model.ObjectiveMinShortfall
	policy.SolveBudget = 10

	outcome, err := Optimize(context.Background(), baseline, nil, policy, nil)
	require.NotNil(t, outcome)
	require.Contains(t, []solve.Status{solve.StatusOptimal, solve.StatusFeasible}, outcome.Status)
	assert.NotContains(t, outcome.UnitTotals, "Sales")

	require.Error(t, err)
	var missing *model.MissingAttendanceError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Sales", missing.Unit)
}

func TestOptimize_UnknownObjective(t *testing.T) {
	policy := model.DefaultPolicy()
	policy.Objective = "teleport"

	outcome, err := Optimize(context.Background(), optimizeBaseline(), nil, policy, nil)
	assert.Nil(t, outcome)
	require.Error(t, err)
}
