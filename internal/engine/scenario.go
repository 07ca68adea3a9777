package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/piwi3910/SeatPlan/internal/model"
)

// RunScenario executes the full pipeline for one scenario: overlay
// resolution, allocation, scarcity redistribution, spatial placement and RTO
// alignment. The baseline is never mutated; the returned result is a fresh
// immutable snapshot carrying the baseline hash for staleness detection.
//
// Advanced-mode units without attendance data are reported in the returned
// error (joined per unit) while the rest of the result is still produced.
func RunScenario(baseline model.Baseline, scenario *model.Scenario, policy model.PolicyConfig) (*model.AllocationResult, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if err := baseline.Validate(); err != nil {
		return nil, err
	}

	horizon := policy.HorizonMonths
	scenarioID := ""
	if scenario != nil {
		scenarioID = scenario.ID
		if scenario.HorizonMonths != 0 {
			horizon = scenario.HorizonMonths
		}
	}

	overlay := NewOverlay(scenario)
	units, attendance, floors := overlay.Resolve(baseline)
	unitMap := make(map[string]model.Unit, len(units))
	for _, u := range units {
		unitMap[u.Name] = u
	}

	allocator := NewAllocator(policy)
	recs, unitErrs := allocator.ComputeAll(units, attendance, horizon)

	totalSupply := model.TotalCapacity(floors)
	recs = Redistribute(recs, unitMap, totalSupply, horizon, policy)

	var excluded []string
	if scenario != nil {
		excluded = scenario.Params.ExcludedFloorIDs
	}
	placement := Place(recs, unitMap, floors, excluded, policy.MinAvgSeats)

	// Fold assignment totals and shortfall back into the recommendations.
	assigned := map[string]int{}
	for _, a := range placement.Assignments {
		assigned[a.UnitName] += a.Seats
	}
	totalDemand, totalAssigned := 0, 0
	for i := range recs {
		recs[i].AssignedSeats = assigned[recs[i].UnitName]
		recs[i].SeatGap = recs[i].AssignedSeats - recs[i].EffectiveSeats
		totalDemand += recs[i].EffectiveSeats
		totalAssigned += recs[i].AssignedSeats
	}

	result := &model.AllocationResult{
		ScenarioID:      scenarioID,
		BaselineHash:    baseline.Hash(),
		ComputedAt:      time.Now().UTC(),
		Recommendations: recs,
		Assignments:     placement.Assignments,
		Fragmentation:   placement.Fragmentation,
		RTO:             EvaluateRTO(recs, unitMap, attendance, policy),
		TotalDemand:     totalDemand,
		TotalSupply:     totalSupply,
		TotalAssigned:   totalAssigned,
		TotalGap:        totalAssigned - totalDemand,
	}

	if len(unitErrs) > 0 {
		return result, fmt.Errorf("allocation incomplete: %w", errors.Join(unitErrs...))
	}
	return result, nil
}

// Stale reports whether a result was computed against a baseline that has
// since changed. The engine exposes staleness but never auto-recomputes.
func Stale(result *model.AllocationResult, baseline model.Baseline) bool {
	if result == nil {
		return true
	}
	return result.BaselineHash != baseline.Hash()
}
