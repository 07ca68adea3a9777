package main

import (
	"fmt"

	"github.com/piwi3910/SeatPlan/internal/engine"
	"github.com/piwi3910/SeatPlan/internal/model"
)

func printResult(r *model.AllocationResult) {
	fmt.Println("Seat Allocation")
	fmt.Println("===============")
	fmt.Println()

	fmt.Printf("%-24s %8s %10s %10s %6s %16s\n",
		"Unit", "Alloc %", "Effective", "Assigned", "Gap", "RTO")
	fmt.Printf("%-24s %8s %10s %10s %6s %16s\n",
		"------------------------", "--------", "----------", "----------", "------", "----------------")

	rtoByUnit := map[string]model.RTOStatus{}
	for _, a := range r.RTO {
		rtoByUnit[a.UnitName] = a.Status
	}

	for _, rec := range r.Recommendations {
		status := string(rtoByUnit[rec.UnitName])
		if status == "" {
			status = "-"
		}
		fmt.Printf("%-24s %7.0f%% %10d %10d %+6d %16s\n",
			rec.UnitName, rec.AllocPct*100, rec.EffectiveSeats, rec.AssignedSeats, rec.SeatGap, status)
	}

	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("-------")
	fmt.Printf("  Demand:    %d seats\n", r.TotalDemand)
	fmt.Printf("  Supply:    %d seats\n", r.TotalSupply)
	fmt.Printf("  Assigned:  %d seats\n", r.TotalAssigned)
	fmt.Printf("  Gap:       %+d seats\n", r.TotalGap)
	fmt.Printf("  Floors:    %d\n", r.FloorsUsed())

	var fragmented []model.FragmentationMetric
	for _, m := range r.Fragmentation {
		if m.HighFragmentation {
			fragmented = append(fragmented, m)
		}
	}
	if len(fragmented) > 0 {
		fmt.Println()
		fmt.Printf("Highly fragmented units (%d):\n", len(fragmented))
		for _, m := range fragmented {
			fmt.Printf("  - %s: %d floors, %.1f avg seats/floor\n",
				m.UnitName, m.FloorsOccupied, m.AvgSeatsPerFloor)
		}
	}
}

func printOutcome(o *engine.OptimizationOutcome) {
	fmt.Printf("Optimization: %s\n", o.Objective)
	fmt.Printf("Status:       %s\n", o.Status)
	fmt.Printf("Message:      %s\n", o.Message)

	if len(o.Assignments) == 0 {
		return
	}

	fmt.Printf("Objective value: %.2f\n", o.ObjectiveValue)
	fmt.Println()
	fmt.Printf("%-24s %-14s %6s\n", "Unit", "Floor", "Seats")
	fmt.Printf("%-24s %-14s %6s\n", "------------------------", "--------------", "------")
	for _, a := range o.Assignments {
		fmt.Printf("%-24s %-14s %6d\n", a.UnitName, a.FloorID(), a.Seats)
	}

	fmt.Println()
	fmt.Println("Against greedy placement")
	fmt.Println("------------------------")
	fmt.Printf("  Seats assigned: %d -> %d\n", o.BeforeAfter.GreedyAssigned, o.BeforeAfter.OptimizedAssigned)
	fmt.Printf("  Floors used:    %d -> %d\n", o.BeforeAfter.GreedyFloors, o.BeforeAfter.OptimizedFloors)

	if len(o.Suggestions) > 0 {
		fmt.Println()
		for _, s := range o.Suggestions {
			fmt.Printf("  * %s\n", s)
		}
	}
}

func printDiff(idA, idB string, diff engine.ScenarioDiff) {
	labelA, labelB := idA, idB
	if labelA == "" {
		labelA = "baseline"
	}
	if labelB == "" {
		labelB = "baseline"
	}

	fmt.Printf("Comparing %s -> %s\n", labelA, labelB)
	fmt.Println()
	fmt.Printf("%-24s %8s %8s %7s %7s %7s\n", "Unit", "Before", "After", "Delta", "Gap A", "Gap B")
	fmt.Printf("%-24s %8s %8s %7s %7s %7s\n",
		"------------------------", "--------", "--------", "-------", "-------", "-------")
	for _, u := range diff.Units {
		fmt.Printf("%-24s %8d %8d %+7d %+7d %+7d\n",
			u.UnitName, u.SeatsBefore, u.SeatsAfter, u.Delta, u.GapBefore, u.GapAfter)
	}

	fmt.Println()
	fmt.Printf("Total seat delta: %+d\n", diff.TotalDelta)
	fmt.Printf("Floors used:      %d -> %d", diff.FloorsA, diff.FloorsB)
	switch {
	case diff.FloorsFreed > 0:
		fmt.Printf(" (%d freed)\n", diff.FloorsFreed)
	case diff.FloorsFreed < 0:
		fmt.Printf(" (%d added)\n", -diff.FloorsFreed)
	default:
		fmt.Println()
	}
}
