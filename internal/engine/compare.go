package engine

import (
	"sort"

	"github.com/piwi3910/SeatPlan/internal/model"
)

// UnitDelta is the per-unit difference between two allocation results.
type UnitDelta struct {
	UnitName       string  `json:"unit_name"`
	SeatsBefore    int     `json:"seats_before"`
	SeatsAfter     int     `json:"seats_after"`
	Delta          int     `json:"delta"`
	AllocPctBefore float64 `json:"alloc_pct_before"`
	AllocPctAfter  float64 `json:"alloc_pct_after"`
	GapBefore      int     `json:"gap_before"`
	GapAfter       int     `json:"gap_after"`
}

// ScenarioDiff is the full comparison between two allocation results.
type ScenarioDiff struct {
	Units       []UnitDelta `json:"units"`
	TotalDelta  int         `json:"total_delta"`
	FloorsA     int         `json:"floors_a"`
	FloorsB     int         `json:"floors_b"`
	FloorsFreed int         `json:"floors_freed"` // positive when B uses fewer floors
}

// Diff computes per-unit and aggregate deltas between two results. It never
// mutates either input, and swapping the inputs negates every delta.
func Diff(a, b *model.AllocationResult) ScenarioDiff {
	seatsA := resultSeats(a)
	seatsB := resultSeats(b)
	pctA, gapA := resultPctGap(a)
	pctB, gapB := resultPctGap(b)

	names := map[string]bool{}
	for name := range seatsA {
		names[name] = true
	}
	for name := range seatsB {
		names[name] = true
	}
	ordered := make([]string, 0, len(names))
	for name := range names {
		ordered = append(ordered, name)
	}
	sort.Strings(ordered)

	diff := ScenarioDiff{}
	for _, name := range ordered {
		d := UnitDelta{
			UnitName:       name,
			SeatsBefore:    seatsA[name],
			SeatsAfter:     seatsB[name],
			Delta:          seatsB[name] - seatsA[name],
			AllocPctBefore: pctA[name],
			AllocPctAfter:  pctB[name],
			GapBefore:      gapA[name],
			GapAfter:       gapB[name],
		}
		diff.Units = append(diff.Units, d)
		diff.TotalDelta += d.Delta
	}

	if a != nil {
		diff.FloorsA = a.FloorsUsed()
	}
	if b != nil {
		diff.FloorsB = b.FloorsUsed()
	}
	diff.FloorsFreed = diff.FloorsA - diff.FloorsB
	return diff
}

func resultSeats(r *model.AllocationResult) map[string]int {
	if r == nil {
		return map[string]int{}
	}
	seats := make(map[string]int, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		seats[rec.UnitName] = rec.AssignedSeats
	}
	return seats
}

func resultPctGap(r *model.AllocationResult) (map[string]float64, map[string]int) {
	pct := map[string]float64{}
	gap := map[string]int{}
	if r == nil {
		return pct, gap
	}
	for _, rec := range r.Recommendations {
		pct[rec.UnitName] = rec.AllocPct
		gap[rec.UnitName] = rec.SeatGap
	}
	return pct, gap
}
