package model

import "time"

// TraceStep records one applied allocation rule: its name, the inputs it
// consumed and the value it produced. Traces are the explainability
// contract; recomputing with identical inputs must reproduce them
// bit-for-bit.
type TraceStep struct {
	Rule   string             `json:"rule"`
	Inputs map[string]float64 `json:"inputs"`
	Output float64            `json:"output"`
}

// Recommendation is the allocation outcome for a single unit.
type Recommendation struct {
	UnitName       string      `json:"unit_name"`
	AllocPct       float64     `json:"alloc_pct"`       // post-clamp allocation percentage
	EffectiveSeats int         `json:"effective_seats"` // seats demanded after all rules
	AssignedSeats  int         `json:"assigned_seats"`  // seats actually placed on floors
	SeatGap        int         `json:"seat_gap"`        // assigned - effective (negative = shortfall)
	Overridden     bool        `json:"overridden"`      // manual alloc % override applied
	Trace          []TraceStep `json:"trace,omitempty"`
	Explanation    []string    `json:"explanation,omitempty"`
}

// AdjacencyTier labels how well a floor assignment matches the unit's
// placement preference.
type AdjacencyTier string

const (
	TierSingleFloor AdjacencyTier = "single_floor" // whole demand fits one home-tower floor
	TierAdjacent    AdjacencyTier = "adjacent"     // +/-1 floor in the home tower
	TierSameTower   AdjacencyTier = "same_tower"
	TierSameBldg    AdjacencyTier = "same_building"
	TierCrossBldg   AdjacencyTier = "cross_building"
	TierOptimized   AdjacencyTier = "optimized" // produced by the solver, not the greedy engine
)

// FloorAssignment is one unit's seat block on one floor.
type FloorAssignment struct {
	UnitName    string        `json:"unit_name"`
	BuildingID  string        `json:"building_id"`
	TowerID     string        `json:"tower_id"`
	FloorNumber int           `json:"floor_number"`
	Seats       int           `json:"seats"`
	Tier        AdjacencyTier `json:"tier"`
}

// FloorID returns the canonical id of the assigned floor.
func (a FloorAssignment) FloorID() string {
	return Floor{TowerID: a.TowerID, FloorNumber: a.FloorNumber}.FloorID()
}

// FragmentationMetric describes how scattered a unit's seats ended up.
type FragmentationMetric struct {
	UnitName          string  `json:"unit_name"`
	FloorsOccupied    int     `json:"floors_occupied"`
	AvgSeatsPerFloor  float64 `json:"avg_seats_per_floor"`
	HighFragmentation bool    `json:"high_fragmentation"`
}

// RTOStatus is the alignment verdict between allocated seats and the seats
// attendance data says a unit needs.
type RTOStatus string

const (
	RTOAligned        RTOStatus = "Aligned"
	RTOUnderAllocated RTOStatus = "Under-allocated"
	RTOUnderUtilized  RTOStatus = "Under-utilized"
)

// RTOAlignment is the evaluator output for one unit.
type RTOAlignment struct {
	UnitName       string    `json:"unit_name"`
	ExpectedSeats  int       `json:"expected_seats"`
	EffectiveSeats int       `json:"effective_seats"`
	GapPct         float64   `json:"gap_pct"` // (effective - expected) / expected
	Status         RTOStatus `json:"status"`
}

// AllocationResult is the immutable snapshot of one calculation. It is keyed
// to the scenario and a baseline hash so staleness is detectable when the
// baseline changes after the result was produced.
type AllocationResult struct {
	ScenarioID   string    `json:"scenario_id"`
	BaselineHash string    `json:"baseline_hash"`
	ComputedAt   time.Time `json:"computed_at"`

	Recommendations []Recommendation      `json:"recommendations"`
	Assignments     []FloorAssignment     `json:"assignments"`
	Fragmentation   []FragmentationMetric `json:"fragmentation"`
	RTO             []RTOAlignment        `json:"rto"`

	TotalDemand   int `json:"total_demand"`
	TotalSupply   int `json:"total_supply"`
	TotalAssigned int `json:"total_assigned"`
	TotalGap      int `json:"total_gap"` // assigned - demand (negative = aggregate shortfall)
}

// SeatsByUnit sums assigned seats per unit.
func (r *AllocationResult) SeatsByUnit() map[string]int {
	totals := make(map[string]int, len(r.Recommendations))
	for _, a := range r.Assignments {
		totals[a.UnitName] += a.Seats
	}
	return totals
}

// FloorsByUnit counts distinct floors occupied per unit.
func (r *AllocationResult) FloorsByUnit() map[string]int {
	floors := map[string]map[string]bool{}
	for _, a := range r.Assignments {
		if floors[a.UnitName] == nil {
			floors[a.UnitName] = map[string]bool{}
		}
		floors[a.UnitName][a.FloorID()] = true
	}
	counts := make(map[string]int, len(floors))
	for u, set := range floors {
		counts[u] = len(set)
	}
	return counts
}

// FloorsUsed counts distinct floors with any assignment.
func (r *AllocationResult) FloorsUsed() int {
	seen := map[string]bool{}
	for _, a := range r.Assignments {
		if a.Seats > 0 {
			seen[a.FloorID()] = true
		}
	}
	return len(seen)
}

// Recommendation returns the recommendation for a unit, or nil.
func (r *AllocationResult) Recommendation(unitName string) *Recommendation {
	for i := range r.Recommendations {
		if r.Recommendations[i].UnitName == unitName {
			return &r.Recommendations[i]
		}
	}
	return nil
}
