package model

// AllocationMode selects the allocation formula.
type AllocationMode string

const (
	ModeSimple   AllocationMode = "simple"   // flat % (global or per-unit override)
	ModeAdvanced AllocationMode = "advanced" // attendance-based formula
)

// Objective selects the optimization goal for a solver run.
type Objective string

const (
	ObjectiveMinShortfall Objective = "min_shortfall"   // minimize total unmet demand
	ObjectiveMaxCohesion  Objective = "max_cohesion"    // concentrate units on few adjacent floors
	ObjectiveMinFloors    Objective = "min_floors"      // minimize floors with any assignment
	ObjectiveFairness     Objective = "fair_allocation" // minimize worst-case shortfall ratio
)

// Objectives lists the supported optimization objectives.
var Objectives = []Objective{
	ObjectiveMinShortfall,
	ObjectiveMaxCohesion,
	ObjectiveMinFloors,
	ObjectiveFairness,
}

// PlanningHorizons lists the supported planning horizons in months.
var PlanningHorizons = []int{3, 6}

// PolicyConfig holds all allocation policy knobs. It is an immutable value
// passed explicitly into every calculation; the engine never keeps policy
// state of its own.
type PolicyConfig struct {
	Mode           AllocationMode `json:"mode"`
	GlobalAllocPct float64        `json:"global_alloc_pct"` // simple-mode default, e.g. 0.80
	MinAllocPct    float64        `json:"min_alloc_pct"`
	MaxAllocPct    float64        `json:"max_alloc_pct"`

	StabilityThreshold      float64 `json:"stability_threshold"`       // stability above this earns the discount
	StabilityDiscountFactor float64 `json:"stability_discount_factor"` // peak buffer reduction for stable units
	PeakBufferMultiplier    float64 `json:"peak_buffer_multiplier"`

	ShrinkContributionFactor float64 `json:"shrink_contribution_factor"` // share of shrinkage released to the pool
	RTOAlertThreshold        float64 `json:"rto_alert_threshold"`        // over-allocation alert, e.g. 0.20

	HorizonMonths int `json:"horizon_months"` // 3 or 6

	Objective    Objective `json:"objective"`
	SolveBudget  int       `json:"solve_budget_seconds"`
	MinAvgSeats  float64   `json:"min_avg_seats_per_floor"` // high-fragmentation floor threshold
	RTOTargetDay float64   `json:"rto_target_days"`         // global RTO compliance target
}

// DefaultPolicy returns the process-wide default policy configuration.
func DefaultPolicy() PolicyConfig {
	return PolicyConfig{
		Mode:                     ModeSimple,
		GlobalAllocPct:           0.80,
		MinAllocPct:              0.20,
		MaxAllocPct:              1.50,
		StabilityThreshold:       0.7,
		StabilityDiscountFactor:  0.30,
		PeakBufferMultiplier:     1.0,
		ShrinkContributionFactor: 0.5,
		RTOAlertThreshold:        0.20,
		HorizonMonths:            6,
		Objective:                ObjectiveMinShortfall,
		SolveBudget:              30,
		MinAvgSeats:              10,
		RTOTargetDay:             3.0,
	}
}

// Validate checks the policy for internally inconsistent values. Calculation
// entry points call this before doing any work; a bad policy is surfaced to
// the caller, never guessed around.
func (p PolicyConfig) Validate() error {
	if p.MinAllocPct > p.MaxAllocPct {
		return &InvalidPolicyBoundsError{Min: p.MinAllocPct, Max: p.MaxAllocPct}
	}
	if p.Mode != ModeSimple && p.Mode != ModeAdvanced {
		return &ValidationError{Field: "mode", Message: "unknown allocation mode " + string(p.Mode)}
	}
	if p.HorizonMonths != 3 && p.HorizonMonths != 6 {
		return &ValidationError{Field: "horizon_months", Message: "planning horizon must be 3 or 6 months"}
	}
	return nil
}

// Clamp bounds an allocation percentage to the policy min/max.
func (p PolicyConfig) Clamp(pct float64) float64 {
	if pct < p.MinAllocPct {
		return p.MinAllocPct
	}
	if pct > p.MaxAllocPct {
		return p.MaxAllocPct
	}
	return pct
}
