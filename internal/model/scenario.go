package model

import (
	"time"

	"github.com/google/uuid"
)

// ScenarioState is the lifecycle state of a scenario.
type ScenarioState string

const (
	ScenarioDraft  ScenarioState = "draft"
	ScenarioLocked ScenarioState = "locked"
)

// ScenarioType categorizes what a scenario models.
type ScenarioType string

const (
	ScenarioBaseline      ScenarioType = "baseline"
	ScenarioGrowth        ScenarioType = "growth"
	ScenarioEfficiency    ScenarioType = "efficiency"
	ScenarioAttrition     ScenarioType = "attrition"
	ScenarioConsolidation ScenarioType = "consolidation"
	ScenarioCustom        ScenarioType = "custom"
)

// ScenarioOverride is a sparse per-unit override. Nil fields fall through to
// the baseline value.
type ScenarioOverride struct {
	UnitName         string   `json:"unit_name"`
	GrowthPct        *float64 `json:"growth_pct,omitempty"`
	AttritionPct     *float64 `json:"attrition_pct,omitempty"`
	MedianHC         *float64 `json:"median_hc,omitempty"`
	MaxHC            *float64 `json:"max_hc,omitempty"`
	RTODays          *float64 `json:"rto_days,omitempty"`
	AllocPctOverride *float64 `json:"alloc_pct_override,omitempty"`
}

// ScenarioParams are scenario-wide controls.
type ScenarioParams struct {
	GlobalRTOMandateDays *float64 `json:"global_rto_mandate_days,omitempty"`
	CapacityReductionPct float64  `json:"capacity_reduction_pct"` // e.g. 0.20 shrinks every floor by 20%
	ExcludedFloorIDs     []string `json:"excluded_floor_ids,omitempty"`
}

// Scenario is a named, isolated overlay of assumptions on top of the
// baseline. It never mutates baseline data: overrides are resolved at
// calculation time. A locked scenario rejects further override mutation.
type Scenario struct {
	ID            string                      `json:"id"`
	Name          string                      `json:"name"`
	Description   string                      `json:"description,omitempty"`
	Type          ScenarioType                `json:"type"`
	State         ScenarioState               `json:"state"`
	HorizonMonths int                         `json:"horizon_months"`
	CreatedAt     time.Time                   `json:"created_at"`
	Overrides     map[string]ScenarioOverride `json:"overrides,omitempty"`
	Params        ScenarioParams              `json:"params"`

	// Result is the last computed snapshot, or nil when the scenario has
	// never been run. Staleness against a changed baseline is detected via
	// Result.BaselineHash.
	Result *AllocationResult `json:"result,omitempty"`
}

// NewScenario creates a draft scenario with a fresh short id.
func NewScenario(name string, typ ScenarioType) *Scenario {
	return &Scenario{
		ID:            uuid.New().String()[:8],
		Name:          name,
		Type:          typ,
		State:         ScenarioDraft,
		HorizonMonths: 6,
		CreatedAt:     time.Now().UTC(),
		Overrides:     map[string]ScenarioOverride{},
	}
}

// Locked reports whether the scenario rejects mutation.
func (s *Scenario) Locked() bool { return s.State == ScenarioLocked }

// Lock freezes the scenario against further override mutation.
func (s *Scenario) Lock() { s.State = ScenarioLocked }

// SetOverride stores or replaces the override for a unit.
func (s *Scenario) SetOverride(ov ScenarioOverride) error {
	if s.Locked() {
		return &ScenarioLockedError{ScenarioID: s.ID}
	}
	if s.Overrides == nil {
		s.Overrides = map[string]ScenarioOverride{}
	}
	s.Overrides[ov.UnitName] = ov
	return nil
}

// ClearOverride removes the override for a unit.
func (s *Scenario) ClearOverride(unitName string) error {
	if s.Locked() {
		return &ScenarioLockedError{ScenarioID: s.ID}
	}
	delete(s.Overrides, unitName)
	return nil
}

// SetParams replaces the scenario-wide controls.
func (s *Scenario) SetParams(params ScenarioParams) error {
	if s.Locked() {
		return &ScenarioLockedError{ScenarioID: s.ID}
	}
	s.Params = params
	return nil
}

// AttachResult records a computed snapshot on the scenario. Results are
// immutable once attached; a new run produces a new snapshot.
func (s *Scenario) AttachResult(r *AllocationResult) {
	s.Result = r
}
