package engine

import (
	"math"

	"github.com/piwi3910/SeatPlan/internal/model"
)

// Overlay resolves effective values through the override layers: per-unit
// scenario override first, then scenario-wide controls, then the baseline.
// Baseline records are never touched; resolution always produces copies.
type Overlay struct {
	scenario *model.Scenario
}

// NewOverlay wraps a scenario (nil means no overrides at all).
func NewOverlay(scenario *model.Scenario) Overlay {
	return Overlay{scenario: scenario}
}

func (o Overlay) override(unitName string) (model.ScenarioOverride, bool) {
	if o.scenario == nil {
		return model.ScenarioOverride{}, false
	}
	ov, ok := o.scenario.Overrides[unitName]
	return ov, ok
}

// ResolveUnit returns a copy of the unit with scenario overrides applied.
func (o Overlay) ResolveUnit(u model.Unit) model.Unit {
	ov, ok := o.override(u.Name)
	if !ok {
		return u
	}
	if ov.GrowthPct != nil {
		u.GrowthPct = *ov.GrowthPct
	}
	if ov.AttritionPct != nil {
		u.AttritionPct = *ov.AttritionPct
	}
	if ov.AllocPctOverride != nil {
		v := *ov.AllocPctOverride
		u.AllocPctOverride = &v
	}
	return u
}

// ResolveAttendance returns a copy of the attendance profile with overrides
// applied. RTO days resolve through: per-unit override, then the global RTO
// mandate when set, then the baseline value.
func (o Overlay) ResolveAttendance(a model.AttendanceProfile) model.AttendanceProfile {
	ov, hasOv := o.override(a.UnitName)
	if hasOv {
		if ov.MedianHC != nil {
			a.MedianHC = *ov.MedianHC
		}
		if ov.MaxHC != nil {
			a.MaxHC = *ov.MaxHC
		}
	}
	switch {
	case hasOv && ov.RTODays != nil:
		a.RTODaysPerWeek = *ov.RTODays
	case o.scenario != nil && o.scenario.Params.GlobalRTOMandateDays != nil:
		a.RTODaysPerWeek = *o.scenario.Params.GlobalRTOMandateDays
	}
	return a
}

// ResolveFloors applies the scenario's capacity reduction and floor
// exclusions, returning new floor values.
func (o Overlay) ResolveFloors(floors []model.Floor) []model.Floor {
	if o.scenario == nil {
		return append([]model.Floor(nil), floors...)
	}
	excluded := make(map[string]bool, len(o.scenario.Params.ExcludedFloorIDs))
	for _, id := range o.scenario.Params.ExcludedFloorIDs {
		excluded[id] = true
	}
	reduction := o.scenario.Params.CapacityReductionPct

	out := make([]model.Floor, 0, len(floors))
	for _, f := range floors {
		if excluded[f.FloorID()] {
			continue
		}
		if reduction > 0 {
			f.TotalSeats = int(math.Round(float64(f.TotalSeats) * (1 - reduction)))
			if f.TotalSeats < 0 {
				f.TotalSeats = 0
			}
		}
		out = append(out, f)
	}
	return out
}

// Resolve applies the whole overlay to a baseline, producing the working
// copies the pipeline operates on.
func (o Overlay) Resolve(b model.Baseline) ([]model.Unit, map[string]model.AttendanceProfile, []model.Floor) {
	units := make([]model.Unit, 0, len(b.Units))
	for _, u := range b.Units {
		units = append(units, o.ResolveUnit(u))
	}
	attendance := make(map[string]model.AttendanceProfile, len(b.Attendance))
	for _, a := range b.Attendance {
		resolved := o.ResolveAttendance(a)
		attendance[resolved.UnitName] = resolved
	}
	return units, attendance, o.ResolveFloors(b.Floors)
}
