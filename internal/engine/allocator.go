package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/SeatPlan/internal/model"
)

// Allocator derives recommended allocation percentages and effective seat
// demand for business units under an immutable policy.
type Allocator struct {
	Policy model.PolicyConfig
}

func NewAllocator(policy model.PolicyConfig) *Allocator {
	return &Allocator{Policy: policy}
}

// ComputeAll computes a recommendation for every unit. In advanced mode a
// unit without attendance data yields a MissingAttendanceError in the
// returned error slice; computation continues for the remaining units.
// Results are ordered by unit name for reproducibility.
func (al *Allocator) ComputeAll(
	units []model.Unit,
	attendance map[string]model.AttendanceProfile,
	horizonMonths int,
) ([]model.Recommendation, []error) {
	if err := al.Policy.Validate(); err != nil {
		return nil, []error{err}
	}

	ordered := append([]model.Unit(nil), units...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Name < ordered[j].Name })

	var recs []model.Recommendation
	var unitErrs []error
	for _, u := range ordered {
		if al.Policy.Mode == model.ModeAdvanced {
			att, ok := attendance[u.Name]
			if !ok {
				unitErrs = append(unitErrs, &model.MissingAttendanceError{Unit: u.Name})
				continue
			}
			recs = append(recs, al.computeAdvanced(u, att, horizonMonths))
		} else {
			recs = append(recs, al.computeSimple(u, horizonMonths))
		}
	}
	return recs, unitErrs
}

// computeSimple applies the flat-percentage formula: base % (per-unit
// override or global default), projected by net growth over the horizon,
// clamped to policy bounds.
func (al *Allocator) computeSimple(u model.Unit, horizonMonths int) model.Recommendation {
	if u.CurrentHC == 0 {
		return zeroRecommendation(u.Name)
	}

	var trace []model.TraceStep

	basePct := al.Policy.GlobalAllocPct
	isOverride := u.AllocPctOverride != nil
	if isOverride {
		basePct = *u.AllocPctOverride
	}
	trace = append(trace, model.TraceStep{
		Rule: "base_pct",
		Inputs: map[string]float64{
			"global_alloc_pct": al.Policy.GlobalAllocPct,
			"has_override":     boolToFloat(isOverride),
		},
		Output: basePct,
	})

	netChange := u.NetChangePct()
	horizonFactor := 1 + netChange*float64(horizonMonths)/12
	adjusted := basePct * horizonFactor
	trace = append(trace, model.TraceStep{
		Rule: "horizon_adjust",
		Inputs: map[string]float64{
			"growth_pct":     u.GrowthPct,
			"attrition_pct":  u.AttritionPct,
			"horizon_months": float64(horizonMonths),
		},
		Output: adjusted,
	})

	clamped := al.Policy.Clamp(adjusted)
	trace = append(trace, model.TraceStep{
		Rule: "clamp",
		Inputs: map[string]float64{
			"min_alloc_pct": al.Policy.MinAllocPct,
			"max_alloc_pct": al.Policy.MaxAllocPct,
			"raw_pct":       adjusted,
		},
		Output: clamped,
	})

	seats := int(math.Round(clamped * float64(u.CurrentHC)))
	trace = append(trace, model.TraceStep{
		Rule: "effective_seats",
		Inputs: map[string]float64{
			"alloc_pct":  clamped,
			"current_hc": float64(u.CurrentHC),
		},
		Output: float64(seats),
	})

	return model.Recommendation{
		UnitName:       u.Name,
		AllocPct:       clamped,
		EffectiveSeats: seats,
		SeatGap:        -seats, // assignment pending
		Overridden:     isOverride,
		Trace:          trace,
		Explanation: explainSimple(u, basePct, isOverride, al.Policy.GlobalAllocPct,
			horizonMonths, horizonFactor, adjusted, clamped, seats, clamped != adjusted),
	}
}

// computeAdvanced applies the attendance-based formula: base demand ratio,
// RTO scaling, growth projection, then a stability-discounted peak buffer,
// clamped to policy bounds.
func (al *Allocator) computeAdvanced(u model.Unit, att model.AttendanceProfile, horizonMonths int) model.Recommendation {
	if u.CurrentHC == 0 {
		return zeroRecommendation(u.Name)
	}

	var trace []model.TraceStep
	hc := float64(u.CurrentHC)

	baseRatio := att.MedianHC / hc
	trace = append(trace, model.TraceStep{
		Rule: "base_demand_pct",
		Inputs: map[string]float64{
			"monthly_median_hc": att.MedianHC,
			"current_hc":        hc,
		},
		Output: baseRatio,
	})

	peakBuffer := (att.MaxHC - att.MedianHC) / hc * al.Policy.PeakBufferMultiplier
	stable := att.Stability != nil && *att.Stability >= al.Policy.StabilityThreshold
	if stable {
		peakBuffer *= 1 - al.Policy.StabilityDiscountFactor
	}
	trace = append(trace, model.TraceStep{
		Rule: "peak_buffer_pct",
		Inputs: map[string]float64{
			"monthly_max_hc":       att.MaxHC,
			"monthly_median_hc":    att.MedianHC,
			"peak_buffer_mult":     al.Policy.PeakBufferMultiplier,
			"stability_discounted": boolToFloat(stable),
			"stability_discount":   al.Policy.StabilityDiscountFactor,
		},
		Output: peakBuffer,
	})

	rtoFactor := att.RTORatio()
	scaled := baseRatio * rtoFactor
	trace = append(trace, model.TraceStep{
		Rule: "rto_scaled_pct",
		Inputs: map[string]float64{
			"rto_days_per_week": att.RTODaysPerWeek,
			"base_demand_pct":   baseRatio,
		},
		Output: scaled,
	})

	netChange := u.NetChangePct()
	horizonFactor := 1 + netChange*float64(horizonMonths)/12
	growthAdjusted := scaled * horizonFactor
	trace = append(trace, model.TraceStep{
		Rule: "growth_adjusted_pct",
		Inputs: map[string]float64{
			"growth_pct":     u.GrowthPct,
			"attrition_pct":  u.AttritionPct,
			"horizon_months": float64(horizonMonths),
		},
		Output: growthAdjusted,
	})

	raw := growthAdjusted + peakBuffer
	final := al.Policy.Clamp(raw)
	trace = append(trace, model.TraceStep{
		Rule: "clamp",
		Inputs: map[string]float64{
			"min_alloc_pct": al.Policy.MinAllocPct,
			"max_alloc_pct": al.Policy.MaxAllocPct,
			"raw_pct":       raw,
		},
		Output: final,
	})

	seats := int(math.Round(final * hc))
	trace = append(trace, model.TraceStep{
		Rule: "effective_seats",
		Inputs: map[string]float64{
			"alloc_pct":  final,
			"current_hc": hc,
		},
		Output: float64(seats),
	})

	return model.Recommendation{
		UnitName:       u.Name,
		AllocPct:       final,
		EffectiveSeats: seats,
		SeatGap:        -seats, // assignment pending
		Trace:          trace,
		Explanation: explainAdvanced(u, att, horizonMonths, baseRatio, peakBuffer,
			rtoFactor, scaled, horizonFactor, growthAdjusted, final, seats, final != raw),
	}
}

func zeroRecommendation(unitName string) model.Recommendation {
	return model.Recommendation{
		UnitName:    unitName,
		Explanation: []string{"Unit has 0 headcount — no allocation needed."},
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// explainSimple renders the simple-mode trace into user-facing steps.
func explainSimple(
	u model.Unit,
	basePct float64, isOverride bool, globalPct float64,
	horizonMonths int, horizonFactor, adjusted, clamped float64,
	seats int, wasClamped bool,
) []string {
	var steps []string
	if isOverride {
		steps = append(steps, fmt.Sprintf(
			"Step 1 - Allocation %%: Unit override = %.0f%% (global default is %.0f%%)",
			basePct*100, globalPct*100))
	} else {
		steps = append(steps, fmt.Sprintf("Step 1 - Allocation %%: Global default = %.0f%%", basePct*100))
	}
	steps = append(steps, fmt.Sprintf(
		"Step 2 - Growth/Attrition: Growth %+.1f%%, Attrition %+.1f%% => net %+.1f%% over %dmo => factor %.3f",
		u.GrowthPct*100, u.AttritionPct*100, u.NetChangePct()*100, horizonMonths, horizonFactor))
	steps = append(steps, fmt.Sprintf(
		"Step 3 - Adjusted allocation: %.0f%% x %.3f = %.1f%%", basePct*100, horizonFactor, adjusted*100))
	if wasClamped {
		steps = append(steps, fmt.Sprintf("Note: Allocation clamped to policy bounds => %.1f%%", clamped*100))
	}
	steps = append(steps, fmt.Sprintf(
		"Step 4 - Effective demand: %.1f%% x %d HC = %d seats needed", clamped*100, u.CurrentHC, seats))
	return steps
}

// explainAdvanced renders the advanced-mode trace into user-facing steps.
func explainAdvanced(
	u model.Unit, att model.AttendanceProfile,
	horizonMonths int,
	baseRatio, peakBuffer, rtoFactor, scaled, horizonFactor, growthAdjusted, final float64,
	seats int, wasClamped bool,
) []string {
	steps := []string{
		fmt.Sprintf("Step 1 - Base demand: Median in-office strength is %.0f out of %d HC => base ratio %.1f%%",
			att.MedianHC, u.CurrentHC, baseRatio*100),
		fmt.Sprintf("Step 2 - Peak buffer: Peak HC (%.0f) adds %.1f%% buffer", att.MaxHC, peakBuffer*100),
		fmt.Sprintf("Step 3 - RTO scaling: %.1f days/week => scaling factor %.2f, scaled ratio %.1f%%",
			att.RTODaysPerWeek, rtoFactor, scaled*100),
		fmt.Sprintf("Step 4 - Growth/Attrition: Growth %+.1f%%, Attrition %+.1f%% => net %+.1f%% over %dmo => factor %.3f",
			u.GrowthPct*100, u.AttritionPct*100, u.NetChangePct()*100, horizonMonths, horizonFactor),
		fmt.Sprintf("Step 5 - Final: %.1f%% (growth-adjusted) + %.1f%% (buffer) = %.1f%% recommended allocation",
			growthAdjusted*100, peakBuffer*100, final*100),
	}
	if wasClamped {
		steps = append(steps, fmt.Sprintf("Note: Allocation was clamped to policy bounds => final %.1f%%", final*100))
	}
	steps = append(steps, fmt.Sprintf("Step 6 - Effective demand: %.1f%% x %d HC = %d seats needed",
		final*100, u.CurrentHC, seats))
	return steps
}
