package engine

import (
	"math"
	"sort"

	"github.com/piwi3910/SeatPlan/internal/model"
)

// fallbackRTODays is assumed when advanced-mode alignment is requested for a
// unit that has no attendance profile.
const fallbackRTODays = 3.0

// EvaluateRTO compares each unit's effective seats against the seats its
// attendance pattern says it needs. Thresholds are strict inequalities:
// boundary values count as aligned.
func EvaluateRTO(
	recs []model.Recommendation,
	units map[string]model.Unit,
	attendance map[string]model.AttendanceProfile,
	policy model.PolicyConfig,
) []model.RTOAlignment {
	var alignments []model.RTOAlignment
	for _, rec := range recs {
		u, ok := units[rec.UnitName]
		if !ok || u.CurrentHC == 0 {
			continue
		}

		expected := expectedSeats(u, attendance, policy)
		if expected == 0 {
			continue
		}

		gapPct := float64(rec.EffectiveSeats-expected) / float64(expected)
		status := model.RTOAligned
		switch {
		case float64(rec.EffectiveSeats) < float64(expected)*0.9:
			status = model.RTOUnderAllocated
		case float64(rec.EffectiveSeats) > float64(expected)*(1+policy.RTOAlertThreshold):
			status = model.RTOUnderUtilized
		}

		alignments = append(alignments, model.RTOAlignment{
			UnitName:       rec.UnitName,
			ExpectedSeats:  expected,
			EffectiveSeats: rec.EffectiveSeats,
			GapPct:         gapPct,
			Status:         status,
		})
	}
	return alignments
}

// expectedSeats estimates the seats a unit actually needs. Simple mode uses
// the RTO day ratio against headcount; advanced mode uses the observed
// median plus the stability-adjusted peak buffer.
func expectedSeats(u model.Unit, attendance map[string]model.AttendanceProfile, policy model.PolicyConfig) int {
	att, hasAtt := attendance[u.Name]

	if policy.Mode == model.ModeAdvanced && hasAtt {
		buffer := (att.MaxHC - att.MedianHC) * policy.PeakBufferMultiplier
		if att.Stability != nil && *att.Stability >= policy.StabilityThreshold {
			buffer *= 1 - policy.StabilityDiscountFactor
		}
		return int(math.Round(att.MedianHC + buffer))
	}

	rtoDays := fallbackRTODays
	if hasAtt {
		rtoDays = att.RTODaysPerWeek
	}
	return int(math.Round(rtoDays / model.WorkingDaysPerWeek * float64(u.CurrentHC)))
}

// RTOCompliance is one unit's standing against a global RTO target.
type RTOCompliance struct {
	UnitName  string  `json:"unit_name"`
	ActualRTO float64 `json:"actual_rto"`
	TargetRTO float64 `json:"target_rto"`
	GapDays   float64 `json:"gap_days"`
	Compliant bool    `json:"compliant"`
}

// EvaluateRTOCompliance flags units whose average RTO days fall below the
// global target. Results are ordered by unit name.
func EvaluateRTOCompliance(attendance []model.AttendanceProfile, targetDays float64) []RTOCompliance {
	ordered := append([]model.AttendanceProfile(nil), attendance...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].UnitName < ordered[j].UnitName })

	results := make([]RTOCompliance, 0, len(ordered))
	for _, att := range ordered {
		gap := att.RTODaysPerWeek - targetDays
		results = append(results, RTOCompliance{
			UnitName:  att.UnitName,
			ActualRTO: att.RTODaysPerWeek,
			TargetRTO: targetDays,
			GapDays:   gap,
			Compliant: gap >= 0,
		})
	}
	return results
}
