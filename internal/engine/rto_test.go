package engine

import (
	"testing"

	"github.com/piwi3910/SeatPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// evaluateOne runs the evaluator for a single unit with a fixed effective
// seat count and returns its alignment.
func evaluateOne(t *testing.T, effective int, policy model.PolicyConfig) model.RTOAlignment {
	t.Helper()

	recs := []model.Recommendation{{UnitName: "Ops", EffectiveSeats: effective}}
	units := map[string]model.Unit{"Ops": {Name: "Ops", CurrentHC: 100}}
	attendance := map[string]model.AttendanceProfile{
		"Ops": {UnitName: "Ops", MedianHC: 60, MaxHC: 80, RTODaysPerWeek: 4},
	}

	alignments := EvaluateRTO(recs, units, attendance, policy)
	require.Len(t, alignments, 1)
	return alignments[0]
}

func TestEvaluateRTO_SimpleMode_ExpectedSeats(t *testing.T) {
	// 4 RTO days / 5 x 100 HC = 80 expected seats.
	a := evaluateOne(t, 80, model.DefaultPolicy())
	assert.Equal(t, 80, a.ExpectedSeats)
	assert.Equal(t, model.RTOAligned, a.Status)
	assert.Zero(t, a.GapPct)
}

func TestEvaluateRTO_StrictLowerBoundary(t *testing.T) {
	p := model.DefaultPolicy()

	// Exactly 90% of expected (72 of 80) is still aligned; one seat less is not.
	assert.Equal(t, model.RTOAligned, evaluateOne(t, 72, p).Status)
	assert.Equal(t, model.RTOUnderAllocated, evaluateOne(t, 71, p).Status)
}

func TestEvaluateRTO_StrictUpperBoundary(t *testing.T) {
	p := model.DefaultPolicy() // alert threshold 0.20

	// Exactly 120% of expected (96 of 80) is still aligned; one seat more is not.
	assert.Equal(t, model.RTOAligned, evaluateOne(t, 96, p).Status)
	assert.Equal(t, model.RTOUnderUtilized, evaluateOne(t, 97, p).Status)
}

func TestEvaluateRTO_AdvancedMode_MedianPlusBuffer(t *testing.T) {
	// Advanced expectation is median + stability-discounted peak buffer; RTO
	// days do not scale it.
	p := model.DefaultPolicy()
	p.Mode = model.ModeAdvanced

	stability := 0.9
	recs := []model.Recommendation{{UnitName: "Ops", EffectiveSeats: 70}}
	units := map[string]model.Unit{"Ops": {Name: "Ops", CurrentHC: 100}}
	attendance := map[string]model.AttendanceProfile{
		"Ops": {UnitName: "Ops", MedianHC: 60, MaxHC: 80, RTODaysPerWeek: 4, Stability: &stability},
	}

	alignments := EvaluateRTO(recs, units, attendance, p)
	require.Len(t, alignments, 1)
	// 60 + (80-60) x 0.7 = 74 expected.
	assert.Equal(t, 74, alignments[0].ExpectedSeats)
}

func TestEvaluateRTO_MissingAttendanceFallsBack(t *testing.T) {
	// Without attendance data the evaluator assumes 3 RTO days per week.
	recs := []model.Recommendation{{UnitName: "Ops", EffectiveSeats: 60}}
	units := map[string]model.Unit{"Ops": {Name: "Ops", CurrentHC: 100}}

	alignments := EvaluateRTO(recs, units, nil, model.DefaultPolicy())
	require.Len(t, alignments, 1)
	assert.Equal(t, 60, alignments[0].ExpectedSeats)
	assert.Equal(t, model.RTOAligned, alignments[0].Status)
}

func TestEvaluateRTO_SkipsZeroHeadcount(t *testing.T) {
	recs := []model.Recommendation{{UnitName: "Empty"}}
	units := map[string]model.Unit{"Empty": {Name: "Empty"}}

	assert.Empty(t, EvaluateRTO(recs, units, nil, model.DefaultPolicy()))
}

func TestEvaluateRTOCompliance(t *testing.T) {
	attendance := []model.AttendanceProfile{
		{UnitName: "Sales", RTODaysPerWeek: 2.5},
		{UnitName: "Finance", RTODaysPerWeek: 4},
	}

	results := EvaluateRTOCompliance(attendance, 3.0)
	require.Len(t, results, 2)

	// Ordered by unit name.
	assert.Equal(t, "Finance", results[0].UnitName)
	assert.True(t, results[0].Compliant)
	assert.InDelta(t, 1.0, results[0].GapDays, 1e-9)

	assert.Equal(t, "Sales", results[1].UnitName)
	assert.False(t, results[1].Compliant)
	assert.InDelta(t, -0.5, results[1].GapDays, 1e-9)
}
