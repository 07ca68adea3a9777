package engine

import (
	"testing"

	"github.com/piwi3910/SeatPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedistribute_NoOpWhenSupplySufficient(t *testing.T) {
	recs := []model.Recommendation{
		{UnitName: "A", EffectiveSeats: 50},
		{UnitName: "B", EffectiveSeats: 50},
	}
	units := map[string]model.Unit{
		"A": {Name: "A", CurrentHC: 60, AttritionPct: 0.2},
		"B": {Name: "B", CurrentHC: 60, GrowthPct: 0.2},
	}

	out := Redistribute(recs, units, 120, 6, model.DefaultPolicy())
	assert.Equal(t, recs, out)
}

func TestRedistribute_ShrinkerReleasesGrowerGains(t *testing.T) {
	// Demand 200 against supply 150 triggers the pass. The shrinker's net
	// change is -20%/yr over 6 months: release = round(0.5 x 0.10 x 100) = 5.
	recs := []model.Recommendation{
		{UnitName: "Shrink", EffectiveSeats: 100},
		{UnitName: "Grow", EffectiveSeats: 100},
	}
	units := map[string]model.Unit{
		"Shrink": {Name: "Shrink", CurrentHC: 100, AttritionPct: 0.20},
		"Grow":   {Name: "Grow", CurrentHC: 100, GrowthPct: 0.30},
	}

	out := Redistribute(recs, units, 150, 6, model.DefaultPolicy())
	require.Len(t, out, 2)

	assert.Equal(t, 95, out[0].EffectiveSeats, "shrinker releases 5 seats")
	assert.Equal(t, 105, out[1].EffectiveSeats, "grower absorbs the pool")

	// Both sides carry a redistribution trace step.
	assert.Equal(t, "scarcity_release", out[0].Trace[len(out[0].Trace)-1].Rule)
	assert.Equal(t, "scarcity_grant", out[1].Trace[len(out[1].Trace)-1].Rule)
}

func TestRedistribute_GrantCappedAtMaxClamp(t *testing.T) {
	// Grower sits one seat below its max clamp (1.5 x 10 HC = 15 seats); no
	// matter how big the pool, it gains at most one seat.
	recs := []model.Recommendation{
		{UnitName: "Shrink", EffectiveSeats: 200},
		{UnitName: "Grow", EffectiveSeats: 14},
	}
	units := map[string]model.Unit{
		"Shrink": {Name: "Shrink", CurrentHC: 200, AttritionPct: 0.50},
		"Grow":   {Name: "Grow", CurrentHC: 10, GrowthPct: 0.40},
	}

	out := Redistribute(recs, units, 100, 6, model.DefaultPolicy())
	assert.Equal(t, 15, out[1].EffectiveSeats)
}

func TestRedistribute_GrantsNeverExceedReleased(t *testing.T) {
	// One shrinker releases 5 seats while two identical growers each round
	// up to 3 when computed independently. The pool is a hard budget: the
	// second grower gets the 2-seat remainder, not another 3.
	recs := []model.Recommendation{
		{UnitName: "Shrink", EffectiveSeats: 100},
		{UnitName: "GrowA", EffectiveSeats: 100},
		{UnitName: "GrowB", EffectiveSeats: 100},
	}
	units := map[string]model.Unit{
		"Shrink": {Name: "Shrink", CurrentHC: 100, AttritionPct: 0.20},
		"GrowA":  {Name: "GrowA", CurrentHC: 100, GrowthPct: 0.30},
		"GrowB":  {Name: "GrowB", CurrentHC: 100, GrowthPct: 0.30},
	}

	out := Redistribute(recs, units, 200, 6, model.DefaultPolicy())

	assert.Equal(t, 95, out[0].EffectiveSeats)
	assert.Equal(t, 103, out[1].EffectiveSeats)
	assert.Equal(t, 102, out[2].EffectiveSeats)

	granted := (out[1].EffectiveSeats - 100) + (out[2].EffectiveSeats - 100)
	assert.Equal(t, 5, granted, "grants stop when the pool runs dry")
}

func TestRedistribute_DoesNotAliasInputTraces(t *testing.T) {
	// The input trace has spare capacity; the returned snapshot must append
	// into its own backing array so a later caller-side append cannot
	// clobber the redistribution step.
	trace := make([]model.TraceStep, 1, 4)
	trace[0] = model.TraceStep{Rule: "effective_seats", Output: 100}
	recs := []model.Recommendation{
		{UnitName: "Shrink", EffectiveSeats: 100, Trace: trace},
		{UnitName: "Grow", EffectiveSeats: 100},
	}
	units := map[string]model.Unit{
		"Shrink": {Name: "Shrink", CurrentHC: 100, AttritionPct: 0.20},
		"Grow":   {Name: "Grow", CurrentHC: 100, GrowthPct: 0.30},
	}

	out := Redistribute(recs, units, 150, 6, model.DefaultPolicy())
	require.Len(t, out[0].Trace, 2)

	recs[0].Trace = append(recs[0].Trace, model.TraceStep{Rule: "unrelated"})
	assert.Equal(t, "scarcity_release", out[0].Trace[1].Rule)
}

func TestRedistribute_NoGrowersLeavesPoolUnspent(t *testing.T) {
	recs := []model.Recommendation{
		{UnitName: "Shrink", EffectiveSeats: 100},
		{UnitName: "Flat", EffectiveSeats: 100},
	}
	units := map[string]model.Unit{
		"Shrink": {Name: "Shrink", CurrentHC: 100, AttritionPct: 0.20},
		"Flat":   {Name: "Flat", CurrentHC: 100},
	}

	out := Redistribute(recs, units, 150, 6, model.DefaultPolicy())
	assert.Equal(t, 95, out[0].EffectiveSeats)
	assert.Equal(t, 100, out[1].EffectiveSeats, "flat unit untouched")
}

func TestRedistribute_ConservesOrReducesTotal(t *testing.T) {
	// Redistribution moves seats; it never mints them.
	recs := []model.Recommendation{
		{UnitName: "A", EffectiveSeats: 120},
		{UnitName: "B", EffectiveSeats: 80},
		{UnitName: "C", EffectiveSeats: 60},
	}
	units := map[string]model.Unit{
		"A": {Name: "A", CurrentHC: 120, AttritionPct: 0.30},
		"B": {Name: "B", CurrentHC: 80, GrowthPct: 0.25},
		"C": {Name: "C", CurrentHC: 60, GrowthPct: 0.10},
	}

	out := Redistribute(recs, units, 200, 6, model.DefaultPolicy())

	before := 120 + 80 + 60
	after := 0
	for _, r := range out {
		after += r.EffectiveSeats
	}
	assert.LessOrEqual(t, after, before)
}

func TestRedistribute_DoesNotMutateInput(t *testing.T) {
	recs := []model.Recommendation{
		{UnitName: "Shrink", EffectiveSeats: 100},
		{UnitName: "Grow", EffectiveSeats: 100},
	}
	units := map[string]model.Unit{
		"Shrink": {Name: "Shrink", CurrentHC: 100, AttritionPct: 0.20},
		"Grow":   {Name: "Grow", CurrentHC: 100, GrowthPct: 0.30},
	}

	Redistribute(recs, units, 150, 6, model.DefaultPolicy())
	assert.Equal(t, 100, recs[0].EffectiveSeats)
	assert.Equal(t, 100, recs[1].EffectiveSeats)
}
