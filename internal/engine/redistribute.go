package engine

import (
	"math"

	"github.com/piwi3910/SeatPlan/internal/model"
)

// Redistribute applies scarcity redistribution to a set of recommendations.
// It runs only when aggregate effective demand exceeds the available supply:
// shrinking units (negative net change) release a share of their projected
// seat reduction into a pool, and the pool is handed to growing units in
// proportion to their share of total positive demand growth. No unit ever
// exceeds its max-allocation clamp. The pass is single and deterministic;
// residual unmet demand stays visible as gap rather than triggering further
// passes.
func Redistribute(
	recs []model.Recommendation,
	units map[string]model.Unit,
	totalSupply int,
	horizonMonths int,
	policy model.PolicyConfig,
) []model.Recommendation {
	out := make([]model.Recommendation, len(recs))
	copy(out, recs)
	for i := range out {
		// Snapshot the trace so later appends never write into the
		// caller's backing array.
		out[i].Trace = append([]model.TraceStep(nil), recs[i].Trace...)
	}

	totalDemand := 0
	for _, r := range out {
		totalDemand += r.EffectiveSeats
	}
	if totalDemand <= totalSupply {
		return out
	}

	horizon := float64(horizonMonths) / 12

	// Pass 1: shrinking units release seats into the pool.
	pool := 0
	for i := range out {
		u, ok := units[out[i].UnitName]
		if !ok || u.NetChangePct() >= 0 {
			continue
		}
		projectedReduction := math.Abs(u.NetChangePct()*horizon) * float64(out[i].EffectiveSeats)
		release := int(math.Round(policy.ShrinkContributionFactor * projectedReduction))
		if release > out[i].EffectiveSeats {
			release = out[i].EffectiveSeats
		}
		if release <= 0 {
			continue
		}
		out[i].EffectiveSeats -= release
		out[i].Trace = append(out[i].Trace, model.TraceStep{
			Rule: "scarcity_release",
			Inputs: map[string]float64{
				"net_change_pct":      u.NetChangePct(),
				"horizon_months":      float64(horizonMonths),
				"contribution_factor": policy.ShrinkContributionFactor,
			},
			Output: float64(out[i].EffectiveSeats),
		})
		pool += release
	}
	if pool == 0 {
		return out
	}

	// Pass 2: growing units absorb the pool proportionally to their share of
	// total positive demand growth, capped by the max-allocation clamp.
	growth := make([]float64, len(out))
	totalGrowth := 0.0
	for i := range out {
		u, ok := units[out[i].UnitName]
		if !ok || u.NetChangePct() <= 0 {
			continue
		}
		growth[i] = u.NetChangePct() * horizon * float64(out[i].EffectiveSeats)
		totalGrowth += growth[i]
	}
	if totalGrowth <= 0 {
		return out
	}

	remaining := pool
	for i := range out {
		if growth[i] <= 0 || remaining == 0 {
			continue
		}
		u := units[out[i].UnitName]
		// Rounded shares can sum past the pool; the running remainder is
		// the hard budget, so granted seats never exceed released ones.
		grant := int(math.Round(float64(pool) * growth[i] / totalGrowth))
		if grant > remaining {
			grant = remaining
		}
		maxSeats := int(math.Round(policy.MaxAllocPct * float64(u.CurrentHC)))
		if room := maxSeats - out[i].EffectiveSeats; grant > room {
			grant = room
		}
		if grant <= 0 {
			continue
		}
		out[i].EffectiveSeats += grant
		remaining -= grant
		out[i].Trace = append(out[i].Trace, model.TraceStep{
			Rule: "scarcity_grant",
			Inputs: map[string]float64{
				"pool":         float64(pool),
				"growth_share": growth[i] / totalGrowth,
				"max_seats":    float64(maxSeats),
			},
			Output: float64(out[i].EffectiveSeats),
		})
	}
	return out
}
