package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/SeatPlan/internal/model"
)

// Placement is the output of the greedy spatial engine: per-floor seat
// blocks, fragmentation metrics and unmet demand per unit.
type Placement struct {
	Assignments   []model.FloorAssignment
	Fragmentation []model.FragmentationMetric
	Shortfall     map[string]int // unit name -> seats that found no capacity
}

// candidate pairs a floor with its mutable remaining capacity for one run.
type candidate struct {
	floor     model.Floor
	remaining int
}

// Place assigns each unit's effective demand to specific floors. Units are
// processed highest demand first (ties by name ascending) so runs are
// reproducible. For each unit, floors are consumed in a strict preference
// order: a single home-tower floor that fits the whole remaining demand,
// then home-tower floors adjacent to seats the unit already holds, then the
// home tower, the home building, and finally any floor anywhere. Within a
// tier the floor with the most remaining capacity wins, to avoid fragment
// leftovers. Excluded floors are dropped from the pool before placement
// begins.
func Place(
	recs []model.Recommendation,
	units map[string]model.Unit,
	floors []model.Floor,
	excludedFloorIDs []string,
	minAvgSeatsPerFloor float64,
) Placement {
	excluded := make(map[string]bool, len(excludedFloorIDs))
	for _, id := range excludedFloorIDs {
		excluded[id] = true
	}

	pool := make([]*candidate, 0, len(floors))
	for _, f := range floors {
		if excluded[f.FloorID()] {
			continue
		}
		pool = append(pool, &candidate{floor: f, remaining: f.TotalSeats})
	}

	ordered := append([]model.Recommendation(nil), recs...)
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].EffectiveSeats != ordered[j].EffectiveSeats {
			return ordered[i].EffectiveSeats > ordered[j].EffectiveSeats
		}
		return ordered[i].UnitName < ordered[j].UnitName
	})

	p := Placement{Shortfall: map[string]int{}}

	for _, rec := range ordered {
		unit := units[rec.UnitName]
		left := rec.EffectiveSeats

		// Floors in the home tower already holding this unit, keyed by
		// floor number, for adjacency checks while the demand spans floors.
		placedFloors := map[int]bool{}
		anchorTower := unit.HomeTowerID
		anchorBuilding := model.BuildingOfTower(floors, anchorTower)

		for left > 0 {
			best := bestCandidate(pool, anchorTower, anchorBuilding, placedFloors, left)
			if best == nil {
				break
			}

			seats := left
			if seats > best.remaining {
				seats = best.remaining
			}
			tier := placementTier(best, anchorTower, anchorBuilding, placedFloors, left)
			p.Assignments = append(p.Assignments, model.FloorAssignment{
				UnitName:    rec.UnitName,
				BuildingID:  best.floor.BuildingID,
				TowerID:     best.floor.TowerID,
				FloorNumber: best.floor.FloorNumber,
				Seats:       seats,
				Tier:        tierLabel(tier),
			})
			best.remaining -= seats
			left -= seats

			if anchorTower == "" {
				// Unit without a home tower anchors on its first placement.
				anchorTower = best.floor.TowerID
				anchorBuilding = best.floor.BuildingID
			}
			if best.floor.TowerID == anchorTower {
				placedFloors[best.floor.FloorNumber] = true
			}
		}

		if left > 0 {
			p.Shortfall[rec.UnitName] = left
		}
	}

	p.Fragmentation = fragmentation(recs, p.Assignments, minAvgSeatsPerFloor)
	return p
}

// Preference tiers, lower is better. The ordering is policy, kept explicit
// so the greedy engine and the optimizer can be compared against each other.
const (
	tierSingleFit = iota // one home-tower floor fits the whole remaining demand
	tierAdjacent         // home tower, +/-1 from a floor the unit already holds
	tierSameTower
	tierSameBuilding
	tierAnywhere
)

func tierLabel(tier int) model.AdjacencyTier {
	switch tier {
	case tierSingleFit:
		return model.TierSingleFloor
	case tierAdjacent:
		return model.TierAdjacent
	case tierSameTower:
		return model.TierSameTower
	case tierSameBuilding:
		return model.TierSameBldg
	default:
		return model.TierCrossBldg
	}
}

// placementTier ranks a candidate floor for a unit with `demandLeft` seats
// still unplaced.
func placementTier(c *candidate, anchorTower, anchorBuilding string, placedFloors map[int]bool, demandLeft int) int {
	if anchorTower == "" {
		return tierAnywhere
	}
	if c.floor.TowerID == anchorTower {
		if c.remaining >= demandLeft {
			return tierSingleFit
		}
		if placedFloors[c.floor.FloorNumber-1] || placedFloors[c.floor.FloorNumber+1] {
			return tierAdjacent
		}
		return tierSameTower
	}
	if anchorBuilding != "" && c.floor.BuildingID == anchorBuilding {
		return tierSameBuilding
	}
	return tierAnywhere
}

// bestCandidate picks the floor with the lowest tier; within a tier the most
// remaining capacity wins, with floor id ascending as the final tie-break.
func bestCandidate(pool []*candidate, anchorTower, anchorBuilding string, placedFloors map[int]bool, demandLeft int) *candidate {
	var best *candidate
	bestTier := 0
	for _, c := range pool {
		if c.remaining <= 0 {
			continue
		}
		tier := placementTier(c, anchorTower, anchorBuilding, placedFloors, demandLeft)
		if best == nil || tier < bestTier ||
			(tier == bestTier && c.remaining > best.remaining) ||
			(tier == bestTier && c.remaining == best.remaining && c.floor.FloorID() < best.floor.FloorID()) {
			best = c
			bestTier = tier
		}
	}
	return best
}

// fragmentation computes per-unit spread metrics. A unit is flagged when it
// occupies three or more floors or its average block size drops below the
// configured minimum.
func fragmentation(recs []model.Recommendation, assignments []model.FloorAssignment, minAvgSeats float64) []model.FragmentationMetric {
	floorsByUnit := map[string]map[string]bool{}
	for _, a := range assignments {
		if floorsByUnit[a.UnitName] == nil {
			floorsByUnit[a.UnitName] = map[string]bool{}
		}
		floorsByUnit[a.UnitName][a.FloorID()] = true
	}

	metrics := make([]model.FragmentationMetric, 0, len(recs))
	ordered := append([]model.Recommendation(nil), recs...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].UnitName < ordered[j].UnitName })

	for _, rec := range ordered {
		occupied := len(floorsByUnit[rec.UnitName])
		m := model.FragmentationMetric{UnitName: rec.UnitName, FloorsOccupied: occupied}
		if occupied > 0 {
			m.AvgSeatsPerFloor = float64(rec.EffectiveSeats) / float64(occupied)
			m.HighFragmentation = occupied >= 3 || (minAvgSeats > 0 && m.AvgSeatsPerFloor < minAvgSeats)
		}
		metrics = append(metrics, m)
	}
	return metrics
}

// FloorUtilization summarizes occupancy for one floor.
type FloorUtilization struct {
	FloorID        string         `json:"floor_id"`
	BuildingID     string         `json:"building_id"`
	BuildingName   string         `json:"building_name"`
	TowerID        string         `json:"tower_id"`
	FloorNumber    int            `json:"floor_number"`
	TotalSeats     int            `json:"total_seats"`
	UsedSeats      int            `json:"used_seats"`
	AvailableSeats int            `json:"available_seats"`
	UtilizationPct float64        `json:"utilization_pct"`
	Units          map[string]int `json:"units"`
}

// ComputeFloorUtilization aggregates assignments per floor, in floor order.
func ComputeFloorUtilization(floors []model.Floor, assignments []model.FloorAssignment) []FloorUtilization {
	usage := map[string]map[string]int{}
	for _, a := range assignments {
		fid := a.FloorID()
		if usage[fid] == nil {
			usage[fid] = map[string]int{}
		}
		usage[fid][a.UnitName] += a.Seats
	}

	results := make([]FloorUtilization, 0, len(floors))
	for _, f := range floors {
		fid := f.FloorID()
		used := 0
		for _, seats := range usage[fid] {
			used += seats
		}
		util := FloorUtilization{
			FloorID:        fid,
			BuildingID:     f.BuildingID,
			BuildingName:   f.BuildingName,
			TowerID:        f.TowerID,
			FloorNumber:    f.FloorNumber,
			TotalSeats:     f.TotalSeats,
			UsedSeats:      used,
			AvailableSeats: f.TotalSeats - used,
			Units:          usage[fid],
		}
		if f.TotalSeats > 0 {
			util.UtilizationPct = float64(used) / float64(f.TotalSeats)
		}
		results = append(results, util)
	}
	return results
}

// ConsolidationSuggestions proposes moves for highly fragmented units: shift
// the smallest block onto the floor holding the largest one.
func ConsolidationSuggestions(metrics []model.FragmentationMetric, assignments []model.FloorAssignment) []string {
	var suggestions []string
	for _, m := range metrics {
		if !m.HighFragmentation {
			continue
		}
		var blocks []model.FloorAssignment
		for _, a := range assignments {
			if a.UnitName == m.UnitName {
				blocks = append(blocks, a)
			}
		}
		if len(blocks) < 2 {
			continue
		}
		sort.Slice(blocks, func(i, j int) bool { return blocks[i].Seats < blocks[j].Seats })
		smallest, largest := blocks[0], blocks[len(blocks)-1]
		suggestions = append(suggestions, fmt.Sprintf(
			"%s: consider moving %d seats from %s to %s to reduce fragmentation (%d floors occupied)",
			m.UnitName, smallest.Seats, smallest.FloorID(), largest.FloorID(), m.FloorsOccupied))
	}
	return suggestions
}
