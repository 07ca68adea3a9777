package model

import "fmt"

// Floor is one floor of a tower within a building. Baseline floors are
// read-only to the engine: scenarios that reduce capacity or exclude floors
// operate on copies produced at calculation time.
type Floor struct {
	BuildingID   string `json:"building_id"`
	BuildingName string `json:"building_name"`
	TowerID      string `json:"tower_id"`
	FloorNumber  int    `json:"floor_number"`
	TotalSeats   int    `json:"total_seats"`
}

// FloorID returns the canonical floor identifier, e.g. "T1-F3".
func (f Floor) FloorID() string {
	return fmt.Sprintf("%s-F%d", f.TowerID, f.FloorNumber)
}

// TotalCapacity sums seat capacity across the given floors.
func TotalCapacity(floors []Floor) int {
	total := 0
	for _, f := range floors {
		total += f.TotalSeats
	}
	return total
}

// BuildingOfTower returns the building id that contains the given tower,
// or "" when the tower is unknown.
func BuildingOfTower(floors []Floor, towerID string) string {
	for _, f := range floors {
		if f.TowerID == towerID {
			return f.BuildingID
		}
	}
	return ""
}
