package model

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Baseline bundles the validated input collections owned by the data
// ingestion collaborator. The engine treats a baseline as read-only.
type Baseline struct {
	Units      []Unit              `json:"units"`
	Attendance []AttendanceProfile `json:"attendance"`
	Floors     []Floor             `json:"floors"`
}

// AttendanceMap indexes attendance profiles by unit name.
func (b Baseline) AttendanceMap() map[string]AttendanceProfile {
	m := make(map[string]AttendanceProfile, len(b.Attendance))
	for _, a := range b.Attendance {
		m[a.UnitName] = a
	}
	return m
}

// UnitMap indexes units by name.
func (b Baseline) UnitMap() map[string]Unit {
	m := make(map[string]Unit, len(b.Units))
	for _, u := range b.Units {
		m[u.Name] = u
	}
	return m
}

// Validate checks referential integrity and value ranges. It is the gate
// between ingestion and the engine: unmatched join keys or malformed records
// fail here, before any calculation runs.
func (b Baseline) Validate() error {
	names := make(map[string]bool, len(b.Units))
	for _, u := range b.Units {
		if u.Name == "" {
			return &ValidationError{Field: "unit.name", Message: "unit with empty name"}
		}
		if names[u.Name] {
			return &ValidationError{Field: "unit.name", Message: fmt.Sprintf("duplicate unit name %q", u.Name)}
		}
		names[u.Name] = true
		if u.CurrentHC < 0 {
			return &ValidationError{Field: "unit.current_hc", Message: fmt.Sprintf("unit %q has negative headcount", u.Name)}
		}
	}

	seen := make(map[string]bool, len(b.Attendance))
	for _, a := range b.Attendance {
		if !names[a.UnitName] {
			return &ValidationError{Field: "attendance.unit_name", Message: fmt.Sprintf("attendance for unknown unit %q", a.UnitName)}
		}
		if seen[a.UnitName] {
			return &ValidationError{Field: "attendance.unit_name", Message: fmt.Sprintf("duplicate attendance for unit %q", a.UnitName)}
		}
		seen[a.UnitName] = true
		if a.MedianHC > a.MaxHC {
			return &ValidationError{Field: "attendance.monthly_median_hc", Message: fmt.Sprintf("unit %q: median %.0f exceeds max %.0f", a.UnitName, a.MedianHC, a.MaxHC)}
		}
		if a.RTODaysPerWeek < 0 || a.RTODaysPerWeek > WorkingDaysPerWeek {
			return &ValidationError{Field: "attendance.avg_rto_days_per_week", Message: fmt.Sprintf("unit %q: RTO days %.1f outside 0-5", a.UnitName, a.RTODaysPerWeek)}
		}
		if a.Stability != nil && (*a.Stability < 0 || *a.Stability > 1) {
			return &ValidationError{Field: "attendance.stability", Message: fmt.Sprintf("unit %q: stability %.2f outside 0-1", a.UnitName, *a.Stability)}
		}
	}

	floorIDs := make(map[string]bool, len(b.Floors))
	for _, f := range b.Floors {
		if f.TotalSeats < 0 {
			return &ValidationError{Field: "floor.total_seats", Message: fmt.Sprintf("floor %s has negative capacity", f.FloorID())}
		}
		if floorIDs[f.FloorID()] {
			return &ValidationError{Field: "floor", Message: fmt.Sprintf("duplicate floor id %s", f.FloorID())}
		}
		floorIDs[f.FloorID()] = true
	}
	return nil
}

// Hash returns a stable content hash of the baseline, independent of record
// ordering. Allocation results carry this hash so a later baseline change is
// detectable as staleness.
func (b Baseline) Hash() string {
	c := Baseline{
		Units:      append([]Unit(nil), b.Units...),
		Attendance: append([]AttendanceProfile(nil), b.Attendance...),
		Floors:     append([]Floor(nil), b.Floors...),
	}
	sort.Slice(c.Units, func(i, j int) bool { return c.Units[i].Name < c.Units[j].Name })
	sort.Slice(c.Attendance, func(i, j int) bool { return c.Attendance[i].UnitName < c.Attendance[j].UnitName })
	sort.Slice(c.Floors, func(i, j int) bool { return c.Floors[i].FloorID() < c.Floors[j].FloorID() })

	data, err := json.Marshal(c)
	if err != nil {
		// Baseline contains only plain values; marshal cannot fail in practice.
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
