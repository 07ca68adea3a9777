package engine

import (
	"testing"

	"github.com/piwi3910/SeatPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultWith(units map[string]int, floors int) *model.AllocationResult {
	r := &model.AllocationResult{}
	for name, seats := range units {
		r.Recommendations = append(r.Recommendations, model.Recommendation{
			UnitName:      name,
			AssignedSeats: seats,
		})
	}
	for i := 0; i < floors; i++ {
		r.Assignments = append(r.Assignments, model.FloorAssignment{
			UnitName: "x", TowerID: "T1", FloorNumber: i + 1, Seats: 1,
		})
	}
	return r
}

func TestDiff_PerUnitDeltas(t *testing.T) {
	a := resultWith(map[string]int{"Finance": 64, "Sales": 30}, 3)
	b := resultWith(map[string]int{"Finance": 70, "Sales": 25}, 2)

	diff := Diff(a, b)
	require.Len(t, diff.Units, 2)

	// Units come back sorted by name.
	assert.Equal(t, "Finance", diff.Units[0].UnitName)
	assert.Equal(t, 6, diff.Units[0].Delta)
	assert.Equal(t, "Sales", diff.Units[1].UnitName)
	assert.Equal(t, -5, diff.Units[1].Delta)

	assert.Equal(t, 1, diff.TotalDelta)
	assert.Equal(t, 3, diff.FloorsA)
	assert.Equal(t, 2, diff.FloorsB)
	assert.Equal(t, 1, diff.FloorsFreed)
}

func TestDiff_Antisymmetric(t *testing.T) {
	a := resultWith(map[string]int{"Finance": 64, "Sales": 30, "Ops": 12}, 3)
	b := resultWith(map[string]int{"Finance": 70, "Sales": 25, "Ops": 12}, 1)

	ab := Diff(a, b)
	ba := Diff(b, a)

	require.Equal(t, len(ab.Units), len(ba.Units))
	for i := range ab.Units {
		assert.Equal(t, ab.Units[i].Delta, -ba.Units[i].Delta, ab.Units[i].UnitName)
	}
	assert.Equal(t, ab.TotalDelta, -ba.TotalDelta)
	assert.Equal(t, ab.FloorsFreed, -ba.FloorsFreed)
}

func TestDiff_UnitOnlyInOneResult(t *testing.T) {
	a := resultWith(map[string]int{"Finance": 64}, 1)
	b := resultWith(map[string]int{"Finance": 64, "NewTeam": 20}, 1)

	diff := Diff(a, b)
	require.Len(t, diff.Units, 2)

	newTeam := diff.Units[1]
	assert.Equal(t, "NewTeam", newTeam.UnitName)
	assert.Equal(t, 0, newTeam.SeatsBefore)
	assert.Equal(t, 20, newTeam.SeatsAfter)
	assert.Equal(t, 20, newTeam.Delta)
}

func TestDiff_NilInputs(t *testing.T) {
	b := resultWith(map[string]int{"Finance": 64}, 1)

	diff := Diff(nil, b)
	require.Len(t, diff.Units, 1)
	assert.Equal(t, 64, diff.TotalDelta)
	assert.Equal(t, 0, diff.FloorsA)

	empty := Diff(nil, nil)
	assert.Empty(t, empty.Units)
	assert.Zero(t, empty.TotalDelta)
}

func TestDiff_DoesNotMutateInputs(t *testing.T) {
	a := resultWith(map[string]int{"Finance": 64}, 1)
	b := resultWith(map[string]int{"Finance": 70}, 1)

	beforeA := a.Recommendations[0]
	beforeB := b.Recommendations[0]
	Diff(a, b)

	assert.Equal(t, beforeA, a.Recommendations[0])
	assert.Equal(t, beforeB, b.Recommendations[0])
}
