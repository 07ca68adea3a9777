package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/SeatPlan/internal/engine"
	"github.com/piwi3910/SeatPlan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportFixture(t *testing.T) (*model.AllocationResult, []model.Floor) {
	t.Helper()

	baseline := model.Baseline{
		Units: []model.Unit{
			{Name: "Finance", CurrentHC: 80, HomeTowerID: "T1"},
			{Name: "Engineering", CurrentHC: 120, GrowthPct: 0.10, HomeTowerID: "T2"},
		},
		Attendance: []model.AttendanceProfile{
			{UnitName: "Finance", MedianHC: 55, MaxHC: 65, RTODaysPerWeek: 4},
			{UnitName: "Engineering", MedianHC: 70, MaxHC: 95, RTODaysPerWeek: 3},
		},
		Floors: []model.Floor{
			{BuildingID: "B1", BuildingName: "HQ", TowerID: "T1", FloorNumber: 1, TotalSeats: 120},
			{BuildingID: "B1", BuildingName: "HQ", TowerID: "T2", FloorNumber: 1, TotalSeats: 150},
		},
	}

	result, err := engine.RunScenario(baseline, nil, model.DefaultPolicy())
	require.NoError(t, err)
	return result, baseline.Floors
}

func TestWriteWorkbook(t *testing.T) {
	result, floors := exportFixture(t)
	path := filepath.Join(t.TempDir(), "allocation.xlsx")

	require.NoError(t, WriteWorkbook(path, result, floors))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Summary", "Units", "Floors", "RTO"}, f.GetSheetList())

	rows, err := f.GetRows("Units")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per unit")
	assert.Equal(t, "Unit", rows[0][0])

	cell, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Scenario", cell)
}

func TestWriteWorkbook_NilResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allocation.xlsx")
	assert.Error(t, WriteWorkbook(path, nil, nil))
}

func TestWritePDF(t *testing.T) {
	result, floors := exportFixture(t)
	path := filepath.Join(t.TempDir(), "report.pdf")

	require.NoError(t, WritePDF(path, result, floors))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000), "report should have real content")
}

func TestWritePDF_NoFloors(t *testing.T) {
	result, _ := exportFixture(t)
	path := filepath.Join(t.TempDir(), "report.pdf")
	assert.Error(t, WritePDF(path, result, nil))
}

func TestWriteSeatCards(t *testing.T) {
	result, _ := exportFixture(t)
	path := filepath.Join(t.TempDir(), "cards.pdf")

	require.NoError(t, WriteSeatCards(path, result))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(1000))
}

func TestWriteSeatCards_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.pdf")
	assert.Error(t, WriteSeatCards(path, &model.AllocationResult{}))
}

func TestCollectSeatCards_StableOrder(t *testing.T) {
	result := &model.AllocationResult{
		ScenarioID: "abc123",
		Assignments: []model.FloorAssignment{
			{UnitName: "Zeta", TowerID: "T1", FloorNumber: 2, Seats: 10, Tier: model.TierSameTower},
			{UnitName: "Alpha", TowerID: "T2", FloorNumber: 1, Seats: 5, Tier: model.TierSingleFloor},
			{UnitName: "Alpha", TowerID: "T1", FloorNumber: 3, Seats: 7, Tier: model.TierSameBldg},
			{UnitName: "Skip", TowerID: "T1", FloorNumber: 1, Seats: 0},
		},
	}

	cards := CollectSeatCards(result)
	require.Len(t, cards, 3, "zero-seat assignments are dropped")

	assert.Equal(t, "Alpha", cards[0].UnitName)
	assert.Equal(t, "T1", cards[0].TowerID)
	assert.Equal(t, "Alpha", cards[1].UnitName)
	assert.Equal(t, "T2", cards[1].TowerID)
	assert.Equal(t, "Zeta", cards[2].UnitName)
	for _, c := range cards {
		assert.Equal(t, "abc123", c.ScenarioID)
	}
}
