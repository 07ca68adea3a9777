// Package export writes allocation results to shareable file formats:
// an Excel workbook, a PDF report, and QR-coded seat cards.
package export

import (
	"fmt"

	"github.com/piwi3910/SeatPlan/internal/engine"
	"github.com/piwi3910/SeatPlan/internal/model"
	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes an allocation result as an Excel workbook with four
// sheets: Summary, Units, Floors and RTO.
func WriteWorkbook(path string, result *model.AllocationResult, floors []model.Floor) error {
	if result == nil {
		return fmt.Errorf("no result to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Summary")
	if err := writeSummarySheet(f, result); err != nil {
		return err
	}
	if err := writeUnitsSheet(f, result); err != nil {
		return err
	}
	if err := writeFloorsSheet(f, result, floors); err != nil {
		return err
	}
	if err := writeRTOSheet(f, result); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, result *model.AllocationResult) error {
	rows := [][]interface{}{
		{"Scenario", result.ScenarioID},
		{"Computed at", result.ComputedAt.Format("2006-01-02 15:04:05 MST")},
		{"Baseline hash", result.BaselineHash},
		{},
		{"Total demand", result.TotalDemand},
		{"Total supply", result.TotalSupply},
		{"Total assigned", result.TotalAssigned},
		{"Total gap", result.TotalGap},
		{"Floors used", result.FloorsUsed()},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow("Summary", cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeUnitsSheet(f *excelize.File, result *model.AllocationResult) error {
	if _, err := f.NewSheet("Units"); err != nil {
		return err
	}
	header := []interface{}{
		"Unit", "Alloc %", "Effective Seats", "Assigned Seats", "Seat Gap",
		"Floors Occupied", "Avg Seats/Floor", "High Fragmentation", "Overridden",
	}
	if err := f.SetSheetRow("Units", "A1", &header); err != nil {
		return err
	}

	fragByUnit := map[string]model.FragmentationMetric{}
	for _, m := range result.Fragmentation {
		fragByUnit[m.UnitName] = m
	}

	for i, rec := range result.Recommendations {
		frag := fragByUnit[rec.UnitName]
		row := []interface{}{
			rec.UnitName,
			rec.AllocPct,
			rec.EffectiveSeats,
			rec.AssignedSeats,
			rec.SeatGap,
			frag.FloorsOccupied,
			frag.AvgSeatsPerFloor,
			frag.HighFragmentation,
			rec.Overridden,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow("Units", cell, &row); err != nil {
			return fmt.Errorf("failed to write unit row for %q: %w", rec.UnitName, err)
		}
	}
	return nil
}

func writeFloorsSheet(f *excelize.File, result *model.AllocationResult, floors []model.Floor) error {
	if _, err := f.NewSheet("Floors"); err != nil {
		return err
	}
	header := []interface{}{
		"Floor", "Building", "Tower", "Total Seats", "Used Seats",
		"Available", "Utilization %", "Units",
	}
	if err := f.SetSheetRow("Floors", "A1", &header); err != nil {
		return err
	}

	utilization := engine.ComputeFloorUtilization(floors, result.Assignments)
	for i, u := range utilization {
		unitsCell := ""
		for name, seats := range u.Units {
			if unitsCell != "" {
				unitsCell += ", "
			}
			unitsCell += fmt.Sprintf("%s (%d)", name, seats)
		}
		row := []interface{}{
			u.FloorID,
			u.BuildingName,
			u.TowerID,
			u.TotalSeats,
			u.UsedSeats,
			u.AvailableSeats,
			u.UtilizationPct * 100,
			unitsCell,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow("Floors", cell, &row); err != nil {
			return fmt.Errorf("failed to write floor row for %q: %w", u.FloorID, err)
		}
	}
	return nil
}

func writeRTOSheet(f *excelize.File, result *model.AllocationResult) error {
	if _, err := f.NewSheet("RTO"); err != nil {
		return err
	}
	header := []interface{}{"Unit", "Expected Seats", "Effective Seats", "Gap %", "Status"}
	if err := f.SetSheetRow("RTO", "A1", &header); err != nil {
		return err
	}
	for i, a := range result.RTO {
		row := []interface{}{
			a.UnitName,
			a.ExpectedSeats,
			a.EffectiveSeats,
			a.GapPct * 100,
			string(a.Status),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow("RTO", cell, &row); err != nil {
			return fmt.Errorf("failed to write RTO row for %q: %w", a.UnitName, err)
		}
	}
	return nil
}
