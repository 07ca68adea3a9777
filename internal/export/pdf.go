package export

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/SeatPlan/internal/engine"
	"github.com/piwi3910/SeatPlan/internal/model"
)

// unitColor represents an RGB color for a unit's seat block.
type unitColor struct {
	R, G, B int
}

// unitColors is the palette cycled through when drawing floor occupancy.
var unitColors = []unitColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	barHeight    = 9.0
	barGap       = 4.0
	floorLabelW  = 35.0
)

// WritePDF generates a PDF allocation report: a floor occupancy page per
// building, then a summary page with per-unit figures and RTO alignment.
func WritePDF(path string, result *model.AllocationResult, floors []model.Floor) error {
	if result == nil {
		return fmt.Errorf("no result to export")
	}
	if len(floors) == 0 {
		return fmt.Errorf("no floors to render")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	colorByUnit := assignColors(result.Recommendations)
	utilization := engine.ComputeFloorUtilization(floors, result.Assignments)

	// Group floors per building, one occupancy page each.
	byBuilding := map[string][]engine.FloorUtilization{}
	var buildingOrder []string
	for _, u := range utilization {
		if _, seen := byBuilding[u.BuildingID]; !seen {
			buildingOrder = append(buildingOrder, u.BuildingID)
		}
		byBuilding[u.BuildingID] = append(byBuilding[u.BuildingID], u)
	}

	for _, bld := range buildingOrder {
		pdf.AddPage()
		renderBuildingPage(pdf, byBuilding[bld], colorByUnit)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// assignColors gives each unit a stable palette color, in recommendation
// order so repeated exports color identically.
func assignColors(recs []model.Recommendation) map[string]unitColor {
	colors := make(map[string]unitColor, len(recs))
	for i, rec := range recs {
		colors[rec.UnitName] = unitColors[i%len(unitColors)]
	}
	return colors
}

// renderBuildingPage draws one horizontal occupancy bar per floor, seat
// blocks colored per unit and scaled to the widest floor on the page.
func renderBuildingPage(pdf *fpdf.Fpdf, floors []engine.FloorUtilization, colorByUnit map[string]unitColor) {
	if len(floors) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s — Floor Occupancy", floors[0].BuildingName)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	maxSeats := 0
	for _, f := range floors {
		if f.TotalSeats > maxSeats {
			maxSeats = f.TotalSeats
		}
	}
	if maxSeats == 0 {
		return
	}

	barAreaW := pageWidth - marginLeft - marginRight - floorLabelW
	scale := barAreaW / float64(maxSeats)
	y := marginTop + headerHeight + 4

	pdf.SetLineWidth(0.3)
	for _, f := range floors {
		if y > pageHeight-marginBottom-barHeight-20 {
			pdf.AddPage()
			y = marginTop
		}

		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(0, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(floorLabelW-2, barHeight, fmt.Sprintf("%s (%d)", f.FloorID, f.TotalSeats), "", 0, "L", false, 0, "")

		// Floor outline sized to total capacity.
		barX := marginLeft + floorLabelW
		barW := float64(f.TotalSeats) * scale
		pdf.SetFillColor(240, 240, 240)
		pdf.SetDrawColor(100, 100, 100)
		pdf.Rect(barX, y, barW, barHeight, "FD")

		// Stacked unit blocks, sorted for reproducible rendering.
		x := barX
		for _, name := range sortedUnitNames(f.Units) {
			seats := f.Units[name]
			col := colorByUnit[name]
			w := float64(seats) * scale
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.Rect(x, y, w, barHeight, "FD")

			label := fmt.Sprintf("%s %d", name, seats)
			if pdf.GetStringWidth(label) < w-2 {
				pdf.SetFont("Helvetica", "", 6)
				pdf.SetXY(x+1, y+barHeight/2-1.5)
				pdf.CellFormat(w-2, 3, label, "", 0, "L", false, 0, "")
			}
			x += w
		}

		// Utilization figure to the right of the bar.
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(80, 80, 80)
		pdf.SetXY(barX+barW+2, y+barHeight/2-1.5)
		pdf.CellFormat(20, 3, fmt.Sprintf("%.0f%%", f.UtilizationPct*100), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)

		y += barHeight + barGap
	}

	drawUnitLegend(pdf, colorByUnit, y+4)
}

// drawUnitLegend renders a compact color legend below the occupancy bars.
func drawUnitLegend(pdf *fpdf.Fpdf, colorByUnit map[string]unitColor, startY float64) {
	if startY > pageHeight-marginBottom-10 {
		return
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(20, 4, "Units:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 22
	maxX := pageWidth - marginRight

	names := make([]string, 0, len(colorByUnit))
	for name := range colorByUnit {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		col := colorByUnit[name]
		labelW := pdf.GetStringWidth(name) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, name, "", 0, "L", false, 0, "")
		xPos += labelW + 2
	}
}

// renderSummaryPage draws the per-unit allocation table and RTO alignment.
func renderSummaryPage(pdf *fpdf.Fpdf, result *model.AllocationResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Seat Allocation Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	summaryItems := []struct {
		label string
		value string
	}{
		{"Total Demand", fmt.Sprintf("%d seats", result.TotalDemand)},
		{"Total Supply", fmt.Sprintf("%d seats", result.TotalSupply)},
		{"Total Assigned", fmt.Sprintf("%d seats", result.TotalAssigned)},
		{"Aggregate Gap", fmt.Sprintf("%d seats", result.TotalGap)},
		{"Floors Used", fmt.Sprintf("%d", result.FloorsUsed())},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Units", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{55, 25, 30, 30, 25, 45}
	headers := []string{"Unit", "Alloc %", "Effective", "Assigned", "Gap", "RTO Status"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	rtoByUnit := map[string]model.RTOAlignment{}
	for _, a := range result.RTO {
		rtoByUnit[a.UnitName] = a
	}

	pdf.SetFont("Helvetica", "", 9)
	for i, rec := range result.Recommendations {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		status := string(rtoByUnit[rec.UnitName].Status)
		if status == "" {
			status = "-"
		}
		rowData := []string{
			rec.UnitName,
			fmt.Sprintf("%.0f%%", rec.AllocPct*100),
			fmt.Sprintf("%d", rec.EffectiveSeats),
			fmt.Sprintf("%d", rec.AssignedSeats),
			fmt.Sprintf("%+d", rec.SeatGap),
			status,
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos = marginLeft
		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	// High-fragmentation warning block.
	var fragmented []model.FragmentationMetric
	for _, m := range result.Fragmentation {
		if m.HighFragmentation {
			fragmented = append(fragmented, m)
		}
	}
	if len(fragmented) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Highly Fragmented Units", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, m := range fragmented {
			pdf.SetXY(marginLeft+5, y)
			text := fmt.Sprintf("- %s: %d floors, %.1f avg seats/floor", m.UnitName, m.FloorsOccupied, m.AvgSeatsPerFloor)
			pdf.CellFormat(200, 5, text, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	footer := fmt.Sprintf("Generated by SeatPlan - scenario %s, baseline %s", result.ScenarioID, shortHash(result.BaselineHash))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, footer, "", 0, "C", false, 0, "")
}

// sortedUnitNames returns the keys of a unit->seats map in name order.
func sortedUnitNames(units map[string]int) []string {
	names := make([]string, 0, len(units))
	for name := range units {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// shortHash truncates a baseline hash for display.
func shortHash(hash string) string {
	n := int(math.Min(float64(len(hash)), 12))
	return hash[:n]
}
