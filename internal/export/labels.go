package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/SeatPlan/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// SeatCardInfo holds the data encoded into each seat card's QR code. Move
// crews scan the card to confirm which block of seats goes where.
type SeatCardInfo struct {
	UnitName    string `json:"unit"`
	BuildingID  string `json:"building"`
	TowerID     string `json:"tower"`
	FloorNumber int    `json:"floor"`
	Seats       int    `json:"seats"`
	Tier        string `json:"tier"`
	ScenarioID  string `json:"scenario"`
}

// Card layout constants for Avery 5160-compatible labels (3 columns, 10 rows
// per page). Each cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	cardPageHeight = 279.4 // US Letter height in mm
	cardMarginTop  = 12.7  // mm
	cardMarginLeft = 4.8   // mm
	cardWidth      = 66.7  // mm per card
	cardHeight     = 25.4  // mm per card
	cardCols       = 3
	cardRows       = 10
	cardsPerPage   = cardCols * cardRows
	qrSize         = 20.0 // QR code size in mm
	cardPadding    = 2.0  // mm internal padding
)

// WriteSeatCards generates a PDF of QR-coded seat cards, one per floor
// assignment. Cards are laid out on a standard label sheet format
// (Avery 5160 / 3 columns x 10 rows on US Letter).
func WriteSeatCards(path string, result *model.AllocationResult) error {
	if result == nil {
		return fmt.Errorf("no result to generate seat cards for")
	}

	cards := CollectSeatCards(result)
	if len(cards) == 0 {
		return fmt.Errorf("no seat assignments to generate cards for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, card := range cards {
		if i%cardsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % cardsPerPage
		col := posOnPage % cardCols
		row := posOnPage / cardCols

		x := cardMarginLeft + float64(col)*cardWidth
		y := cardMarginTop + float64(row)*cardHeight

		if err := renderSeatCard(pdf, x, y, i, card); err != nil {
			return fmt.Errorf("failed to render seat card for %q: %w", card.UnitName, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderSeatCard draws a single seat card at the given position.
func renderSeatCard(pdf *fpdf.Fpdf, x, y float64, idx int, card SeatCardInfo) error {
	// Light border for cutting guide.
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, cardWidth, cardHeight, "D")

	qrData, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to marshal seat card: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_card_%d", idx)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + cardWidth - qrSize - cardPadding
	qrY := y + (cardHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + cardPadding
	textW := cardWidth - qrSize - 3*cardPadding

	// Unit name (bold, larger), truncated to fit.
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+cardPadding)

	name := card.UnitName
	if pdf.GetStringWidth(name) > textW {
		for len(name) > 0 && pdf.GetStringWidth(name+"...") > textW {
			name = name[:len(name)-1]
		}
		name += "..."
	}
	pdf.CellFormat(textW, 4.5, name, "", 1, "L", false, 0, "")

	// Location line.
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+cardPadding+5)
	location := fmt.Sprintf("%s floor %d", card.TowerID, card.FloorNumber)
	pdf.CellFormat(textW, 3.5, location, "", 1, "L", false, 0, "")

	// Seat count.
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(textX, y+cardPadding+9)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%d seats", card.Seats), "", 1, "L", false, 0, "")

	// Placement tier indicator.
	pdf.SetFont("Helvetica", "I", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+cardPadding+13)
	pdf.CellFormat(textW, 3, card.Tier, "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// CollectSeatCards extracts seat card data from an allocation result, in a
// stable unit-then-floor order.
func CollectSeatCards(result *model.AllocationResult) []SeatCardInfo {
	var cards []SeatCardInfo
	for _, a := range result.Assignments {
		if a.Seats <= 0 {
			continue
		}
		cards = append(cards, SeatCardInfo{
			UnitName:    a.UnitName,
			BuildingID:  a.BuildingID,
			TowerID:     a.TowerID,
			FloorNumber: a.FloorNumber,
			Seats:       a.Seats,
			Tier:        string(a.Tier),
			ScenarioID:  result.ScenarioID,
		})
	}
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].UnitName != cards[j].UnitName {
			return cards[i].UnitName < cards[j].UnitName
		}
		if cards[i].TowerID != cards[j].TowerID {
			return cards[i].TowerID < cards[j].TowerID
		}
		return cards[i].FloorNumber < cards[j].FloorNumber
	})
	return cards
}
