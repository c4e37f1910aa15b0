package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/RollCut/internal/model"
)

// LabelInfo holds the data encoded into each roll label's QR code.
type LabelInfo struct {
	PlanID    string    `json:"plan"`
	RollIndex int       `json:"roll"`
	RollCount int       `json:"rolls"`
	Capacity  float64   `json:"capacity"`
	Pieces    []float64 `json:"pieces"`
	Waste     float64   `json:"waste"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// ExportLabels generates a PDF of QR-coded labels, one per physical roll.
// Each label lists the roll's pieces and waste and carries a QR code with
// the same data as JSON.
func ExportLabels(path string, plan model.CutPlan) error {
	labels := CollectLabelInfos(plan)
	if len(labels) == 0 {
		return fmt.Errorf("no rolls to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for roll %d: %w", label.RollIndex, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Draw light border for cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%s_%d", info.PlanID, info.RollIndex)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	// QR code on the right side of the label
	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, fmt.Sprintf("Roll %d / %d", info.RollIndex, info.RollCount), "", 1, "L", false, 0, "")

	// Piece list, truncated to the text area
	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	pieces := formatPieces(info.Pieces)
	if pdf.GetStringWidth(pieces) > textW {
		for len(pieces) > 0 && pdf.GetStringWidth(pieces+"...") > textW {
			pieces = pieces[:len(pieces)-1]
		}
		pieces += "..."
	}
	pdf.CellFormat(textW, 3.5, pieces, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	pdf.CellFormat(textW, 3, fmt.Sprintf("Width %g, waste %g", info.Capacity, info.Waste), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}

func formatPieces(pieces []float64) string {
	var buf bytes.Buffer
	for i, w := range pieces {
		if i > 0 {
			buf.WriteString(" + ")
		}
		fmt.Fprintf(&buf, "%g", w)
	}
	return buf.String()
}

// CollectLabelInfos extracts one label per roll from a cut plan.
func CollectLabelInfos(plan model.CutPlan) []LabelInfo {
	labels := make([]LabelInfo, 0, len(plan.Rolls))
	for i, r := range plan.Rolls {
		labels = append(labels, LabelInfo{
			PlanID:    plan.ID,
			RollIndex: i + 1,
			RollCount: len(plan.Rolls),
			Capacity:  plan.Capacity,
			Pieces:    append([]float64(nil), r...),
			Waste:     r.Waste(plan.Capacity),
		})
	}
	return labels
}
