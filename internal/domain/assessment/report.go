package assessment

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// RenderGapReport lays out one row per assessment, largest gap first as given.
func RenderGapReport(items []Assessment, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Capability gap report", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Capability gap report")
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.UTC().Format(time.RFC3339)))
	pdf.Ln(10)

	headers := []string{"Employee", "Department", "Capability", "Required", "Achieved", "Gap", "Mandatory"}
	widths := []float64{55, 45, 70, 25, 25, 25, 25}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, a := range items {
		withGap(&a)
		name := a.EmployeeName
		if name == "" {
			name = a.RoleID
		}
		mandatory := "no"
		if a.Mandatory {
			mandatory = "yes"
		}
		row := []string{
			name,
			a.DepartmentID,
			a.CapabilityName,
			fmt.Sprintf("%.1f", a.RequiredScore),
			optionalScore(a.ScoreAchieved),
			optionalScore(a.Gap),
			mandatory,
		}
		for i, v := range row {
			pdf.CellFormat(widths[i], 7, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(items) == 0 {
		pdf.Cell(0, 8, "No assessments recorded.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func optionalScore(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
