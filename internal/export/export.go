// Package export renders complaint reports as spreadsheets.
package export

import (
	"fmt"
	"time"

	"complaintdesk/backend/internal/config"
	"complaintdesk/backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	// ContentTypeXLSX is the media type of the workbook returned by ComplaintsXLSX.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheet = "Complaints"
)

var headers = []string{
	"ID", "Date", "Building", "Floor", "Area", "Complaint Type", "Details",
	"Status", "Seen", "Action", "Resolution Date",
}

var widths = map[string]float64{
	"A": 8, "B": 12, "C": 22, "D": 16, "E": 18, "F": 20, "G": 40,
	"H": 14, "I": 8, "J": 32, "K": 16,
}

// ComplaintsXLSX writes views into a single-sheet workbook and returns its bytes.
func ComplaintsXLSX(views []models.ComplaintView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	for c, v := range headers {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}

	for i, v := range views {
		row := i + 2
		values := []any{
			v.ID,
			v.Date.Format(config.DateLayout),
			v.Building,
			v.Floor,
			v.AreaName,
			v.ComplaintTypeName,
			v.Details,
			string(v.Status),
			yesNo(v.Seen),
			deref(v.Action),
			formatDate(v.ResolutionDate),
		}
		for c, value := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	for col, w := range widths {
		_ = f.SetColWidth(sheet, col, col, w)
	}
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	if err == nil {
		_ = f.SetCellStyle(sheet, "A1", "K1", style)
	}
	_ = f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Filename is the download name of an export; suffix is usually the export date.
func Filename(suffix string) string {
	return fmt.Sprintf("complaints_%s.xlsx", suffix)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(config.DateLayout)
}
