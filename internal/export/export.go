package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Capstone-E1/aquasmart_wqi/internal/models"
)

// Sheet names of the generated workbook
const (
	SheetSummary    = "Summary"
	SheetParameters = "Parameters"
	SheetReference  = "Reference"
)

// ExportService handles evaluation report export
type ExportService struct{}

// NewExportService creates a new export service instance
func NewExportService() *ExportService {
	return &ExportService{}
}

// Report is the content of one exported evaluation
type Report struct {
	Evaluation  *models.Evaluation
	Reference   models.ReferenceTable
	GeneratedAt time.Time
}

// NewReport prepares a report for an evaluation with the standard reference table
func NewReport(eval *models.Evaluation) Report {
	return Report{
		Evaluation:  eval,
		Reference:   models.WaterClassReference(),
		GeneratedAt: time.Now(),
	}
}

// Filename returns the suggested download name for the report
func (r Report) Filename(ext string) string {
	return fmt.Sprintf("aquasmart_%s_%s.%s", r.Evaluation.Variant, r.GeneratedAt.Format("20060102_150405"), ext)
}

// GenerateExcel creates an Excel workbook for the report. The caller must close the returned file.
func (es *ExportService) GenerateExcel(report Report) (*excelize.File, error) {
	if report.Evaluation == nil {
		return nil, fmt.Errorf("report has no evaluation")
	}

	f := excelize.NewFile()

	f.SetDocProps(&excelize.DocProperties{
		Category:       "AquaSmart Water Quality",
		Created:        report.GeneratedAt.Format(time.RFC3339),
		Creator:        "AquaSmart System",
		Description:    "Water quality / pollution index evaluation",
		LastModifiedBy: "AquaSmart Backend",
		Modified:       report.GeneratedAt.Format(time.RFC3339),
		Subject:        report.Evaluation.Title,
		Title:          "AquaSmart Water Quality Report",
		Version:        "1.0",
	})

	if err := es.createSummarySheet(f, report); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := es.createParametersSheet(f, report.Evaluation); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create parameters sheet: %w", err)
	}
	if err := es.createReferenceSheet(f, report.Reference); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create reference sheet: %w", err)
	}

	f.SetActiveSheet(0)

	return f, nil
}

// headerStyle returns a bold white-on-color header style
func headerStyle(f *excelize.File, fill string) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
}

// createSummarySheet writes the index, status and metadata
func (es *ExportService) createSummarySheet(f *excelize.File, report Report) error {
	sheetName := SheetSummary
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}
	eval := report.Evaluation

	titleStyle, err := headerStyle(f, "4472C4")
	if err != nil {
		return err
	}

	f.SetCellValue(sheetName, "A1", "AquaSmart "+eval.Title+" Report")
	f.MergeCell(sheetName, "A1", "D1")
	f.SetCellStyle(sheetName, "A1", "D1", titleStyle)
	f.SetRowHeight(sheetName, 1, 25)

	rows := [][2]interface{}{
		{"Generated At:", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Evaluated At:", eval.Timestamp.Format("2006-01-02 15:04:05")},
		{"Variant:", strings.ToUpper(string(eval.Variant))},
		{"Device:", eval.DeviceID},
		{"Source:", eval.Source},
		{"Index:", eval.Index},
		{"Status:", eval.Status},
	}
	for i, row := range rows {
		r := i + 3
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), row[0])
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), row[1])
	}

	// Status cell filled with the band color
	statusRow := len(rows) + 2
	statusStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{strings.TrimPrefix(eval.Color, "#")}, Pattern: 1},
	})
	if err != nil {
		return err
	}
	f.SetCellStyle(sheetName, fmt.Sprintf("B%d", statusRow), fmt.Sprintf("B%d", statusRow), statusStyle)

	numStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return err
	}
	indexRow := statusRow - 1
	f.SetCellStyle(sheetName, fmt.Sprintf("B%d", indexRow), fmt.Sprintf("B%d", indexRow), numStyle)

	if len(eval.Warnings) > 0 {
		r := statusRow + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), "Warnings")
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", r), fmt.Sprintf("A%d", r), titleStyle)
		for i, w := range eval.Warnings {
			f.SetCellValue(sheetName, fmt.Sprintf("A%d", r+1+i), w)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "D", 22)

	return nil
}

// createParametersSheet writes one row per parameter
func (es *ExportService) createParametersSheet(f *excelize.File, eval *models.Evaluation) error {
	sheetName := SheetParameters
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	headers := []string{"Parameter", "Name", "Value", "Unit", "Normalized Score", "Weight", "Contribution", "Out Of Range"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	style, err := headerStyle(f, "70AD47")
	if err != nil {
		return err
	}
	f.SetCellStyle(sheetName, "A1", "H1", style)

	for i, p := range eval.Parameters {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), p.Key)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), p.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.Value)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), p.Unit)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), p.Score)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), p.Weight)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), p.Contribution)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), p.OutOfRange)
	}

	f.SetColWidth(sheetName, "A", "A", 12)
	f.SetColWidth(sheetName, "B", "B", 28)
	f.SetColWidth(sheetName, "C", "H", 15)

	return nil
}

// createReferenceSheet writes the water class reference table
func (es *ExportService) createReferenceSheet(f *excelize.File, ref models.ReferenceTable) error {
	sheetName := SheetReference
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	headers := append([]string{"Parameter", "Unit"}, ref.Classes...)
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	style, err := headerStyle(f, "7030A0")
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheetName, "A1", last, style)

	for i, row := range ref.Rows {
		r := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), row.Parameter)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), row.Unit)
		for j, limit := range row.Limits {
			cell, _ := excelize.CoordinatesToCellName(j+3, r)
			f.SetCellValue(sheetName, cell, limit)
		}
	}

	f.SetColWidth(sheetName, "A", "B", 12)
	f.SetColWidth(sheetName, "C", "E", 26)

	return nil
}

// GenerateCSV creates CSV rows for the report: one row per parameter and a trailing index row
func (es *ExportService) GenerateCSV(report Report) ([][]string, error) {
	eval := report.Evaluation
	if eval == nil {
		return nil, fmt.Errorf("report has no evaluation")
	}

	records := [][]string{
		{"Variant", "Parameter", "Value", "Unit", "Normalized Score", "Weight", "Contribution"},
	}

	for _, p := range eval.Parameters {
		records = append(records, []string{
			string(eval.Variant),
			p.Key,
			strconv.FormatFloat(p.Value, 'f', 2, 64),
			p.Unit,
			strconv.FormatFloat(p.Score, 'f', 4, 64),
			strconv.FormatFloat(p.Weight, 'f', 2, 64),
			strconv.FormatFloat(p.Contribution, 'f', 4, 64),
		})
	}

	records = append(records, []string{
		string(eval.Variant),
		"INDEX",
		strconv.FormatFloat(eval.Index, 'f', 4, 64),
		"",
		eval.Status,
		"",
		"",
	})

	return records, nil
}

// WriteCSV writes CSV data to a writer
func (es *ExportService) WriteCSV(w *csv.Writer, records [][]string) error {
	return w.WriteAll(records)
}
