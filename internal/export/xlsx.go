package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"privlens/internal/domain"
)

const (
	sectionsSheet = "Sections"
	summarySheet  = "Summary"
)

// WriteXLSX writes a workbook with a document summary sheet and one row per
// section on a second sheet.
func WriteXLSX(out io.Writer, res *domain.DocumentResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	summary := [][]any{
		{"Company", res.CompanyName},
		{"Analysis ID", res.ID.String()},
		{"Created At", res.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Overall Risk", string(res.OverallRiskLevel)},
		{"User Friendliness (1-5)", res.UserFriendlinessScore},
		{"Mean Sensitivity", res.MeanSensitivityScore},
		{"Weighted Sensitivity", res.OverallSensitivityScore},
		{"Weighted Privacy Impact", res.OverallPrivacyImpact},
		{"Compliance Score", res.ComplianceScore},
		{"Readability Score", res.ReadabilityScore},
		{"Sections", len(res.Sections)},
		{"High Risk Sections", res.HighRiskSections},
		{"Interactive Sections", res.InteractiveSections},
		{"Quiz Unavailable Sections", res.QuizUnavailableSections},
		{"Total Words", res.TotalWordCount},
		{"Reading Time (min)", res.EstimatedReadingTime},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary row: %w", err)
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 28); err != nil {
		return err
	}

	if _, err := f.NewSheet(sectionsSheet); err != nil {
		return fmt.Errorf("creating sections sheet: %w", err)
	}
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sectionsSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sectionsSheet, "A1", last, bold); err != nil {
		return err
	}

	for i := range res.Sections {
		row := sectionToRow(&res.Sections[i])
		values := make([]any, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sectionsSheet, cell, &values); err != nil {
			return fmt.Errorf("writing section row: %w", err)
		}
	}

	return f.Write(out)
}

// Write renders res in format f.
func Write(out io.Writer, res *domain.DocumentResult, f Format) error {
	switch f {
	case FormatXLSX:
		return WriteXLSX(out, res)
	case FormatCSV:
		return WriteCSV(out, res)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedExport, f)
	}
}
