package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/justttkumkum/talent-scout-ai/internal/models"
)

const applicationsSheet = "Applications"

var exportHeaders = []string{
	"Submitted", "Name", "Email", "LinkedIn", "Tech Stack", "Candidate Type",
	"Technical Skill", "Experience Relevance", "Communication", "Education Quality",
	"Education Category", "Recommendation", "Strengths", "Weaknesses", "Resume",
}

// ExportApplications writes the applications as an XLSX workbook, one row
// per application in the order given.
func ExportApplications(w io.Writer, apps []models.Application) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", applicationsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	recommendedStyle, _ := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
		Border: border,
	})
	notRecommendedStyle, _ := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
		Border: border,
	})
	pendingStyle, _ := f.NewStyle(&excelize.Style{
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"FFEB9C"}, Pattern: 1},
		Border: border,
	})

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(applicationsSheet, cell, header)
		f.SetCellStyle(applicationsSheet, cell, cell, headerStyle)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	f.SetColWidth(applicationsSheet, "A", "A", 20)
	f.SetColWidth(applicationsSheet, "B", "E", 25)
	f.SetColWidth(applicationsSheet, "F", "L", 15)
	f.SetColWidth(applicationsSheet, "M", "N", 50)
	f.SetColWidth(applicationsSheet, lastCol, lastCol, 40)

	for i, app := range apps {
		row := i + 2
		values := []any{
			app.CreatedAt.UTC().Format("2006-01-02 15:04"),
			app.Name,
			app.Email,
			stringValue(app.LinkedinURL),
			strings.Join(app.TechStack, ", "),
			stringValue(app.CandidateType),
			intValue(app.TechnicalSkillScore),
			intValue(app.ExperienceRelevanceScore),
			intValue(app.CommunicationScore),
			intValue(app.EducationQualityScore),
			stringValue(app.EducationCategory),
			string(app.Recommendation),
			stringValue(app.Strengths),
			stringValue(app.Weaknesses),
			app.ResumeURL,
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(applicationsSheet, cell, value)
		}

		style := pendingStyle
		switch app.Recommendation {
		case models.Recommended:
			style = recommendedStyle
		case models.NotRecommended:
			style = notRecommendedStyle
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), row)
		f.SetCellStyle(applicationsSheet, first, last, style)

		if app.ResumeURL != "" {
			f.SetCellHyperLink(applicationsSheet, last, app.ResumeURL, "External")
		}
	}

	if err := f.SetPanes(applicationsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// intValue leaves the cell empty for a missing score.
func intValue(i *int) any {
	if i == nil {
		return ""
	}
	return *i
}
