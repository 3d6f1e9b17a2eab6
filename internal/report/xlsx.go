// Package report renders match listings into downloadable artifacts.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"candix/internal/domain"
)

const sheetName = "Matches"

var columns = []string{
	"Rank", "Candidate", "File", "Score",
	"Skills Score", "Experience Score", "Certifications Score", "Projects Score",
	"Skills",
}

// MatchesXLSX renders ranked match results as an xlsx workbook.
func MatchesXLSX(jobTitle string, results []domain.MatchResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", "Matches for: "+jobTitle); err != nil {
		return nil, fmt.Errorf("writing title: %w", err)
	}
	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		if err := f.SetCellValue(sheetName, cell, col); err != nil {
			return nil, fmt.Errorf("writing header: %w", err)
		}
	}

	for row, r := range results {
		values := []interface{}{
			row + 1,
			r.CandidateName,
			r.FileName,
			round4(r.Score),
			round4(r.SectionScores["skills"]),
			round4(r.SectionScores["experience"]),
			round4(r.SectionScores["certifications"]),
			round4(r.SectionScores["projects"]),
			strings.Join(r.Skills, ", "),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, fmt.Errorf("writing row %d: %w", row+1, err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serializing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func round4(v float64) float64 {
	return float64(int(v*10000+0.5)) / 10000
}
